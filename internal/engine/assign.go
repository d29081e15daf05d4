package engine

import (
	"math/rand"
	"sort"
)

// RoundSetup holds everything a fresh round needs: the word triple, the
// impostor and the hint order.
type RoundSetup struct {
	Secret     string
	Category   string
	Decoy      string
	ImpostorID string
	TurnOrder  []string
}

// NewRound draws a word triple for the difficulty and samples the
// impostor and the turn order independently — the impostor is not
// guaranteed any particular position. Player ids are sorted before
// sampling so a seeded rng reproduces the same round.
func NewRound(players map[string]Player, difficulty string, bank WordBank, rng *rand.Rand) RoundSetup {
	secret, category, decoy := bank.Next(difficulty, rng)

	ids := make([]string, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	impostor := ids[rng.Intn(len(ids))]

	order := make([]string, len(ids))
	copy(order, ids)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	return RoundSetup{
		Secret:     secret,
		Category:   category,
		Decoy:      decoy,
		ImpostorID: impostor,
		TurnOrder:  order,
	}
}
