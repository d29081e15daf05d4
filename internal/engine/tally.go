package engine

import "sort"

// VoteResult is the outcome of a completed voting round: either a single
// most-voted player or a tie.
type VoteResult struct {
	Tie      bool
	TargetID string
}

func allVoted(s State) bool {
	for _, p := range s.Players {
		if !p.Voted {
			return false
		}
	}
	return true
}

// resolveVotes ranks every roster member by votes received, zero-vote
// players included. A shared top count is a tie; comparing ranks 0 and 1
// is enough since a lower rank can never exceed the pair above it.
func resolveVotes(s State) VoteResult {
	if len(s.Players) == 0 {
		return VoteResult{Tie: true}
	}
	ranked := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		ranked = append(ranked, p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Votes != ranked[j].Votes {
			return ranked[i].Votes > ranked[j].Votes
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > 1 && ranked[1].Votes == ranked[0].Votes {
		return VoteResult{Tie: true}
	}
	return VoteResult{TargetID: ranked[0].ID}
}
