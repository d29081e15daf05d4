package engine

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixedBank struct{ secret, category, decoy string }

func (b fixedBank) Next(string, *rand.Rand) (string, string, string) {
	return b.secret, b.category, b.decoy
}

func testEnv() Env {
	return Env{
		Bank: fixedBank{"Fernet", "Bebidas", "Coca-Cola"},
		Rand: rand.New(rand.NewSource(1)),
	}
}

func stateWith(ids ...string) State {
	s := NewState("ABCD")
	for _, id := range ids {
		s.Players[id] = Player{ID: id, Name: "name-" + id}
	}
	return s
}

func startRound(t *testing.T, s State, env Env) ([]Event, State) {
	t.Helper()
	events, ns, err := Apply(s, Command{Type: CmdStartRound, Difficulty: "Fácil"}, env)
	require.NoError(t, err)
	return events, ns
}

func beginVoting(t *testing.T, s State, env Env) State {
	t.Helper()
	_, ns, err := Apply(s, Command{Type: CmdBeginVoting}, env)
	require.NoError(t, err)
	return ns
}

func castVote(t *testing.T, s State, env Env, voter, target string) ([]Event, State) {
	t.Helper()
	events, ns, err := Apply(s, Command{Type: CmdCastVote, PlayerID: voter, TargetID: target}, env)
	require.NoError(t, err)
	return events, ns
}

func TestStartRound_AssignsExactlyOneImpostor(t *testing.T) {
	env := testEnv()
	_, s := startRound(t, stateWith("a", "b", "c"), env)

	impostors := 0
	for _, p := range s.Players {
		if p.Role == RoleImpostor {
			impostors++
			require.Equal(t, s.ImpostorID, p.ID)
		} else {
			require.Equal(t, RoleCitizen, p.Role)
		}
	}
	require.Equal(t, 1, impostors)
	require.Equal(t, PhaseHint, s.Phase)
	require.NotEqual(t, s.Secret, s.Decoy)
}

func TestStartRound_TurnOrderIsPermutation(t *testing.T) {
	env := testEnv()
	_, s := startRound(t, stateWith("a", "b", "c", "d", "e"), env)

	require.Len(t, s.TurnOrder, 5)
	got := append([]string(nil), s.TurnOrder...)
	sort.Strings(got)
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestStartRound_InsufficientPlayers(t *testing.T) {
	env := testEnv()
	s := stateWith("a", "b")

	_, ns, err := Apply(s, Command{Type: CmdStartRound, Difficulty: "Fácil"}, env)
	require.ErrorIs(t, err, ErrInsufficientPlayers)
	require.Equal(t, PhaseLobby, ns.Phase)
}

func TestStartRound_PrivateRoleDelivery(t *testing.T) {
	env := testEnv()
	events, s := startRound(t, stateWith("a", "b", "c"), env)

	roleEvents := map[string]Event{}
	for _, e := range events {
		if e.Type == EvtRoleAssigned {
			require.True(t, e.Private, "role events must be point-to-point")
			roleEvents[e.PlayerID] = e
		}
	}
	require.Len(t, roleEvents, 3)

	for id, e := range roleEvents {
		require.Equal(t, "Bebidas", e.Category)
		if id == s.ImpostorID {
			require.True(t, e.IsImpostor)
			require.Equal(t, "Coca-Cola", e.Word, "impostor must never see the secret")
		} else {
			require.False(t, e.IsImpostor)
			require.Equal(t, "Fernet", e.Word)
		}
	}
}

func TestStartRound_AnnouncesFirstHinter(t *testing.T) {
	env := testEnv()
	events, s := startRound(t, stateWith("a", "b", "c"), env)

	require.Equal(t, EvtRoundStarted, events[0].Type)
	require.Equal(t, s.Players[s.TurnOrder[0]].Name, events[0].FirstTurn)
}

func TestBeginVoting_OnlyFromHint(t *testing.T) {
	env := testEnv()
	s := stateWith("a", "b", "c")

	_, _, err := Apply(s, Command{Type: CmdBeginVoting}, env)
	require.ErrorIs(t, err, ErrStateMismatch)

	_, s = startRound(t, s, env)
	s = beginVoting(t, s, env)
	require.Equal(t, PhaseVoting, s.Phase)
}

func TestCastVote_SilentDrops(t *testing.T) {
	env := testEnv()
	s := stateWith("a", "b", "c")

	// not voting yet
	_, _, err := Apply(s, Command{Type: CmdCastVote, PlayerID: "a", TargetID: "b"}, env)
	require.ErrorIs(t, err, ErrInvalidVote)

	_, s = startRound(t, s, env)
	s = beginVoting(t, s, env)

	// unknown target
	_, _, err = Apply(s, Command{Type: CmdCastVote, PlayerID: "a", TargetID: "zz"}, env)
	require.ErrorIs(t, err, ErrInvalidVote)

	// double vote
	_, s = castVote(t, s, env, "a", "b")
	_, ns, err := Apply(s, Command{Type: CmdCastVote, PlayerID: "a", TargetID: "c"}, env)
	require.ErrorIs(t, err, ErrInvalidVote)
	require.Equal(t, 1, ns.Players["b"].Votes)
	require.Equal(t, 0, ns.Players["c"].Votes)
}

func TestVoteResolution_ImpostorCaughtGoesToGuessing(t *testing.T) {
	env := testEnv()
	_, s := startRound(t, stateWith("a", "b", "c"), env)
	s = beginVoting(t, s, env)

	impostor := s.ImpostorID
	var events []Event
	for id := range s.Players {
		events, s = castVote(t, s, env, id, impostor)
	}

	require.Equal(t, PhaseGuessing, s.Phase)
	last := events[len(events)-1]
	require.Equal(t, EvtGuessStarted, last.Type)
	require.True(t, last.Private)
	require.Equal(t, impostor, last.PlayerID)
}

func TestVoteResolution_InnocentExpelled(t *testing.T) {
	env := testEnv()
	_, s := startRound(t, stateWith("a", "b", "c"), env)
	s = beginVoting(t, s, env)

	var citizen string
	for id, p := range s.Players {
		if p.Role == RoleCitizen {
			citizen = id
			break
		}
	}

	var events []Event
	for id := range s.Players {
		events, s = castVote(t, s, env, id, citizen)
	}

	require.Equal(t, PhaseFinished, s.Phase)
	last := events[len(events)-1]
	require.Equal(t, EvtRoundEnded, last.Type)
	require.Equal(t, OutcomeInnocentExpelled, last.Outcome)
	require.Equal(t, WinnerImpostor, last.Winner)
	require.Equal(t, s.Players[citizen].Name, last.Expelled)
	require.Equal(t, "Fernet", last.Secret)
}

func TestVoteResolution_TopTwoTie(t *testing.T) {
	env := testEnv()
	_, s := startRound(t, stateWith("a", "b", "c", "d"), env)
	s = beginVoting(t, s, env)

	// a and b vote c; c and d vote a -> c:2, a:2 regardless of roles.
	_, s = castVote(t, s, env, "a", "c")
	_, s = castVote(t, s, env, "b", "c")
	_, s = castVote(t, s, env, "c", "a")
	events, s := castVote(t, s, env, "d", "a")

	require.Equal(t, PhaseFinished, s.Phase)
	last := events[len(events)-1]
	require.Equal(t, EvtRoundEnded, last.Type)
	require.Equal(t, OutcomeTie, last.Outcome)
	require.Equal(t, WinnerNobody, last.Winner)
	require.Empty(t, last.Expelled)
}

func TestVoteResolution_SumOfVotesEqualsVoters(t *testing.T) {
	env := testEnv()
	_, s := startRound(t, stateWith("a", "b", "c"), env)
	s = beginVoting(t, s, env)

	_, s = castVote(t, s, env, "a", "b")
	_, s = castVote(t, s, env, "b", "a")
	_, s = castVote(t, s, env, "c", "b")

	total := 0
	for _, p := range s.Players {
		total += p.Votes
	}
	require.Equal(t, 3, total)
}

func guessingState(impostor string, ids ...string) State {
	s := stateWith(ids...)
	s.Phase = PhaseGuessing
	s.Secret = "Fernet"
	s.Category = "Bebidas"
	s.Decoy = "Coca-Cola"
	s.ImpostorID = impostor
	return s
}

func TestSubmitGuess_NormalizedComparison(t *testing.T) {
	env := testEnv()
	cases := []struct {
		guess string
		match bool
	}{
		{"Fernet", true},
		{"FERNET", true},
		{"fernét", true},
		{" Fernet ", true},
		{"Coca-Cola", false},
		{"", false},
	}
	for _, tc := range cases {
		s := guessingState("b", "a", "b", "c")
		events, ns, err := Apply(s, Command{Type: CmdSubmitGuess, PlayerID: "b", Guess: tc.guess}, env)
		require.NoError(t, err, tc.guess)
		require.Equal(t, PhaseFinished, ns.Phase)

		e := events[0]
		require.Equal(t, EvtRoundEnded, e.Type)
		require.Equal(t, OutcomeGuess, e.Outcome)
		require.Equal(t, tc.match, e.GuessOK, "guess %q", tc.guess)
		if tc.match {
			require.Equal(t, WinnerImpostor, e.Winner)
		} else {
			require.Equal(t, WinnerCitizens, e.Winner)
		}
		require.Equal(t, tc.guess, e.Guess)
	}
}

func TestSubmitGuess_OnlyImpostorMayGuess(t *testing.T) {
	env := testEnv()
	s := guessingState("b", "a", "b", "c")

	_, ns, err := Apply(s, Command{Type: CmdSubmitGuess, PlayerID: "a", Guess: "Fernet"}, env)
	require.ErrorIs(t, err, ErrStateMismatch)
	require.Equal(t, PhaseGuessing, ns.Phase)
}

func TestReset_ClearsRoundAndIsIdempotent(t *testing.T) {
	env := testEnv()
	_, s := startRound(t, stateWith("a", "b", "c"), env)
	s = beginVoting(t, s, env)
	_, s = castVote(t, s, env, "a", "b")

	_, once, err := Apply(s, Command{Type: CmdReset}, env)
	require.NoError(t, err)
	_, twice, err := Apply(once, Command{Type: CmdReset}, env)
	require.NoError(t, err)

	for _, ns := range []State{once, twice} {
		require.Equal(t, PhaseLobby, ns.Phase)
		require.Empty(t, ns.Secret)
		require.Empty(t, ns.ImpostorID)
		require.Nil(t, ns.TurnOrder)
		for _, p := range ns.Players {
			require.Equal(t, RoleUnassigned, p.Role)
			require.Zero(t, p.Votes)
			require.False(t, p.Voted)
		}
	}
	require.Equal(t, once.Players, twice.Players)
}

func TestLeave_MidRoundKeepsRolesAndVotes(t *testing.T) {
	env := testEnv()
	_, s := startRound(t, stateWith("a", "b", "c", "d"), env)
	s = beginVoting(t, s, env)
	_, s = castVote(t, s, env, "a", "b")

	_, s, err := Apply(s, Command{Type: CmdLeave, PlayerID: s.ImpostorID}, env)
	require.NoError(t, err)

	require.Len(t, s.Players, 3)
	require.Equal(t, PhaseVoting, s.Phase)
	if _, stays := s.Players["b"]; stays {
		require.Equal(t, 1, s.Players["b"].Votes)
	}
	for _, p := range s.Players {
		require.NotEqual(t, RoleUnassigned, p.Role)
	}
}

func TestJoin_RejoinResetsEntry(t *testing.T) {
	env := testEnv()
	s := stateWith("a", "b", "c")
	p := s.Players["a"]
	p.Votes = 2
	p.Voted = true
	s.Players["a"] = p

	_, ns, err := Apply(s, Command{Type: CmdJoin, PlayerID: "a", Name: "fresh"}, env)
	require.NoError(t, err)
	require.Equal(t, "fresh", ns.Players["a"].Name)
	require.Zero(t, ns.Players["a"].Votes)
	require.False(t, ns.Players["a"].Voted)
}
