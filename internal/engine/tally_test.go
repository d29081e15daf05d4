package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tallyState(votes map[string]int) State {
	s := NewState("ABCD")
	for id, n := range votes {
		s.Players[id] = Player{ID: id, Name: "name-" + id, Votes: n}
	}
	return s
}

func TestResolveVotes(t *testing.T) {
	cases := []struct {
		name   string
		votes  map[string]int
		tie    bool
		target string
	}{
		{"single leader", map[string]int{"a": 2, "b": 1, "c": 0}, false, "a"},
		{"top two equal", map[string]int{"a": 2, "b": 2, "c": 0}, true, ""},
		{"three way tie", map[string]int{"a": 1, "b": 1, "c": 1}, true, ""},
		{"zero vote players still rank", map[string]int{"a": 0, "b": 0, "c": 0}, true, ""},
		{"leader over shared second place", map[string]int{"a": 3, "b": 1, "c": 1, "d": 1}, false, "a"},
		{"empty roster", map[string]int{}, true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := resolveVotes(tallyState(tc.votes))
			require.Equal(t, tc.tie, res.Tie)
			require.Equal(t, tc.target, res.TargetID)
		})
	}
}

func TestAllVoted(t *testing.T) {
	s := NewState("ABCD")
	s.Players["a"] = Player{ID: "a", Voted: true}
	s.Players["b"] = Player{ID: "b"}
	require.False(t, allVoted(s))

	p := s.Players["b"]
	p.Voted = true
	s.Players["b"] = p
	require.True(t, allVoted(s))
}
