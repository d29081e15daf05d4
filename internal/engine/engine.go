package engine

import (
	"errors"
	"math/rand"
)

var ErrInsufficientPlayers = errors.New("at least 3 players required")
var ErrStateMismatch = errors.New("operation not valid in current phase")
var ErrInvalidVote = errors.New("invalid vote")
var ErrUnknownPlayer = errors.New("unknown player")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseLobby    Phase = "LOBBY"
	PhaseHint     Phase = "HINT"
	PhaseVoting   Phase = "VOTING"
	PhaseGuessing Phase = "GUESSING"
	PhaseFinished Phase = "FINISHED"
)

type Role int

const (
	RoleUnassigned Role = iota
	RoleCitizen
	RoleImpostor
)

type Player struct {
	ID    string
	Name  string
	Role  Role
	Votes int
	Voted bool
}

// State is the full per-room session: roster plus current round data.
// Round fields (Secret..TurnOrder) are only meaningful outside PhaseLobby.
type State struct {
	Code       string
	Phase      Phase
	Difficulty string
	Secret     string
	Category   string
	Decoy      string
	ImpostorID string
	TurnOrder  []string
	Players    map[string]Player
}

func NewState(code string) State {
	return State{
		Code:    code,
		Phase:   PhaseLobby,
		Players: map[string]Player{},
	}
}

// WordBank supplies one (secret, category, decoy) triple per round.
// An unrecognized difficulty falls back to the bank's default tier.
type WordBank interface {
	Next(difficulty string, rng *rand.Rand) (secret, category, decoy string)
}

// Env carries the injected collaborators Apply needs: the word bank and
// a seedable random source, so tests can fix round outcomes.
type Env struct {
	Bank WordBank
	Rand *rand.Rand
}

type CommandType string

const (
	CmdJoin        CommandType = "Join"
	CmdLeave       CommandType = "Leave"
	CmdStartRound  CommandType = "StartRound"
	CmdBeginVoting CommandType = "BeginVoting"
	CmdCastVote    CommandType = "CastVote"
	CmdSubmitGuess CommandType = "SubmitGuess"
	CmdReset       CommandType = "Reset"
)

type Command struct {
	Type       CommandType
	PlayerID   string
	Name       string
	TargetID   string
	Difficulty string
	Guess      string
}

type EventType string

const (
	EvtPlayerJoined  EventType = "PlayerJoined"
	EvtPlayerLeft    EventType = "PlayerLeft"
	EvtRoundStarted  EventType = "RoundStarted"
	EvtRoleAssigned  EventType = "RoleAssigned"
	EvtVotingStarted EventType = "VotingStarted"
	EvtVoteCast      EventType = "VoteCast"
	EvtGuessStarted  EventType = "GuessStarted"
	EvtRoundEnded    EventType = "RoundEnded"
	EvtRoundReset    EventType = "RoundReset"
)

type Outcome string

const (
	OutcomeTie              Outcome = "TIE"
	OutcomeInnocentExpelled Outcome = "INNOCENT_EXPELLED"
	OutcomeGuess            Outcome = "GUESS"
)

type Winner string

const (
	WinnerImpostor Winner = "IMPOSTOR"
	WinnerCitizens Winner = "CITIZENS"
	WinnerNobody   Winner = "NOBODY"
)

// Event is one consequence of a command. Events with Private set must be
// delivered only to PlayerID, never to the whole room — role words and
// the guess prompt leak the game if broadcast.
type Event struct {
	Type       EventType
	PlayerID   string
	Private    bool
	Name       string
	IsImpostor bool
	Word       string
	Category   string
	FirstTurn  string
	Outcome    Outcome
	Winner     Winner
	Expelled   string
	Impostor   string
	Secret     string
	Guess      string
	GuessOK    bool
}

// Apply validates cmd against s and returns the resulting events and
// state. On error the returned state is s unchanged; ErrInvalidVote and
// ErrStateMismatch are expected during normal play and callers drop them
// silently. The caller must serialize Apply calls for a given room.
func Apply(s State, cmd Command, env Env) ([]Event, State, error) {
	ns := s

	switch cmd.Type {
	case CmdJoin:
		// Rejoining with the same id resets the entry.
		ns.Players[cmd.PlayerID] = Player{ID: cmd.PlayerID, Name: cmd.Name}
		return []Event{{Type: EvtPlayerJoined, PlayerID: cmd.PlayerID, Name: cmd.Name}}, ns, nil

	case CmdLeave:
		p, ok := s.Players[cmd.PlayerID]
		if !ok {
			return nil, s, ErrUnknownPlayer
		}
		delete(ns.Players, cmd.PlayerID)
		return []Event{{Type: EvtPlayerLeft, PlayerID: cmd.PlayerID, Name: p.Name}}, ns, nil

	case CmdStartRound:
		// Only the player count guards this; a start while a round is
		// already live overwrites the round. Clients are expected not to
		// offer the start button mid-round.
		if len(s.Players) < 3 {
			return nil, s, ErrInsufficientPlayers
		}
		setup := NewRound(s.Players, cmd.Difficulty, env.Bank, env.Rand)
		ns.Difficulty = cmd.Difficulty
		ns.Secret = setup.Secret
		ns.Category = setup.Category
		ns.Decoy = setup.Decoy
		ns.ImpostorID = setup.ImpostorID
		ns.TurnOrder = setup.TurnOrder
		for id, p := range ns.Players {
			if id == setup.ImpostorID {
				p.Role = RoleImpostor
			} else {
				p.Role = RoleCitizen
			}
			p.Votes = 0
			p.Voted = false
			ns.Players[id] = p
		}
		ns.Phase = PhaseHint

		events := []Event{{
			Type:      EvtRoundStarted,
			FirstTurn: ns.Players[setup.TurnOrder[0]].Name,
		}}
		for id, p := range ns.Players {
			word := ns.Secret
			if p.Role == RoleImpostor {
				word = ns.Decoy
			}
			events = append(events, Event{
				Type:       EvtRoleAssigned,
				PlayerID:   id,
				Private:    true,
				IsImpostor: p.Role == RoleImpostor,
				Word:       word,
				Category:   ns.Category,
			})
		}
		return events, ns, nil

	case CmdBeginVoting:
		if s.Phase != PhaseHint {
			return nil, s, ErrStateMismatch
		}
		ns.Phase = PhaseVoting
		return []Event{{Type: EvtVotingStarted}}, ns, nil

	case CmdCastVote:
		if s.Phase != PhaseVoting {
			return nil, s, ErrInvalidVote
		}
		voter, ok := s.Players[cmd.PlayerID]
		if !ok || voter.Voted {
			return nil, s, ErrInvalidVote
		}
		target, ok := s.Players[cmd.TargetID]
		if !ok {
			return nil, s, ErrInvalidVote
		}
		target.Votes++
		ns.Players[cmd.TargetID] = target
		voter = ns.Players[cmd.PlayerID] // re-read: voter may be the target
		voter.Voted = true
		ns.Players[cmd.PlayerID] = voter

		events := []Event{{Type: EvtVoteCast, PlayerID: cmd.PlayerID}}
		if !allVoted(ns) {
			return events, ns, nil
		}

		// Last vote is in: resolve inside the same step so a concurrent
		// cast can never race the tally.
		res := resolveVotes(ns)
		switch {
		case res.Tie:
			ns.Phase = PhaseFinished
			events = append(events, Event{
				Type:     EvtRoundEnded,
				Outcome:  OutcomeTie,
				Winner:   WinnerNobody,
				Impostor: ns.Players[ns.ImpostorID].Name,
				Secret:   ns.Secret,
			})
		case res.TargetID == ns.ImpostorID:
			ns.Phase = PhaseGuessing
			events = append(events, Event{
				Type:     EvtGuessStarted,
				PlayerID: ns.ImpostorID,
				Private:  true,
			})
		default:
			ns.Phase = PhaseFinished
			events = append(events, Event{
				Type:     EvtRoundEnded,
				Outcome:  OutcomeInnocentExpelled,
				Winner:   WinnerImpostor,
				Expelled: ns.Players[res.TargetID].Name,
				Impostor: ns.Players[ns.ImpostorID].Name,
				Secret:   ns.Secret,
			})
		}
		return events, ns, nil

	case CmdSubmitGuess:
		if s.Phase != PhaseGuessing {
			return nil, s, ErrStateMismatch
		}
		if cmd.PlayerID != s.ImpostorID {
			return nil, s, ErrStateMismatch
		}
		match := Normalize(cmd.Guess) == Normalize(s.Secret)
		ns.Phase = PhaseFinished
		winner := WinnerCitizens
		if match {
			winner = WinnerImpostor
		}
		return []Event{{
			Type:     EvtRoundEnded,
			Outcome:  OutcomeGuess,
			Winner:   winner,
			Impostor: s.Players[s.ImpostorID].Name,
			Secret:   s.Secret,
			Guess:    cmd.Guess,
			GuessOK:  match,
		}}, ns, nil

	case CmdReset:
		ns.Phase = PhaseLobby
		ns.Secret = ""
		ns.Category = ""
		ns.Decoy = ""
		ns.ImpostorID = ""
		ns.TurnOrder = nil
		for id, p := range ns.Players {
			p.Role = RoleUnassigned
			p.Votes = 0
			p.Voted = false
			ns.Players[id] = p
		}
		return []Event{{Type: EvtRoundReset}}, ns, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}
