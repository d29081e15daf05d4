package types

// ClientMessage is everything a client may send over the socket. Type
// selects the operation; unused fields stay empty.
type ClientMessage struct {
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
	Code       string `json:"code,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	TargetID   string `json:"target_id,omitempty"`
	Guess      string `json:"guess,omitempty"`
	Text       string `json:"text,omitempty"`
}

const (
	MsgCreateRoom  = "create_room"
	MsgJoinRoom    = "join_room"
	MsgStartRound  = "start_round"
	MsgBeginVoting = "begin_voting"
	MsgCastVote    = "cast_vote"
	MsgSubmitGuess = "submit_guess"
	MsgChat        = "chat"
	MsgResetRound  = "reset_round"
)

const (
	MsgRoomJoined   = "room_joined"
	MsgRoomState    = "room_state"
	MsgRoundStarted = "round_started"
	MsgRoleAssigned = "role_assigned"
	MsgVoteUpdate   = "vote_update"
	MsgGuessPrompt  = "guess_prompt"
	MsgGameOver     = "game_over"
	MsgError        = "error"
)

// ChatSystem is the sender name on lifecycle chat lines.
const ChatSystem = "Juego"

type PlayerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Votes int    `json:"votes"`
	Voted bool   `json:"voted"`
}

// RoomSnapshot is the room-wide state view. TurnOrder carries display
// names in hint order; private round data (words, impostor id) never
// appears here.
type RoomSnapshot struct {
	Code        string       `json:"code"`
	Phase       string       `json:"state"`
	Category    string       `json:"category"`
	TurnOrder   []string     `json:"turn_order"`
	Players     []PlayerView `json:"players"`
	PlayerCount int          `json:"player_count"`
}

// ServerMessage is the single outbound envelope; Type decides which of
// the optional fields are populated.
type ServerMessage struct {
	Type    string        `json:"type"`
	Version int           `json:"version,omitempty"`
	Code    string        `json:"code,omitempty"`
	State   *RoomSnapshot `json:"state,omitempty"`

	// room_joined
	PlayerID string `json:"player_id,omitempty"`

	// role_assigned
	IsImpostor bool   `json:"is_impostor,omitempty"`
	Word       string `json:"word,omitempty"`
	Category   string `json:"category,omitempty"`

	// game_over
	Outcome      string `json:"outcome,omitempty"`
	Winner       string `json:"winner,omitempty"`
	Expelled     string `json:"expelled,omitempty"`
	Impostor     string `json:"impostor,omitempty"`
	Secret       string `json:"secret,omitempty"`
	Guess        string `json:"guess,omitempty"`
	GuessCorrect bool   `json:"guess_correct,omitempty"`

	// chat
	Sender string `json:"sender,omitempty"`
	Text   string `json:"text,omitempty"`

	// round start announcement
	FirstTurn string `json:"first_turn,omitempty"`

	Error string `json:"error,omitempty"`
}
