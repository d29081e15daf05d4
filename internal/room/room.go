// Package room runs one goroutine per room. The goroutine owns the
// engine state outright: every join, vote and transition arrives as a
// message on the inbox, so operations on one room are serialized while
// different rooms proceed independently.
package room

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/ncastellano/impostor-backend/internal/engine"
	"github.com/ncastellano/impostor-backend/internal/types"
)

type Msg interface{ isRoomMsg() }

// Join registers a connection and adds its player to the roster. Host
// marks the room creator, which only changes the system chat line.
type Join struct {
	PlayerID string
	Name     string
	Host     bool
	Outbox   chan types.ServerMessage
}

func (Join) isRoomMsg() {}

type Leave struct{ PlayerID string }

func (Leave) isRoomMsg() {}

type FromClient struct {
	PlayerID string
	Cmd      engine.Command
}

func (FromClient) isRoomMsg() {}

type Chat struct {
	PlayerID string
	Text     string
}

func (Chat) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// GetState reflects internal state without data races; test-only.
type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type View struct {
	Version    int
	NumClients int
	State      engine.State
}

type Room struct {
	code    string
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan types.ServerMessage
	env     engine.Env
	log     *zap.Logger
	onEmpty func(code string)
	ctx     context.Context
	cancel  context.CancelFunc
}

// New starts the room goroutine. onEmpty is called once, from the room
// goroutine, after the last player leaves; the room shuts itself down
// right after.
func New(parent context.Context, code string, env engine.Env, log *zap.Logger, onEmpty func(code string)) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		code:    code,
		inbox:   make(chan Msg, 64),
		state:   engine.NewState(code),
		clients: make(map[string]chan types.ServerMessage),
		env:     env,
		log:     log,
		onEmpty: onEmpty,
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)

			case Leave:
				if r.handleLeave(msg) {
					return
				}

			case FromClient:
				r.handleCommand(msg)

			case Chat:
				p, ok := r.state.Players[msg.PlayerID]
				if !ok {
					break
				}
				r.broadcast(types.ServerMessage{Type: types.MsgChat, Sender: p.Name, Text: msg.Text})

			case GetState:
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					State:      r.state,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	events, ns, err := engine.Apply(r.state, engine.Command{
		Type:     engine.CmdJoin,
		PlayerID: msg.PlayerID,
		Name:     msg.Name,
	}, r.env)
	if err != nil {
		r.log.Warn("join rejected", zap.Error(err))
		close(msg.Outbox)
		return
	}
	r.state = ns
	r.version++
	r.clients[msg.PlayerID] = msg.Outbox

	r.sendTo(msg.PlayerID, types.ServerMessage{
		Type:     types.MsgRoomJoined,
		Code:     r.code,
		PlayerID: msg.PlayerID,
	})
	r.routeEvents(events)
	line := msg.Name + " entró."
	if msg.Host {
		line = "Sala creada por " + msg.Name + "."
	}
	r.systemChat(line)
}

// handleLeave reports true when the room emptied and shut down.
func (r *Room) handleLeave(msg Leave) bool {
	if ch, ok := r.clients[msg.PlayerID]; ok {
		close(ch)
		delete(r.clients, msg.PlayerID)
	}
	events, ns, err := engine.Apply(r.state, engine.Command{
		Type:     engine.CmdLeave,
		PlayerID: msg.PlayerID,
	}, r.env)
	if err != nil {
		return false // already gone
	}
	r.state = ns
	r.version++

	if len(r.state.Players) == 0 {
		r.log.Info("room empty, closing")
		r.shutdown()
		if r.onEmpty != nil {
			r.onEmpty(r.code)
		}
		return true
	}
	r.routeEvents(events)
	return false
}

func (r *Room) handleCommand(msg FromClient) {
	cmd := msg.Cmd
	cmd.PlayerID = msg.PlayerID

	events, ns, err := engine.Apply(r.state, cmd, r.env)
	switch {
	case errors.Is(err, engine.ErrInsufficientPlayers):
		r.sendTo(msg.PlayerID, types.ServerMessage{Type: types.MsgError, Error: "Min 3 jugadores."})
		return
	case err != nil:
		// Invalid votes and out-of-state operations are dropped without
		// feedback, matching the product's wire behavior.
		r.log.Debug("command dropped",
			zap.String("cmd", string(cmd.Type)),
			zap.String("player", msg.PlayerID),
			zap.Error(err))
		return
	}
	r.state = ns
	r.version++
	r.routeEvents(events)
}

// routeEvents turns engine events into wire messages: one room_state
// snapshot when anything visible changed, private messages point-to-point,
// the rest room-wide.
func (r *Room) routeEvents(events []engine.Event) {
	needSnapshot := false
	for _, e := range events {
		switch e.Type {
		case engine.EvtPlayerJoined, engine.EvtPlayerLeft, engine.EvtRoundStarted,
			engine.EvtVotingStarted, engine.EvtGuessStarted, engine.EvtRoundReset:
			needSnapshot = true
		}
	}
	if needSnapshot {
		r.broadcast(r.snapshotMsg())
	}

	for _, e := range events {
		switch e.Type {
		case engine.EvtRoundStarted:
			r.broadcast(types.ServerMessage{Type: types.MsgRoundStarted, FirstTurn: e.FirstTurn})
			r.systemChat("¡Empezó la partida!")

		case engine.EvtRoleAssigned:
			r.sendTo(e.PlayerID, types.ServerMessage{
				Type:       types.MsgRoleAssigned,
				IsImpostor: e.IsImpostor,
				Word:       e.Word,
				Category:   e.Category,
			})

		case engine.EvtVotingStarted:
			r.systemChat("A votar.")

		case engine.EvtVoteCast:
			r.broadcast(types.ServerMessage{Type: types.MsgVoteUpdate})

		case engine.EvtGuessStarted:
			r.sendTo(e.PlayerID, types.ServerMessage{Type: types.MsgGuessPrompt})
			r.systemChat("¡Impostor atrapado! Última oportunidad...")

		case engine.EvtRoundEnded:
			r.broadcast(types.ServerMessage{
				Type:         types.MsgGameOver,
				Outcome:      string(e.Outcome),
				Winner:       string(e.Winner),
				Expelled:     e.Expelled,
				Impostor:     e.Impostor,
				Secret:       e.Secret,
				Guess:        e.Guess,
				GuessCorrect: e.GuessOK,
			})
			switch e.Outcome {
			case engine.OutcomeTie:
				r.systemChat("Empate. Nadie sale.")
			case engine.OutcomeInnocentExpelled:
				r.systemChat("¡Expulsaron a un inocente!")
			}

		case engine.EvtRoundReset:
			r.systemChat("Reiniciando...")
		}
	}
}

func (r *Room) snapshotMsg() types.ServerMessage {
	s := r.state

	order := make([]string, 0, len(s.TurnOrder))
	for _, id := range s.TurnOrder {
		if p, ok := s.Players[id]; ok {
			order = append(order, p.Name)
		}
	}

	players := make([]types.PlayerView, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, types.PlayerView{
			ID:    p.ID,
			Name:  p.Name,
			Votes: p.Votes,
			Voted: p.Voted,
		})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })

	return types.ServerMessage{
		Type:    types.MsgRoomState,
		Version: r.version,
		State: &types.RoomSnapshot{
			Code:        s.Code,
			Phase:       string(s.Phase),
			Category:    s.Category,
			TurnOrder:   order,
			Players:     players,
			PlayerCount: len(s.Players),
		},
	}
}

func (r *Room) systemChat(text string) {
	r.broadcast(types.ServerMessage{Type: types.MsgChat, Sender: types.ChatSystem, Text: text})
}

func (r *Room) sendTo(playerID string, msg types.ServerMessage) {
	ch, ok := r.clients[playerID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		// Slow/full client - drop them.
		close(ch)
		delete(r.clients, playerID)
	}
}

func (r *Room) broadcast(msg types.ServerMessage) {
	for id, ch := range r.clients {
		select {
		case ch <- msg:
		default:
			close(ch)
			delete(r.clients, id)
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}
