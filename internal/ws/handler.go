package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ncastellano/impostor-backend/internal/engine"
	"github.com/ncastellano/impostor-backend/internal/hub"
	"github.com/ncastellano/impostor-backend/internal/room"
	"github.com/ncastellano/impostor-backend/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler runs one connection: a handshake binds it to a room (creating
// one if asked), then commands stream into the room's inbox while a
// writer goroutine drains the room's messages back to the socket.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		playerID := uuid.NewString()

		rm, name, host, ok := handshake(r.Context(), conn, h)
		if !ok {
			return
		}

		out := make(chan types.ServerMessage, 16)
		rm.Inbox() <- room.Join{PlayerID: playerID, Name: name, Host: host, Outbox: out}
		defer func() { rm.Inbox() <- room.Leave{PlayerID: playerID} }()

		// Writer goroutine. The room closes out when this client is
		// dropped or the room dies; closing the socket then unblocks the
		// reader below.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			conn.Close(websocket.StatusNormalClosure, "room closed")
		}()

		// Reader loop. No read deadline: a round lasts until players
		// progress it.
		for {
			var cm types.ClientMessage
			if !readMessage(r.Context(), conn, &cm) {
				return
			}

			switch cm.Type {
			case types.MsgChat:
				rm.Inbox() <- room.Chat{PlayerID: playerID, Text: cm.Text}
			default:
				cmd, ok := toCommand(cm)
				if !ok {
					writeError(r.Context(), conn, "unknown type")
					continue
				}
				rm.Inbox() <- room.FromClient{PlayerID: playerID, Cmd: cmd}
			}
		}
	}
}

// handshake reads messages until the client creates or joins a room. A
// bad room code gets a private error and another attempt; read failure
// ends the connection.
func handshake(ctx context.Context, conn *websocket.Conn, h *hub.Hub) (rm *room.Room, name string, host bool, ok bool) {
	for {
		var cm types.ClientMessage
		if !readMessage(ctx, conn, &cm) {
			return nil, "", false, false
		}

		switch cm.Type {
		case types.MsgCreateRoom:
			reply := make(chan hub.Created, 1)
			h.Inbox() <- hub.CreateRoom{Reply: reply}
			created := <-reply
			return created.Room, displayName(cm.Name, "Host"), true, true

		case types.MsgJoinRoom:
			reply := make(chan *room.Room, 1)
			h.Inbox() <- hub.GetRoom{Code: strings.ToUpper(strings.TrimSpace(cm.Code)), Reply: reply}
			found := <-reply
			if found == nil {
				writeError(ctx, conn, "Sala no existe")
				continue
			}
			return found, displayName(cm.Name, "Player"), false, true

		default:
			writeError(ctx, conn, "join or create a room first")
		}
	}
}

func readMessage(ctx context.Context, conn *websocket.Conn, cm *types.ClientMessage) bool {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return false
		}
		if err := json.Unmarshal(data, cm); err != nil {
			writeError(ctx, conn, "bad json")
			continue
		}
		return true
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, reason string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: types.MsgError, Error: reason})
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}

func toCommand(m types.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case types.MsgStartRound:
		return engine.Command{Type: engine.CmdStartRound, Difficulty: m.Difficulty}, true
	case types.MsgBeginVoting:
		return engine.Command{Type: engine.CmdBeginVoting}, true
	case types.MsgCastVote:
		return engine.Command{Type: engine.CmdCastVote, TargetID: m.TargetID}, true
	case types.MsgSubmitGuess:
		return engine.Command{Type: engine.CmdSubmitGuess, Guess: m.Guess}, true
	case types.MsgResetRound:
		return engine.Command{Type: engine.CmdReset}, true
	default:
		return engine.Command{}, false
	}
}

func displayName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	return name
}
