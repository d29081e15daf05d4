// Package hub owns the room-code → room mapping. A single goroutine
// serializes creation, lookup and removal, so code collision checks and
// the create itself cannot interleave.
package hub

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/ncastellano/impostor-backend/internal/engine"
	"github.com/ncastellano/impostor-backend/internal/room"
)

const codeLen = 4
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type HubMsg interface{ isHubMsg() }

// CreateRoom makes a fresh empty room under a new unique code.
type CreateRoom struct {
	Reply chan Created
}

type Created struct {
	Code string
	Room *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room // nil when the code is unknown
}

type RemoveRoom struct{ Code string }

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	bank   engine.WordBank
	rng    *rand.Rand
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub starts the registry goroutine. rng seeds room codes and derives
// each room's own random source, so a fixed seed makes whole games
// reproducible in tests.
func NewHub(parent context.Context, bank engine.WordBank, rng *rand.Rand, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		bank:   bank,
		rng:    rng,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				code := h.newCode()
				// Each room gets a private rand.Rand; sharing one across
				// room goroutines would race.
				env := engine.Env{
					Bank: h.bank,
					Rand: rand.New(rand.NewSource(h.rng.Int63())),
				}
				onEmpty := func(code string) {
					select {
					case h.inbox <- RemoveRoom{Code: code}:
					case <-h.ctx.Done():
					}
				}
				rm := room.New(h.ctx, code, env, h.log.With(zap.String("room", code)), onEmpty)
				h.rooms[code] = rm
				h.log.Info("room created", zap.String("room", code))
				msg.Reply <- Created{Code: code, Room: rm}

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case RemoveRoom:
				if _, ok := h.rooms[msg.Code]; ok {
					delete(h.rooms, msg.Code)
					h.log.Info("room removed", zap.String("room", msg.Code))
				}

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}

// newCode draws codes until one is free. Only the hub goroutine touches
// h.rooms, so check-then-insert is safe.
func (h *Hub) newCode() string {
	for {
		b := make([]byte, codeLen)
		for i := range b {
			b[i] = codeCharset[h.rng.Intn(len(codeCharset))]
		}
		code := string(b)
		if _, taken := h.rooms[code]; !taken {
			return code
		}
		h.log.Debug("code collision, regenerating", zap.String("room", code))
	}
}
