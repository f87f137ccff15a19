package hub

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/bughouse-gg/backend/internal/config"
	"github.com/bughouse-gg/backend/internal/obslog"
	"github.com/bughouse-gg/backend/internal/room"
	"github.com/bughouse-gg/backend/internal/types"
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Reply chan CreateResult
}

type CreateResult struct {
	Code string
	Room *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room // nil for unknown codes
}

type ListRooms struct {
	Reply chan []types.RoomSummary
}

type RemoveRoom struct {
	Code string
}

type ShutdownHub struct{}

// sweepNow forces an idle sweep outside the ticker schedule (tests).
type sweepNow struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (ListRooms) isHubMsg()   {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}
func (sweepNow) isHubMsg()    {}

// Hub is the room registry: a single goroutine owning the code->room map.
// All lookups and lifecycle changes go through its inbox, so no handler ever
// touches shared mutable state directly.
type Hub struct {
	inbox    chan HubMsg
	rooms    map[string]*room.Room
	cfg      *config.AppConfig
	onResult func(room.Result)
	ctx      context.Context
	cancel   context.CancelFunc
	log      *zap.Logger
}

// NewHub starts the registry loop. onResult, if non-nil, receives every
// finished game (used for the optional match-history repository).
func NewHub(parent context.Context, cfg *config.AppConfig, onResult func(room.Result)) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		rooms:    make(map[string]*room.Room),
		cfg:      cfg,
		onResult: onResult,
		ctx:      ctx,
		cancel:   cancel,
		log:      obslog.L().Named("hub"),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	sweep := time.NewTicker(h.cfg.SweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case <-sweep.C:
			h.sweepIdle()

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				code := h.newCode()
				rm := room.New(h.ctx, code, h.cfg.ChatHistoryLimit, h.onResult)
				h.rooms[code] = rm
				h.log.Info("room created", zap.String("room", code))
				msg.Reply <- CreateResult{Code: code, Room: rm}

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case ListRooms:
				msg.Reply <- h.listRooms()

			case RemoveRoom:
				if rm := h.rooms[msg.Code]; rm != nil {
					rm.Inbox() <- room.Shutdown{}
					delete(h.rooms, msg.Code)
				}

			case sweepNow:
				h.sweepIdle()

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

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

// newCode returns a short code unused by any live room. Collisions are
// checked against the map directly since creation runs inside the loop.
func (h *Hub) newCode() string {
	for {
		code := make([]byte, codeLength)
		for i := range code {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
			if err != nil {
				panic("hub: crypto/rand unavailable: " + err.Error())
			}
			code[i] = codeCharset[n.Int64()]
		}
		if _, taken := h.rooms[string(code)]; !taken {
			return string(code)
		}
	}
}

func (h *Hub) askInfo(rm *room.Room) room.RoomInfo {
	reply := make(chan room.RoomInfo, 1)
	rm.Inbox() <- room.Info{Reply: reply}
	return <-reply
}

func (h *Hub) listRooms() []types.RoomSummary {
	out := make([]types.RoomSummary, 0, len(h.rooms))
	for code, rm := range h.rooms {
		info := h.askInfo(rm)
		out = append(out, types.RoomSummary{
			ID:             code,
			PlayerCount:    info.SeatedCount,
			SpectatorCount: info.SpectatorCount,
			GameStarted:    info.GameStarted,
			HostName:       info.HostName,
		})
	}
	return out
}

// sweepIdle reclaims rooms that have had zero seated players for longer than
// the configured TTL. Occupied rooms are never reclaimed, no matter how old.
func (h *Hub) sweepIdle() {
	for code, rm := range h.rooms {
		info := h.askInfo(rm)
		if info.SeatedCount > 0 || info.EmptySince.IsZero() {
			continue
		}
		if time.Since(info.EmptySince) >= h.cfg.RoomIdleTTL {
			h.log.Info("reclaiming idle room", zap.String("room", code))
			rm.Inbox() <- room.Shutdown{}
			delete(h.rooms, code)
		}
	}
}
