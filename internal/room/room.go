package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bughouse-gg/backend/internal/board"
	"github.com/bughouse-gg/backend/internal/obslog"
	"github.com/bughouse-gg/backend/internal/session"
	"github.com/bughouse-gg/backend/internal/types"
)

// MaxSeats is the number of playing seats; further joiners spectate.
const MaxSeats = 4

type Msg interface{ isRoomMsg() }

type JoinResult struct {
	PlayerID  string
	Position  int
	Spectator bool
}

// Join seats the player if a seat is free, otherwise registers a spectator.
type Join struct {
	Name   string
	Outbox chan types.ServerMessage
	Reply  chan JoinResult
}

type ToggleReady struct{ PlayerID string }

type MakeMove struct {
	PlayerID   string
	BoardIndex int
	From, To   board.Square
	Promotion  board.PieceType
}

type DropPiece struct {
	PlayerID  string
	PieceType board.PieceType
	To        board.Square
}

type LegalMoves struct {
	BoardIndex int
	From       board.Square
	Reply      chan []board.Square
}

type DropSquares struct {
	PlayerID  string
	PieceType board.PieceType
	Reply     chan []board.Square
}

type Chat struct {
	PlayerID string
	Text     string
	TeamOnly bool
}

type Restart struct{}

type Leave struct{ PlayerID string }

// Info answers occupancy queries from the registry (listing and idle sweep).
type Info struct{ Reply chan RoomInfo }

type Shutdown struct{}

func (Join) isRoomMsg()        {}
func (ToggleReady) isRoomMsg() {}
func (MakeMove) isRoomMsg()    {}
func (DropPiece) isRoomMsg()   {}
func (LegalMoves) isRoomMsg()  {}
func (DropSquares) isRoomMsg() {}
func (Chat) isRoomMsg()        {}
func (Restart) isRoomMsg()     {}
func (Leave) isRoomMsg()       {}
func (Info) isRoomMsg()        {}
func (Shutdown) isRoomMsg()    {}

type RoomInfo struct {
	Code           string
	SeatedCount    int
	SpectatorCount int
	GameStarted    bool
	HostName       string
	EmptySince     time.Time
}

// Result summarizes a finished game for the optional match recorder.
type Result struct {
	RoomCode   string
	Winner     *session.Team
	Reason     string
	BoardIndex int
	Moves      int
	Duration   time.Duration
}

type member struct {
	id     string
	name   string
	ready  bool
	outbox chan types.ServerMessage
}

// Room is a single-goroutine actor owning all mutable state for one room:
// the seat list, spectators, the chat backlog and the bughouse session.
// Every inbound message runs to completion before the next one, which gives
// serializable semantics per room without locks.
type Room struct {
	inbox chan Msg
	code  string

	players    []*member // seat index = slice index
	spectators []*member
	sess       *session.Session
	chat       []types.ChatMessage
	chatLimit  int
	emptySince time.Time
	startedAt  time.Time
	onResult   func(Result)

	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

func New(parent context.Context, code string, chatLimit int, onResult func(Result)) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:      make(chan Msg, 64),
		code:       code,
		chatLimit:  chatLimit,
		emptySince: time.Now(),
		onResult:   onResult,
		ctx:        ctx,
		cancel:     cancel,
		log:        obslog.L().With(zap.String("room", code)),
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				msg.Reply <- r.join(msg)
			case ToggleReady:
				r.toggleReady(msg.PlayerID)
			case MakeMove:
				r.makeMove(msg)
			case DropPiece:
				r.dropPiece(msg)
			case LegalMoves:
				msg.Reply <- r.legalMoves(msg)
			case DropSquares:
				msg.Reply <- r.dropSquares(msg)
			case Chat:
				r.chatMessage(msg)
			case Restart:
				r.restart()
			case Leave:
				r.leave(msg.PlayerID)
			case Info:
				msg.Reply <- r.info()
			case Shutdown:
				r.cancel()
				return
			}
		}
	}
}

func (r *Room) seatOf(playerID string) (int, *member) {
	for seat, p := range r.players {
		if p.id == playerID {
			return seat, p
		}
	}
	return -1, nil
}

func (r *Room) spectatorOf(playerID string) *member {
	for _, s := range r.spectators {
		if s.id == playerID {
			return s
		}
	}
	return nil
}

// send never blocks; a slow member just misses this message and catches up
// on the next full snapshot.
func send(m *member, msg types.ServerMessage) {
	if m.outbox == nil {
		return
	}
	select {
	case m.outbox <- msg:
	default:
	}
}

func (r *Room) broadcast(msg types.ServerMessage) {
	for _, p := range r.players {
		send(p, msg)
	}
	for _, s := range r.spectators {
		send(s, msg)
	}
}

func (r *Room) info() RoomInfo {
	host := ""
	if len(r.players) > 0 {
		host = r.players[0].name
	}
	return RoomInfo{
		Code:           r.code,
		SeatedCount:    len(r.players),
		SpectatorCount: len(r.spectators),
		GameStarted:    r.sess != nil,
		HostName:       host,
		EmptySince:     r.emptySince,
	}
}

func (r *Room) roomSnapshot() *types.RoomSnapshot {
	seats := make([]types.SeatInfo, 0, len(r.players))
	for seat, p := range r.players {
		seats = append(seats, types.SeatInfo{Name: p.name, Ready: p.ready, Position: seat})
	}
	snap := &types.RoomSnapshot{
		Code:           r.code,
		Seats:          seats,
		SpectatorCount: len(r.spectators),
		GameStarted:    r.sess != nil,
	}
	if r.sess != nil {
		snap.Game = r.gameSnapshot()
	}
	return snap
}

func (r *Room) gameSnapshot() *types.GameSnapshot {
	return &types.GameSnapshot{
		Boards:      r.sess.Boards,
		Banks:       r.sess.Banks,
		GameStarted: true,
	}
}

func (r *Room) broadcastRoomState() {
	r.broadcast(types.ServerMessage{Type: types.EvtRoomState, RoomID: r.code, Room: r.roomSnapshot()})
}

func (r *Room) broadcastGameState() {
	if r.sess == nil {
		return
	}
	r.broadcast(types.ServerMessage{Type: types.EvtGameState, RoomID: r.code, Game: r.gameSnapshot()})
}
