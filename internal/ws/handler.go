package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/bughouse-gg/backend/internal/board"
	"github.com/bughouse-gg/backend/internal/hub"
	"github.com/bughouse-gg/backend/internal/obslog"
	"github.com/bughouse-gg/backend/internal/room"
	"github.com/bughouse-gg/backend/internal/types"
)

const writeTimeout = 3 * time.Second

// conn tracks one client's membership. A connection can be in at most one
// room; all server -> client traffic funnels through out.
type conn struct {
	hub      *hub.Hub
	out      chan types.ServerMessage
	room     *room.Room
	roomID   string
	playerID string
	log      *zap.Logger
}

// Handler upgrades the connection and runs the read loop until the client
// goes away. Leaving the room on disconnect is handled here, not by the room.
func Handler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sock, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer sock.Close(websocket.StatusInternalError, "closing")

		c := &conn{
			hub: h,
			out: make(chan types.ServerMessage, 32),
			log: obslog.L().Named("ws"),
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go writer(ctx, sock, c.out)

		defer func() {
			if c.room != nil && c.playerID != "" {
				c.log.Debug("connection dropped while in room",
					zap.String("room", c.roomID), zap.String("player", c.playerID))
				c.room.Inbox() <- room.Leave{PlayerID: c.playerID}
			}
		}()

		for {
			_, data, err := sock.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					sock.Close(websocket.StatusNormalClosure, "bye")
				}
				return
			}

			var msg types.ClientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				c.reply(types.ServerMessage{Type: types.EvtMoveError, Error: "bad json"})
				continue
			}
			c.handle(msg)
		}
	}
}

func writer(ctx context.Context, sock *websocket.Conn, out <-chan types.ServerMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-out:
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			_ = sock.Write(wctx, websocket.MessageText, payload)
			cancel()
		}
	}
}

// reply queues a direct message for this client only.
func (c *conn) reply(msg types.ServerMessage) {
	select {
	case c.out <- msg:
	default:
	}
}

func (c *conn) handle(msg types.ClientMessage) {
	switch msg.Type {
	case types.MsgCreateRoom:
		c.createRoom(msg)
	case types.MsgJoinRoom:
		c.joinRoom(msg)
	case types.MsgGetLegalMoves:
		c.getLegalMoves(msg)
	case types.MsgGetDropSquares:
		c.getDropSquares(msg)
	case types.MsgToggleReady:
		c.forward(msg, func() room.Msg { return room.ToggleReady{PlayerID: c.playerID} })
	case types.MsgMakeMove:
		c.makeMove(msg)
	case types.MsgDropPiece:
		c.dropPiece(msg)
	case types.MsgChatMessage:
		c.chat(msg)
	case types.MsgRestartGame:
		c.forward(msg, func() room.Msg { return room.Restart{} })
	case types.MsgLeaveRoom:
		c.leaveRoom()
	default:
		c.reply(types.ServerMessage{Type: types.EvtMoveError, Error: "unknown message type"})
	}
}

func (c *conn) createRoom(msg types.ClientMessage) {
	if c.room != nil {
		c.reply(types.ServerMessage{Type: types.EvtCreateRoomResult, Error: "already in a room"})
		return
	}
	if msg.PlayerName == "" {
		c.reply(types.ServerMessage{Type: types.EvtCreateRoomResult, Error: "player name required"})
		return
	}

	reply := make(chan hub.CreateResult, 1)
	c.hub.Inbox() <- hub.CreateRoom{Reply: reply}
	created := <-reply

	c.enter(created.Room, created.Code, msg.PlayerName, types.EvtCreateRoomResult)
}

func (c *conn) joinRoom(msg types.ClientMessage) {
	if c.room != nil {
		c.reply(types.ServerMessage{Type: types.EvtJoinRoomResult, Error: "already in a room"})
		return
	}
	if msg.RoomID == "" || msg.PlayerName == "" {
		c.reply(types.ServerMessage{Type: types.EvtJoinRoomResult, Error: "room id and player name required"})
		return
	}

	reply := make(chan *room.Room, 1)
	c.hub.Inbox() <- hub.GetRoom{Code: msg.RoomID, Reply: reply}
	rm := <-reply
	if rm == nil {
		c.reply(types.ServerMessage{Type: types.EvtJoinRoomResult, Error: "room not found"})
		return
	}

	c.enter(rm, msg.RoomID, msg.PlayerName, types.EvtJoinRoomResult)
}

func (c *conn) enter(rm *room.Room, code, name, resultType string) {
	reply := make(chan room.JoinResult, 1)
	rm.Inbox() <- room.Join{Name: name, Outbox: c.out, Reply: reply}
	res := <-reply

	c.room = rm
	c.roomID = code
	c.playerID = res.PlayerID

	pos := res.Position
	c.reply(types.ServerMessage{
		Type:        resultType,
		RoomID:      code,
		PlayerID:    res.PlayerID,
		Position:    &pos,
		IsSpectator: res.Spectator,
	})
}

func (c *conn) leaveRoom() {
	if c.room == nil {
		return
	}
	c.room.Inbox() <- room.Leave{PlayerID: c.playerID}
	c.room = nil
	c.roomID = ""
	c.playerID = ""
}

// forward sends a fire-and-forget room message once membership is in place.
func (c *conn) forward(_ types.ClientMessage, build func() room.Msg) {
	if c.room == nil || c.playerID == "" {
		return
	}
	c.room.Inbox() <- build()
}

func (c *conn) getLegalMoves(msg types.ClientMessage) {
	if c.room == nil {
		c.reply(types.ServerMessage{Type: types.EvtLegalMoves, Moves: []board.Square{}})
		return
	}
	from := board.Square{Row: msg.Row, Col: msg.Col}
	if msg.BoardIndex < 0 || msg.BoardIndex > 1 || !from.InBounds() {
		c.reply(types.ServerMessage{Type: types.EvtLegalMoves, Moves: []board.Square{}})
		return
	}

	reply := make(chan []board.Square, 1)
	c.room.Inbox() <- room.LegalMoves{BoardIndex: msg.BoardIndex, From: from, Reply: reply}
	c.reply(types.ServerMessage{Type: types.EvtLegalMoves, RoomID: c.roomID, Moves: <-reply})
}

func (c *conn) getDropSquares(msg types.ClientMessage) {
	if c.room == nil || !board.ValidPieceType(msg.PieceType) {
		c.reply(types.ServerMessage{Type: types.EvtDropSquares, Squares: []board.Square{}})
		return
	}

	reply := make(chan []board.Square, 1)
	c.room.Inbox() <- room.DropSquares{
		PlayerID:  c.playerID,
		PieceType: board.PieceType(msg.PieceType),
		Reply:     reply,
	}
	c.reply(types.ServerMessage{Type: types.EvtDropSquares, RoomID: c.roomID, Squares: <-reply})
}

func (c *conn) makeMove(msg types.ClientMessage) {
	if c.room == nil || c.playerID == "" {
		return
	}
	if msg.From == nil || msg.To == nil || !msg.From.InBounds() || !msg.To.InBounds() {
		c.reply(types.ServerMessage{Type: types.EvtMoveError, Error: "malformed move"})
		return
	}
	if msg.Promotion != "" && !board.ValidPieceType(msg.Promotion) {
		c.reply(types.ServerMessage{Type: types.EvtMoveError, Error: "unknown promotion piece"})
		return
	}

	c.room.Inbox() <- room.MakeMove{
		PlayerID:   c.playerID,
		BoardIndex: msg.BoardIndex,
		From:       *msg.From,
		To:         *msg.To,
		Promotion:  board.PieceType(msg.Promotion),
	}
}

func (c *conn) dropPiece(msg types.ClientMessage) {
	if c.room == nil || c.playerID == "" {
		return
	}
	to := board.Square{Row: msg.Row, Col: msg.Col}
	if !board.ValidPieceType(msg.PieceType) || !to.InBounds() {
		c.reply(types.ServerMessage{Type: types.EvtMoveError, Error: "malformed drop"})
		return
	}

	c.room.Inbox() <- room.DropPiece{
		PlayerID:  c.playerID,
		PieceType: board.PieceType(msg.PieceType),
		To:        to,
	}
}

func (c *conn) chat(msg types.ClientMessage) {
	if c.room == nil || c.playerID == "" || msg.Message == "" {
		return
	}
	c.room.Inbox() <- room.Chat{
		PlayerID: c.playerID,
		Text:     msg.Message,
		TeamOnly: msg.IsTeamOnly,
	}
}
