package room

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bughouse-gg/backend/internal/board"
	"github.com/bughouse-gg/backend/internal/session"
	"github.com/bughouse-gg/backend/internal/types"
)

func (r *Room) join(msg Join) JoinResult {
	m := &member{id: uuid.NewString(), name: msg.Name, outbox: msg.Outbox}

	var res JoinResult
	if len(r.players) < MaxSeats {
		r.players = append(r.players, m)
		r.emptySince = time.Time{}
		res = JoinResult{PlayerID: m.id, Position: len(r.players) - 1}
	} else {
		r.spectators = append(r.spectators, m)
		res = JoinResult{PlayerID: m.id, Position: -1, Spectator: true}
	}

	r.log.Info("player joined",
		zap.String("player", msg.Name),
		zap.Bool("spectator", res.Spectator),
		zap.Int("position", res.Position))

	r.broadcastRoomState()
	if hist := r.chatHistoryFor(res.Position); len(hist) > 0 {
		send(m, types.ServerMessage{Type: types.EvtChatHistory, RoomID: r.code, ChatHistory: hist})
	}
	if r.sess != nil {
		send(m, types.ServerMessage{Type: types.EvtGameState, RoomID: r.code, Game: r.gameSnapshot()})
	}
	return res
}

// toggleReady flips the seat's flag and starts the game the moment all four
// seats are filled and ready. The check is edge-triggered here, not polled.
func (r *Room) toggleReady(playerID string) {
	_, p := r.seatOf(playerID)
	if p == nil {
		return
	}
	p.ready = !p.ready
	r.broadcastRoomState()

	if r.sess != nil || len(r.players) != MaxSeats {
		return
	}
	for _, pl := range r.players {
		if !pl.ready {
			return
		}
	}

	r.sess = session.New()
	r.startedAt = time.Now()
	r.log.Info("game started")
	r.broadcast(types.ServerMessage{Type: types.EvtGameStart, RoomID: r.code})
	r.broadcastGameState()
}

func (r *Room) makeMove(msg MakeMove) {
	seat, p := r.seatOf(msg.PlayerID)
	if p == nil {
		return
	}
	if r.sess == nil {
		r.moveError(p, "game has not started")
		return
	}
	if err := r.sess.ApplyMove(seat, msg.BoardIndex, msg.From, msg.To, msg.Promotion); err != nil {
		r.moveError(p, err.Error())
		return
	}
	r.broadcastGameState()
	r.checkGameOver()
}

func (r *Room) dropPiece(msg DropPiece) {
	seat, p := r.seatOf(msg.PlayerID)
	if p == nil {
		return
	}
	if r.sess == nil {
		r.moveError(p, "game has not started")
		return
	}
	if err := r.sess.ApplyDrop(seat, msg.PieceType, msg.To); err != nil {
		r.moveError(p, err.Error())
		return
	}
	r.broadcastGameState()
	r.checkGameOver()
}

// moveError goes only to the acting client; nobody else is notified.
func (r *Room) moveError(p *member, reason string) {
	send(p, types.ServerMessage{Type: types.EvtMoveError, RoomID: r.code, Error: reason})
}

func (r *Room) checkGameOver() {
	if r.sess == nil || !r.sess.Over {
		return
	}
	bi := r.sess.OverBoard
	r.broadcast(types.ServerMessage{
		Type:       types.EvtGameOver,
		RoomID:     r.code,
		Winner:     r.sess.Winner,
		Reason:     r.sess.Reason,
		BoardIndex: &bi,
	})
	r.log.Info("game over",
		zap.String("reason", r.sess.Reason),
		zap.Int("board", bi),
		zap.Any("winner", r.sess.Winner))

	if r.onResult != nil {
		res := Result{
			RoomCode:   r.code,
			Winner:     r.sess.Winner,
			Reason:     r.sess.Reason,
			BoardIndex: bi,
			Moves:      r.sess.MoveCount(),
			Duration:   time.Since(r.startedAt),
		}
		// Persistence happens off the actor goroutine.
		go r.onResult(res)
	}
}

func (r *Room) legalMoves(msg LegalMoves) []board.Square {
	if r.sess == nil {
		return []board.Square{}
	}
	moves, err := r.sess.LegalMoves(msg.BoardIndex, msg.From)
	if err != nil {
		return []board.Square{}
	}
	return moves
}

func (r *Room) dropSquares(msg DropSquares) []board.Square {
	seat, p := r.seatOf(msg.PlayerID)
	if p == nil || r.sess == nil {
		return []board.Square{}
	}
	squares, err := r.sess.DropSquares(seat, msg.PieceType)
	if err != nil {
		return []board.Square{}
	}
	return squares
}

// chatHistoryFor is the replayable backlog as seen from one seat. Team-only
// entries stay within their team; spectators (seat -1) get public chat only.
func (r *Room) chatHistoryFor(seat int) []types.ChatMessage {
	out := make([]types.ChatMessage, 0, len(r.chat))
	for _, cm := range r.chat {
		if cm.IsTeamOnly && (seat < 0 || cm.Team == nil || *cm.Team != session.TeamOf(seat)) {
			continue
		}
		out = append(out, cm)
	}
	return out
}

func (r *Room) chatMessage(msg Chat) {
	seat, p := r.seatOf(msg.PlayerID)
	if p == nil {
		p = r.spectatorOf(msg.PlayerID)
		if p == nil {
			return
		}
		// Spectators have no team channel.
		msg.TeamOnly = false
	}

	cm := types.ChatMessage{
		PlayerName: p.name,
		Message:    msg.Text,
		IsTeamOnly: msg.TeamOnly,
		SentAt:     time.Now(),
	}
	if seat >= 0 {
		team := session.TeamOf(seat)
		cm.Team = &team
	}

	r.chat = append(r.chat, cm)
	if len(r.chat) > r.chatLimit {
		r.chat = r.chat[len(r.chat)-r.chatLimit:]
	}

	out := types.ServerMessage{Type: types.EvtChatMessage, RoomID: r.code, Chat: &cm}
	if msg.TeamOnly {
		for s, pl := range r.players {
			if session.TeamOf(s) == *cm.Team {
				send(pl, out)
			}
		}
		return
	}
	r.broadcast(out)
}

// restart resets both boards and all banks, keeping roster and seating.
// Ready flags clear so a later aborted room falls back to the lobby cleanly.
func (r *Room) restart() {
	if r.sess == nil {
		return
	}
	r.sess = session.New()
	r.startedAt = time.Now()
	for _, p := range r.players {
		p.ready = false
	}
	r.log.Info("game restarted")
	r.broadcast(types.ServerMessage{Type: types.EvtGameRestart, RoomID: r.code})
	r.broadcastGameState()
}

// leave removes the member. Remaining seats renumber contiguously from 0,
// which re-derives board/color/team for everyone; a departure during an
// active session aborts it unconditionally.
func (r *Room) leave(playerID string) {
	seat, p := r.seatOf(playerID)
	if p == nil {
		sp := r.spectatorOf(playerID)
		if sp == nil {
			return
		}
		for i, s := range r.spectators {
			if s == sp {
				r.spectators = append(r.spectators[:i], r.spectators[i+1:]...)
				break
			}
		}
		r.broadcastRoomState()
		return
	}

	r.players = append(r.players[:seat], r.players[seat+1:]...)
	if len(r.players) == 0 {
		r.emptySince = time.Now()
	}

	aborted := r.sess != nil
	r.sess = nil
	for _, pl := range r.players {
		pl.ready = false
	}

	r.log.Info("player left",
		zap.String("player", p.name),
		zap.Bool("aborted_game", aborted))

	r.broadcast(types.ServerMessage{
		Type:    types.EvtPlayerLeft,
		RoomID:  r.code,
		Message: p.name + " left the room",
	})
	r.broadcastRoomState()
}
