package types

import (
	"time"

	"github.com/bughouse-gg/backend/internal/board"
	"github.com/bughouse-gg/backend/internal/session"
)

// ClientMessage is the single closed envelope for everything a client sends.
// Type selects which fields are required; the ws layer validates them before
// any domain logic runs.
type ClientMessage struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId,omitempty"`
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`

	BoardIndex int           `json:"boardIndex,omitempty"`
	Row        int           `json:"row,omitempty"`
	Col        int           `json:"col,omitempty"`
	From       *board.Square `json:"from,omitempty"`
	To         *board.Square `json:"to,omitempty"`
	Promotion  string        `json:"promotion,omitempty"`
	PieceType  string        `json:"pieceType,omitempty"`

	Message    string `json:"message,omitempty"`
	IsTeamOnly bool   `json:"isTeamOnly,omitempty"`
}

// Client -> server message types.
const (
	MsgCreateRoom     = "createRoom"
	MsgJoinRoom       = "joinRoom"
	MsgGetLegalMoves  = "getLegalMoves"
	MsgGetDropSquares = "getDropSquares"
	MsgToggleReady    = "toggleReady"
	MsgMakeMove       = "makeMove"
	MsgDropPiece      = "dropPiece"
	MsgChatMessage    = "chatMessage"
	MsgRestartGame    = "restartGame"
	MsgLeaveRoom      = "leaveRoom"
)

// Server -> client message types.
const (
	EvtCreateRoomResult = "createRoomResult"
	EvtJoinRoomResult   = "joinRoomResult"
	EvtLegalMoves       = "legalMoves"
	EvtDropSquares      = "dropSquares"
	EvtRoomState        = "roomState"
	EvtGameState        = "gameState"
	EvtGameStart        = "gameStart"
	EvtGameOver         = "gameOver"
	EvtGameRestart      = "gameRestart"
	EvtChatMessage      = "chatMessage"
	EvtChatHistory      = "chatHistory"
	EvtMoveError        = "moveError"
	EvtPlayerLeft       = "playerLeft"
)

// ServerMessage is the envelope for every server -> client payload.
type ServerMessage struct {
	Type string `json:"type"`

	RoomID      string `json:"roomId,omitempty"`
	PlayerID    string `json:"playerId,omitempty"`
	Position    *int   `json:"position,omitempty"`
	IsSpectator bool   `json:"isSpectator,omitempty"`

	Moves   []board.Square `json:"moves,omitempty"`
	Squares []board.Square `json:"squares,omitempty"`

	Room *RoomSnapshot `json:"room,omitempty"`
	Game *GameSnapshot `json:"game,omitempty"`

	Winner     *session.Team `json:"winner,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	BoardIndex *int          `json:"boardIndex,omitempty"`

	Chat        *ChatMessage  `json:"chat,omitempty"`
	ChatHistory []ChatMessage `json:"chatHistory,omitempty"`

	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type SeatInfo struct {
	Name     string `json:"name"`
	Ready    bool   `json:"ready"`
	Position int    `json:"position"`
}

// RoomSnapshot is broadcast as roomState on every seating or readiness
// change.
type RoomSnapshot struct {
	Code           string        `json:"code"`
	Seats          []SeatInfo    `json:"seats"`
	SpectatorCount int           `json:"spectatorCount"`
	GameStarted    bool          `json:"gameStarted"`
	Game           *GameSnapshot `json:"game,omitempty"`
}

// GameSnapshot is broadcast as gameState after every accepted mutation.
type GameSnapshot struct {
	Boards      [2]*board.State  `json:"boards"`
	Banks       [4][]board.Piece `json:"banks"`
	GameStarted bool             `json:"gameStarted"`
}

type ChatMessage struct {
	PlayerName string        `json:"playerName"`
	Message    string        `json:"message"`
	IsTeamOnly bool          `json:"isTeamOnly,omitempty"`
	Team       *session.Team `json:"team,omitempty"`
	SentAt     time.Time     `json:"sentAt"`
}

// RoomSummary is the `GET /api/rooms` listing entry.
type RoomSummary struct {
	ID             string `json:"id"`
	PlayerCount    int    `json:"playerCount"`
	SpectatorCount int    `json:"spectatorCount"`
	GameStarted    bool   `json:"gameStarted"`
	HostName       string `json:"hostName"`
}
