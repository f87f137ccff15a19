package types

// Client -> Server
// createRoom:
//   playerName: string
//
// joinRoom:
//   roomId: string
//   playerName: string
//
// getLegalMoves:
//   roomId: string
//   boardIndex: 0 | 1
//   row, col: number in [0,7]
//
// getDropSquares:
//   roomId: string
//   playerId: string
//   pieceType: "queen" | "rook" | "bishop" | "knight" | "pawn"
//
// toggleReady:
//   roomId: string
//   playerId: string
//
// makeMove:
//   roomId: string
//   playerId: string
//   boardIndex: 0 | 1
//   from: {row, col}
//   to: {row, col}
//   promotion?: "queen" | "rook" | "bishop" | "knight"
//
// dropPiece:
//   roomId: string
//   playerId: string
//   pieceType: string
//   row, col: number in [0,7]
//
// chatMessage:
//   roomId: string
//   playerId: string
//   message: string
//   isTeamOnly: boolean
//
// restartGame:
//   roomId: string
//
// leaveRoom:
//   roomId: string
//   playerId: string

// Server -> Client
// createRoomResult / joinRoomResult:
//   roomId: string
//   playerId: string
//   position: number   // seat 0..3, -1 for spectators
//   isSpectator: boolean
//   error?: string     // "room not found" | "already in a room"
//
// legalMoves:  { moves: [{row, col}] }
// dropSquares: { squares: [{row, col}] }
//
// roomState:
//   room: { code, seats: [{name, ready, position}], spectatorCount,
//           gameStarted, game? }
//
// gameState:
//   game: { boards: [BoardState, BoardState], banks: [[Piece]], gameStarted }
//
// gameStart: {}
// gameRestart: {}
//
// gameOver:
//   winner: "A" | "B" | null
//   reason: "checkmate" | "stalemate"
//   boardIndex: 0 | 1
//
// chatMessage: { chat: {playerName, message, isTeamOnly, team, sentAt} }
// chatHistory: { chatHistory: [chat] }   // bounded backlog, sent on join
//
// moveError:   { error: string }        // acting client only
// playerLeft:  { message: string }
