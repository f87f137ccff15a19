package types

// BoardState (JSON shape of one board inside a gameState payload):
//   board: 8x8 array, [0][0] = a8, [7][0] = a1; null for empty squares
//   turn: "white" | "black"
//   castlingRights: { white: {kingSide, queenSide}, black: {...} }
//   enPassantTarget: {row, col} | null
//   moveHistory: [Move]
//   isCheck, isCheckmate, isStalemate: boolean
//   winner: "white" | "black" | null
//
// Piece:
//   { type: "king"|"queen"|"rook"|"bishop"|"knight"|"pawn",
//     color: "white"|"black" }
//
// Move:
//   kind "move": { from, to, piece, captured?, castle?, enPassant?,
//                  promotedTo? }
//   kind "drop": { to, dropType, color }
//
// Banks are indexed by seat (0..3); each entry is the list of captured
// pieces available to that seat, already recolored to the seat's color.
