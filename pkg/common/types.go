package common

import "errors"

const (
	WhiteKingSide = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

const (
	SideWhite = iota
	SideBlack
)

const (
	Empty int = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

const MaxMoves = 256

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid fen")

// Position is a full game state. It is produced by MakeMove and never changed afterwards.
// Key, Psqt and PhaseMaterial are maintained incrementally.
type Position struct {
	Pawns, Knights, Bishops, Rooks, Queens, Kings, White, Black, Checkers uint64
	WhiteMove                                                             bool
	CastleRights, Rule50, EpSquare, MoveNumber                            int
	Key                                                                   uint64
	Psqt                                                                  Score
	PhaseMaterial                                                         int
	LastMove                                                              Move

	tables *AttackTables
	keys   *ZobristKeys
}

type OrderedMove struct {
	Move Move
	Key  int32
}

func SideIndex(side bool) int {
	if side {
		return SideWhite
	}
	return SideBlack
}
