package common

import "math/rand"

const zobristSeed = 0x7e55e7a

// ZobristKeys are the random components of a position key.
type ZobristKeys struct {
	PieceSquare [2][King + 1][64]uint64
	Side        uint64
	Castling    [16]uint64
	EnPassant   [8]uint64
}

var zobrist = NewZobristKeys(zobristSeed)

// Zobrist returns the process wide keys.
func Zobrist() *ZobristKeys {
	return zobrist
}

// NewZobristKeys draws every key from a PRNG seeded with seed, so equal seeds give equal keys.
func NewZobristKeys(seed int64) *ZobristKeys {
	var r = rand.New(rand.NewSource(seed))
	var z = &ZobristKeys{}
	for side := range z.PieceSquare {
		for piece := Pawn; piece <= King; piece++ {
			for sq := range z.PieceSquare[side][piece] {
				z.PieceSquare[side][piece][sq] = r.Uint64()
			}
		}
	}
	z.Side = r.Uint64()
	for i := range z.Castling {
		z.Castling[i] = r.Uint64()
	}
	for i := range z.EnPassant {
		z.EnPassant[i] = r.Uint64()
	}
	return z
}

func (z *ZobristKeys) PieceKey(piece int, side bool, square int) uint64 {
	return z.PieceSquare[SideIndex(side)][piece][square]
}

// ComputeKey recomputes the key from scratch.
func (p *Position) ComputeKey() uint64 {
	var z = p.keys
	var result = z.Castling[p.CastleRights]
	if !p.WhiteMove {
		result ^= z.Side
	}
	if p.EpSquare != SquareNone {
		result ^= z.EnPassant[File(p.EpSquare)]
	}
	for x := p.White | p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece, side = p.GetPieceTypeAndSide(sq)
		result ^= z.PieceKey(piece, side, sq)
	}
	return result
}
