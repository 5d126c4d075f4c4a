package common

const (
	f1g1Mask = (uint64(1) << SquareF1) | (uint64(1) << SquareG1)
	b1d1Mask = (uint64(1) << SquareB1) | (uint64(1) << SquareC1) | (uint64(1) << SquareD1)
	f8g8Mask = (uint64(1) << SquareF8) | (uint64(1) << SquareG8)
	b8d8Mask = (uint64(1) << SquareB8) | (uint64(1) << SquareC8) | (uint64(1) << SquareD8)
)

var (
	whiteKingSideCastle  = makeMoveKind(SquareE1, SquareG1, King, Empty, Empty, CastleKingSide)
	whiteQueenSideCastle = makeMoveKind(SquareE1, SquareC1, King, Empty, Empty, CastleQueenSide)
	blackKingSideCastle  = makeMoveKind(SquareE8, SquareG8, King, Empty, Empty, CastleKingSide)
	blackQueenSideCastle = makeMoveKind(SquareE8, SquareC8, King, Empty, Empty, CastleQueenSide)
)

func addPromotions(ml []OrderedMove, from, to, captured int) int {
	ml[0].Move = makePromotion(from, to, captured, Queen)
	ml[1].Move = makePromotion(from, to, captured, Rook)
	ml[2].Move = makePromotion(from, to, captured, Bishop)
	ml[3].Move = makePromotion(from, to, captured, Knight)
	return 4
}

// GenerateMoves writes pseudo-legal moves into ml. When the side to move is in check
// non-king moves are limited to captures of the checker and interpositions.
func (p *Position) GenerateMoves(ml []OrderedMove) []OrderedMove {
	var count = 0
	var fromBB, toBB uint64
	var from, to int

	var ownPieces = p.Colours(p.WhiteMove)
	var oppPieces = p.Colours(!p.WhiteMove)
	var allPieces = p.White | p.Black
	var kingSq = FirstOne(p.Kings & ownPieces)

	var target = ^ownPieces
	if p.Checkers != 0 {
		if MoreThanOne(p.Checkers) {
			target = 0
		} else {
			target = p.Checkers | p.tables.Between(FirstOne(p.Checkers), kingSq)
		}
	}

	var ownPawns = p.Pawns & ownPieces

	if p.EpSquare != SquareNone {
		for fromBB = p.tables.PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			ml[count].Move = makeMoveKind(from, p.EpSquare, Pawn, Pawn, Empty, EnPassant)
			count++
		}
	}

	var forward = let(p.WhiteMove, 8, -8)
	var startRank = let(p.WhiteMove, Rank2, Rank7)
	var promotionRank = let(p.WhiteMove, Rank7, Rank2)
	var leftCapture = forward - 1
	var rightCapture = forward + 1

	for fromBB = ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		var promotion = Rank(from) == promotionRank
		to = from + forward
		if (SquareMask[to] & allPieces) == 0 {
			if SquareMask[to]&target != 0 {
				if promotion {
					count += addPromotions(ml[count:], from, to, Empty)
				} else {
					ml[count].Move = makeMove(from, to, Pawn, Empty)
					count++
				}
			}
			if Rank(from) == startRank && (SquareMask[to+forward]&allPieces) == 0 &&
				SquareMask[to+forward]&target != 0 {
				ml[count].Move = makeMoveKind(from, to+forward, Pawn, Empty, Empty, DoublePawnPush)
				count++
			}
		}
		if File(from) > FileA {
			to = from + leftCapture
			if (SquareMask[to] & oppPieces & target) != 0 {
				if promotion {
					count += addPromotions(ml[count:], from, to, p.WhatPiece(to))
				} else {
					ml[count].Move = makeMove(from, to, Pawn, p.WhatPiece(to))
					count++
				}
			}
		}
		if File(from) < FileH {
			to = from + rightCapture
			if (SquareMask[to] & oppPieces & target) != 0 {
				if promotion {
					count += addPromotions(ml[count:], from, to, p.WhatPiece(to))
				} else {
					ml[count].Move = makeMove(from, to, Pawn, p.WhatPiece(to))
					count++
				}
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = p.tables.Knight[from] & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Knight, p.WhatPiece(to))
			count++
		}
	}

	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = p.tables.BishopAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Bishop, p.WhatPiece(to))
			count++
		}
	}

	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = p.tables.RookAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Rook, p.WhatPiece(to))
			count++
		}
	}

	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = p.tables.QueenAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Queen, p.WhatPiece(to))
			count++
		}
	}

	for toBB = p.tables.King[kingSq] &^ ownPieces; toBB != 0; toBB &= toBB - 1 {
		to = FirstOne(toBB)
		ml[count].Move = makeMove(kingSq, to, King, p.WhatPiece(to))
		count++
	}

	if p.Checkers == 0 {
		if p.WhiteMove {
			if (p.CastleRights&WhiteKingSide) != 0 &&
				(allPieces&f1g1Mask) == 0 &&
				!p.isAttackedBySide(SquareF1, false) {
				ml[count].Move = whiteKingSideCastle
				count++
			}
			if (p.CastleRights&WhiteQueenSide) != 0 &&
				(allPieces&b1d1Mask) == 0 &&
				!p.isAttackedBySide(SquareD1, false) {
				ml[count].Move = whiteQueenSideCastle
				count++
			}
		} else {
			if (p.CastleRights&BlackKingSide) != 0 &&
				(allPieces&f8g8Mask) == 0 &&
				!p.isAttackedBySide(SquareF8, true) {
				ml[count].Move = blackKingSideCastle
				count++
			}
			if (p.CastleRights&BlackQueenSide) != 0 &&
				(allPieces&b8d8Mask) == 0 &&
				!p.isAttackedBySide(SquareD8, true) {
				ml[count].Move = blackQueenSideCastle
				count++
			}
		}
	}

	return ml[:count]
}

// GenerateCaptures writes captures, en passant and queen promotions into ml.
func (p *Position) GenerateCaptures(ml []OrderedMove) []OrderedMove {
	var count = 0
	var fromBB, toBB uint64
	var from, to int

	var ownPieces = p.Colours(p.WhiteMove)
	var oppPieces = p.Colours(!p.WhiteMove)
	var allPieces = p.White | p.Black
	var ownPawns = p.Pawns & ownPieces

	if p.EpSquare != SquareNone {
		for fromBB = p.tables.PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			ml[count].Move = makeMoveKind(from, p.EpSquare, Pawn, Pawn, Empty, EnPassant)
			count++
		}
	}

	var forward = let(p.WhiteMove, 8, -8)
	var promotionRank = let(p.WhiteMove, Rank7, Rank2)

	for fromBB = ownPawns & (AllPawnAttacks(!p.WhiteMove, oppPieces) | RankMask[promotionRank]); fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		var promotion = Rank(from) == promotionRank
		if promotion && (SquareMask[from+forward]&allPieces) == 0 {
			ml[count].Move = makePromotion(from, from+forward, Empty, Queen)
			count++
		}
		for toBB = p.tables.PawnAttacks(from, p.WhiteMove) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			if promotion {
				ml[count].Move = makePromotion(from, to, p.WhatPiece(to), Queen)
			} else {
				ml[count].Move = makeMove(from, to, Pawn, p.WhatPiece(to))
			}
			count++
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = p.tables.Knight[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Knight, p.WhatPiece(to))
			count++
		}
	}

	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = p.tables.BishopAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Bishop, p.WhatPiece(to))
			count++
		}
	}

	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = p.tables.RookAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Rook, p.WhatPiece(to))
			count++
		}
	}

	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = p.tables.QueenAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Queen, p.WhatPiece(to))
			count++
		}
	}

	from = FirstOne(p.Kings & ownPieces)
	for toBB = p.tables.King[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
		to = FirstOne(toBB)
		ml[count].Move = makeMove(from, to, King, p.WhatPiece(to))
		count++
	}

	return ml[:count]
}

func (p *Position) GenerateLegalMoves() []Move {
	var buffer [MaxMoves]OrderedMove
	var child Position
	var result []Move
	for _, item := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(item.Move, &child) {
			result = append(result, item.Move)
		}
	}
	return result
}

// HasLegalMove reports whether the side to move can move at all.
func (p *Position) HasLegalMove() bool {
	var buffer [MaxMoves]OrderedMove
	var child Position
	var ml = p.GenerateMoves(buffer[:])
	// king moves are generated last and are the most likely to be legal
	for i := len(ml) - 1; i >= 0; i-- {
		if p.MakeMove(ml[i].Move, &child) {
			return true
		}
	}
	return false
}

// Perft counts leaf nodes of the legal move tree.
func Perft(p *Position, depth int) int {
	var buffer [MaxMoves]OrderedMove
	var child Position
	var result = 0
	for _, item := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(item.Move, &child) {
			if depth > 1 {
				result += Perft(&child, depth-1)
			} else {
				result++
			}
		}
	}
	return result
}
