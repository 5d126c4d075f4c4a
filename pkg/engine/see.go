package engine

import (
	. "github.com/tessera-chess/tessera/pkg/common"
)

var seeValues = [King + 1]int{Pawn: 100, Knight: 325, Bishop: 325, Rook: 500, Queen: 1000, King: 30000}

func seeGEZero(p *Position, move Move) bool {
	return seeGE(p, move, 0)
}

// seeGE reports whether the exchange started by move gains at least threshold.
// based on Ethereal
func seeGE(pos *Position, move Move, threshold int) bool {
	var to = move.To()
	var nextVictim = move.MovingPiece()
	var promotion = move.Promotion()
	if promotion != Empty {
		nextVictim = promotion
	}

	var balance = captureGain(move) - threshold
	if balance < 0 {
		return false
	}

	balance -= seeValues[nextVictim]
	if balance >= 0 {
		return true
	}

	var occupied = exchangeOccupancy(pos, move)
	var attackers = pos.AttackersTo(to, occupied) & occupied
	var side = !pos.WhiteMove

	for {
		var myAttackers = attackers & pos.Colours(side)
		if myAttackers == 0 {
			break
		}

		var attackerType, attackerFrom = leastValuableAttacker(pos, myAttackers)

		occupied &^= SquareMask[attackerFrom]
		attackers = updateXRays(pos, attackers, attackerType, to, occupied)

		side = !side

		balance = -balance - 1 - seeValues[attackerType]
		if balance >= 0 {
			if attackerType == King &&
				(attackers&pos.Colours(side)) != 0 {
				side = !side
			}
			break
		}
	}

	return side != pos.WhiteMove
}

// see returns the material balance of the capture sequence on the target square
// when both sides always recapture with the least valuable piece.
func see(pos *Position, move Move) int {
	var to = move.To()
	var nextVictim = move.MovingPiece()
	if promotion := move.Promotion(); promotion != Empty {
		nextVictim = promotion
	}

	var gain [32]int
	var d = 0
	gain[0] = captureGain(move)

	var occupied = exchangeOccupancy(pos, move)
	var attackers = pos.AttackersTo(to, occupied) & occupied
	var side = !pos.WhiteMove

	for d+1 < len(gain) {
		var myAttackers = attackers & pos.Colours(side)
		if myAttackers == 0 {
			break
		}
		var attackerType, attackerFrom = leastValuableAttacker(pos, myAttackers)
		if attackerType == King && attackers&pos.Colours(!side) != 0 {
			break
		}

		d++
		gain[d] = seeValues[nextVictim] - gain[d-1]
		nextVictim = attackerType

		occupied &^= SquareMask[attackerFrom]
		attackers = updateXRays(pos, attackers, attackerType, to, occupied)
		side = !side
	}

	for ; d > 0; d-- {
		gain[d-1] = -Max(-gain[d-1], gain[d])
	}
	return gain[0]
}

func captureGain(move Move) int {
	var result = 0
	if move.IsCapture() {
		result = seeValues[move.CapturedPiece()]
	}
	if promotion := move.Promotion(); promotion != Empty {
		result += seeValues[promotion] - seeValues[Pawn]
	}
	return result
}

func exchangeOccupancy(pos *Position, move Move) uint64 {
	var to = move.To()
	var occupied = pos.AllPieces()&^SquareMask[move.From()] | SquareMask[to]
	if move.Kind() == EnPassant {
		if pos.WhiteMove {
			occupied &^= SquareMask[to-8]
		} else {
			occupied &^= SquareMask[to+8]
		}
	}
	return occupied
}

func updateXRays(pos *Position, attackers uint64, attackerType, to int, occupied uint64) uint64 {
	if attackerType == Pawn || attackerType == Bishop || attackerType == Queen {
		attackers |= pos.Tables().BishopAttacks(to, occupied) & (pos.Bishops | pos.Queens)
	}
	if attackerType == Rook || attackerType == Queen {
		attackers |= pos.Tables().RookAttacks(to, occupied) & (pos.Rooks | pos.Queens)
	}
	return attackers & occupied
}

func leastValuableAttacker(p *Position, attackers uint64) (attacker, from int) {
	if p.Pawns&attackers != 0 {
		return Pawn, FirstOne(p.Pawns & attackers)
	}
	if p.Knights&attackers != 0 {
		return Knight, FirstOne(p.Knights & attackers)
	}
	if p.Bishops&attackers != 0 {
		return Bishop, FirstOne(p.Bishops & attackers)
	}
	if p.Rooks&attackers != 0 {
		return Rook, FirstOne(p.Rooks & attackers)
	}
	if p.Queens&attackers != 0 {
		return Queen, FirstOne(p.Queens & attackers)
	}
	if p.Kings&attackers != 0 {
		return King, FirstOne(p.Kings & attackers)
	}
	return Empty, SquareNone
}
