package engine

import (
	. "github.com/tessera-chess/tessera/pkg/common"
)

const deltaMargin = 200

// quiescence resolves captures until the position is quiet.
// Losing captures are skipped unless they are en passant.
func (t *thread) quiescence(alpha, beta, height int) int {
	t.clearPV(height)
	var position = &t.stack[height].position
	if isDraw(position) {
		return valueDraw
	}
	if height >= maxHeight {
		return t.evaluate(position)
	}
	if t.isRepeat(height) {
		return valueDraw
	}

	if ttEntry, ttHit := t.engine.transTable.Lookup(position.Key); ttHit {
		var ttValue = valueFromTT(ttEntry.Score, height)
		if ttEntry.Bound == boundExact ||
			ttEntry.Bound == boundLower && ttValue >= beta ||
			ttEntry.Bound == boundUpper && ttValue <= alpha {
			return ttValue
		}
	}

	var isCheck = position.IsCheck()
	var best = -valueInfinity
	if !isCheck {
		if onlyPawnsAndKing(position) && !position.HasLegalMove() {
			return valueDraw
		}
		var standPat = t.evaluate(position)
		best = standPat
		if standPat > alpha {
			alpha = standPat
			if alpha >= beta {
				return alpha
			}
		}
		// delta pruning
		if standPat+maxCaptureGain(position)+deltaMargin < alpha {
			if !position.HasLegalMove() {
				return valueDraw
			}
			return best
		}
	}

	var ml = t.initMovesQS(height)
	var hasLegalMove = false
	for {
		var move, key, ok = ml.PopBest()
		if !ok {
			break
		}
		if !isCheck && key < 0 && move.Kind() != EnPassant {
			continue
		}
		if !t.makeMove(move, height) {
			continue
		}
		hasLegalMove = true
		var score = -t.quiescence(-beta, -alpha, height+1)
		best = Max(best, score)
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}
	if !hasLegalMove {
		if isCheck {
			return lossIn(height)
		}
		if !position.HasLegalMove() {
			return valueDraw
		}
	}
	return best
}

// maxCaptureGain bounds the material a single move can win.
func maxCaptureGain(p *Position) int {
	var enemy = p.Colours(!p.WhiteMove)
	var result = 0
	for piece := Queen; piece >= Pawn; piece-- {
		if p.PiecesByType(piece)&enemy != 0 {
			result = seeValues[piece]
			break
		}
	}
	var promotionRank = Rank7Mask
	if !p.WhiteMove {
		promotionRank = Rank2Mask
	}
	if p.Pawns&p.Colours(p.WhiteMove)&promotionRank != 0 {
		result += seeValues[Queen] - seeValues[Pawn]
	}
	return result
}

// onlyPawnsAndKing marks the positions where stalemate is checked before standing pat.
// Other stalemates are found once no capture could be searched.
func onlyPawnsAndKing(p *Position) bool {
	return (p.Knights|p.Bishops|p.Rooks|p.Queens)&p.Colours(p.WhiteMove) == 0
}
