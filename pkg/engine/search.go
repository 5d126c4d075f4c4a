package engine

import (
	"sync/atomic"

	. "github.com/tessera-chess/tessera/pkg/common"
)

const pawnValue = 100

func (t *thread) aspirationWindow(ml []Move, depth, prevScore int) int {
	if depth >= 5 && !(prevScore <= valueLoss || prevScore >= valueWin) {
		const window = 25
		var alpha = Max(-valueInfinity, prevScore-window)
		var beta = Min(valueInfinity, prevScore+window)
		var score = t.searchRoot(ml, alpha, beta, depth)
		if score > alpha && score < beta {
			return score
		}
		if score >= beta {
			beta = valueInfinity
		}
		if score <= alpha {
			alpha = -valueInfinity
		}
		score = t.searchRoot(ml, alpha, beta, depth)
		if score > alpha && score < beta {
			return score
		}
	}
	return t.searchRoot(ml, -valueInfinity, valueInfinity, depth)
}

// searchRoot searches the legal root moves in the given order.
// A move that raises alpha is moved to the front for the next iteration.
func (t *thread) searchRoot(ml []Move, alpha, beta, depth int) int {
	const height = 0
	t.clearPV(height)
	var position = &t.stack[height].position
	var child = &t.stack[height+1].position
	var oldAlpha = alpha
	var best = -valueInfinity
	var bestMove = MoveEmpty

	for i, move := range ml {
		if !t.makeMove(move, height) {
			continue
		}
		var newDepth = depth - 1
		if child.IsCheck() && depth >= 3 {
			newDepth++
		}
		var score int
		if i == 0 {
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1)
		} else {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1)
			if score > alpha && score < beta {
				score = -t.alphaBeta(-beta, -alpha, newDepth, height+1)
			}
		}
		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			moveToFront(ml, move)
			if alpha >= beta {
				break
			}
		}
	}

	var bound = 0
	if best > oldAlpha {
		bound |= boundLower
	}
	if best < beta {
		bound |= boundUpper
	}
	if bound != boundUpper {
		t.engine.transTable.Store(position.Key, depth, valueToTT(best, height), bound, bestMove)
	}
	return best
}

// alphaBeta is the negamax search below the root.
func (t *thread) alphaBeta(alpha, beta, depth, height int) int {
	if depth <= 0 {
		return t.quiescence(alpha, beta, height)
	}
	t.clearPV(height)

	var pvNode = beta != alpha+1
	var position = &t.stack[height].position
	var isCheck = position.IsCheck()

	if height >= maxHeight {
		return t.evaluate(position)
	}
	if isDraw(position) || t.isRepeat(height) {
		return valueDraw
	}
	// mate distance pruning
	if winIn(height+1) <= alpha {
		return alpha
	}
	if lossIn(height+2) >= beta && !isCheck {
		return beta
	}

	var ttEntry, ttHit = t.engine.transTable.Lookup(position.Key)
	var ttMove = MoveEmpty
	var ttValue = 0
	if ttHit {
		ttMove = ttEntry.Move
		ttValue = valueFromTT(ttEntry.Score, height)
		if ttEntry.Depth >= depth && !pvNode {
			if ttValue >= beta && (ttEntry.Bound&boundLower) != 0 {
				if ttMove != MoveEmpty && !ttMove.IsCaptureOrPromotion() {
					t.updateKiller(ttMove, height)
				}
				return ttValue
			}
			if ttValue <= alpha && (ttEntry.Bound&boundUpper) != 0 {
				return ttValue
			}
		}
	}

	var staticEval = t.evaluate(position)
	t.stack[height].staticEval = staticEval
	var improving = height < 2 || staticEval > t.stack[height-2].staticEval

	if height+2 <= maxHeight {
		t.stack[height+2].killer1 = MoveEmpty
		t.stack[height+2].killer2 = MoveEmpty
	}
	var child = &t.stack[height+1].position

	// reverse futility pruning
	if !pvNode && depth <= 8 && !isCheck {
		var score = staticEval - pawnValue*depth
		if score >= beta {
			return staticEval
		}
	}

	// null-move pruning
	if !pvNode && depth >= 2 && !isCheck &&
		position.LastMove != MoveEmpty &&
		(height <= 1 || t.stack[height-1].position.LastMove != MoveEmpty) &&
		beta < valueWin &&
		!(ttHit && ttValue < beta && (ttEntry.Bound&boundUpper) != 0) &&
		hasNonPawnMaterial(position, position.WhiteMove) &&
		staticEval >= beta {
		var reduction = 4 + depth/6 + Min(2, (staticEval-beta)/200)
		t.makeMove(MoveEmpty, height)
		var score = -t.alphaBeta(-beta, -(beta - 1), depth-reduction, height+1)
		if score >= beta {
			if score >= valueWin {
				score = beta
			}
			return score
		}
	}

	var slot = t.historySlot(height)
	var ml = t.initMoves(height, ttMove)
	var killer1 = t.stack[height].killer1
	var killer2 = t.stack[height].killer2

	var movesSearched = 0
	var hasLegalMove = false
	var quietsSeen = 0
	var quietsSearched = t.stack[height].quietsSearched[:0]
	var bestMove = MoveEmpty

	var lmp = 5 + (depth-1)*depth
	if !improving {
		lmp /= 2
	}

	var best = -valueInfinity
	var oldAlpha = alpha

	for {
		var move, _, ok = ml.PopBest()
		if !ok {
			break
		}
		var isNoisy = move.IsCaptureOrPromotion()
		var isKiller = move == killer1 || move == killer2
		if !isNoisy {
			quietsSeen++
		}

		if depth <= 8 && best > valueLoss && hasLegalMove && !isCheck &&
			!isNoisy && !isKiller {
			// late-move pruning
			if quietsSeen > lmp {
				continue
			}
			// futility pruning
			if staticEval+100+pawnValue*depth <= alpha {
				continue
			}
		}

		if !t.makeMove(move, height) {
			continue
		}
		hasLegalMove = true
		movesSearched++

		var extension, reduction int
		if child.IsCheck() && depth >= 3 {
			extension = 1
		}

		if depth >= 3 && movesSearched > 1 && !isNoisy {
			reduction = lmr(depth, movesSearched)
			if isKiller {
				reduction--
			}
			if !isCheck {
				var history = t.history.score(slot, move)
				reduction -= Max(-2, Min(2, history/5000))
				if !improving {
					reduction++
				}
			}
			if pvNode {
				reduction -= 2
			}
			if isCheck || child.IsCheck() {
				reduction--
			}
			reduction = Max(0, Min(depth-2, reduction))
		}

		if !isNoisy {
			quietsSearched = append(quietsSearched, move)
		}

		var newDepth = depth - 1 + extension

		var score = alpha + 1
		// LMR
		if reduction > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1)
		}
		// PVS
		if score > alpha && pvNode && movesSearched > 1 && newDepth > 0 {
			score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1)
		}
		// full search
		if score > alpha {
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1)
		}

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if !hasLegalMove {
		if !isCheck {
			return valueDraw
		}
		return lossIn(height)
	}

	if alpha > oldAlpha && bestMove != MoveEmpty && !bestMove.IsCaptureOrPromotion() {
		t.history.update(slot, quietsSearched, bestMove, depth)
		t.updateKiller(bestMove, height)
	}

	var bound = 0
	if best > oldAlpha {
		bound |= boundLower
	}
	if best < beta {
		bound |= boundUpper
	}
	t.engine.transTable.Store(position.Key, depth, valueToTT(best, height), bound, bestMove)

	return best
}

func (t *thread) evaluate(p *Position) int {
	var score = t.evaluator.Evaluate(p)
	if !p.WhiteMove {
		score = -score
	}
	return Max(valueLoss+1, Min(valueWin-1, score))
}

func (t *thread) incNodes() {
	var nodes = atomic.AddInt64(&t.nodes, 1)
	if nodes&255 == 0 {
		var tm = t.engine.timeManager
		if tm.nodesLimit > 0 {
			tm.OnNodesChanged(t.engine.totalNodes())
		}
		if tm.IsDone() {
			panic(errSearchTimeout)
		}
	}
}

// isDraw detects the fifty-move rule and bare minor pieces without move generation.
func isDraw(p *Position) bool {
	if p.Rule50 > 100 {
		return true
	}

	if (p.Pawns|p.Rooks|p.Queens) == 0 &&
		!MoreThanOne(p.Knights|p.Bishops) {
		return true
	}

	return false
}

func (t *thread) isRepeat(height int) bool {
	var p = &t.stack[height].position

	if p.Rule50 == 0 || p.LastMove == MoveEmpty {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		var temp = &t.stack[i].position
		if temp.IsRepetition(p) {
			return true
		}
		if temp.Rule50 == 0 || temp.LastMove == MoveEmpty {
			return false
		}
	}

	return t.engine.historyKeys[p.Key] >= 2
}

// genRootMoves returns the legal root moves, hash move and captures first.
func (e *Engine) genRootMoves() []Move {
	var t = &e.threads[0]
	const height = 0
	var p = &t.stack[height].position
	var ttMove = MoveEmpty
	if entry, ok := e.transTable.Lookup(p.Key); ok {
		ttMove = entry.Move
	}

	var ml = t.initMoves(height, ttMove)
	var child = &t.stack[height+1].position
	var result []Move
	for {
		var move, _, ok = ml.PopBest()
		if !ok {
			break
		}
		if p.MakeMove(move, child) {
			result = append(result, move)
		}
	}
	return result
}

func (t *thread) updateKiller(move Move, height int) {
	if t.stack[height].killer1 != move {
		t.stack[height].killer2 = t.stack[height].killer1
		t.stack[height].killer1 = move
	}
}

// makeMove fills the child slot of the stack. A null move is passed as MoveEmpty.
func (t *thread) makeMove(move Move, height int) bool {
	var pos = &t.stack[height].position
	var child = &t.stack[height+1].position
	if move == MoveEmpty {
		pos.MakeNullMove(child)
	} else {
		if !pos.MakeMove(move, child) {
			return false
		}
	}
	t.incNodes()
	return true
}
