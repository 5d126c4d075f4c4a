package engine

import . "github.com/tessera-chess/tessera/pkg/common"

const historyMax = 1 << 14

// historyTable scores quiet moves by their past success in cutoffs.
type historyTable struct {
	butterfly    [1 << 13]int16
	continuation [1 << 10][1 << 10]int16
}

// historySlot selects the continuation rows for one search node.
type historySlot struct {
	side    bool
	prev1st int
	prev2nd int
}

func (h *historyTable) clear() {
	for i := range h.butterfly {
		h.butterfly[i] = 0
	}
	for i := range h.continuation {
		for j := range h.continuation[i] {
			h.continuation[i][j] = 0
		}
	}
}

func (h *historyTable) score(slot historySlot, m Move) int {
	var result = int(h.butterfly[butterflyIndex(slot.side, m)])
	var pieceTo = pieceToIndex(slot.side, m)
	if slot.prev1st != -1 {
		result += int(h.continuation[slot.prev1st][pieceTo])
	}
	if slot.prev2nd != -1 {
		result += int(h.continuation[slot.prev2nd][pieceTo])
	}
	return result
}

// update rewards bestMove and penalizes the quiet moves tried before it.
func (h *historyTable) update(slot historySlot, quietsSearched []Move, bestMove Move, depth int) {
	var bonus = Min(depth*depth, 400)
	for _, m := range quietsSearched {
		var good = m == bestMove
		updateHistory(&h.butterfly[butterflyIndex(slot.side, m)], bonus, good)
		var pieceTo = pieceToIndex(slot.side, m)
		if slot.prev1st != -1 {
			updateHistory(&h.continuation[slot.prev1st][pieceTo], bonus, good)
		}
		if slot.prev2nd != -1 {
			updateHistory(&h.continuation[slot.prev2nd][pieceTo], bonus, good)
		}
		if good {
			break
		}
	}
}

// Exponential moving average
func updateHistory(v *int16, bonus int, good bool) {
	var target = -historyMax
	if good {
		target = historyMax
	}
	*v += int16((target - int(*v)) * bonus / 512)
}

func (t *thread) historySlot(height int) historySlot {
	var side = t.stack[height].position.WhiteMove
	var slot = historySlot{side: side, prev1st: -1, prev2nd: -1}
	if prev := t.stack[height].position.LastMove; prev != MoveEmpty {
		slot.prev1st = pieceToIndex(!side, prev)
	}
	if height > 0 {
		if prev := t.stack[height-1].position.LastMove; prev != MoveEmpty {
			slot.prev2nd = pieceToIndex(side, prev)
		}
	}
	return slot
}

func pieceToIndex(side bool, move Move) int {
	var result = (move.MovingPiece() << 6) | move.To()
	if side {
		result |= 1 << 9
	}
	return result
}

func butterflyIndex(side bool, move Move) int {
	var result = (move.From() << 6) | move.To()
	if side {
		result |= 1 << 12
	}
	return result
}
