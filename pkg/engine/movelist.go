package engine

import . "github.com/tessera-chess/tessera/pkg/common"

const sortTableKeyImportant = 100000

// MoveList hands out moves in descending key order by selection.
// Only the moves actually taken are ever sorted.
type MoveList struct {
	items []OrderedMove
	index int
}

func NewMoveList(buffer []OrderedMove) MoveList {
	return MoveList{items: buffer[:0]}
}

func (ml *MoveList) Add(move Move, key int) {
	ml.items = append(ml.items, OrderedMove{Move: move, Key: int32(key)})
}

// Len returns the number of moves not yet taken.
func (ml *MoveList) Len() int {
	return len(ml.items) - ml.index
}

func (ml *MoveList) PopBest() (Move, int, bool) {
	if ml.index >= len(ml.items) {
		return MoveEmpty, 0, false
	}
	var rest = ml.items[ml.index:]
	var bestIndex = 0
	for i := 1; i < len(rest); i++ {
		if rest[i].Key > rest[bestIndex].Key {
			bestIndex = i
		}
	}
	if bestIndex != 0 {
		rest[0], rest[bestIndex] = rest[bestIndex], rest[0]
	}
	ml.index++
	return rest[0].Move, int(rest[0].Key), true
}

// initMoves orders all pseudo-legal moves of the node:
// hash move, winning captures, killers, quiets by history, losing captures.
func (t *thread) initMoves(height int, ttMove Move) MoveList {
	var position = &t.stack[height].position
	var buffer = position.GenerateMoves(t.stack[height].moveList[:])
	var slot = t.historySlot(height)
	var killer1 = t.stack[height].killer1
	var killer2 = t.stack[height].killer2
	for i := range buffer {
		var m = buffer[i].Move
		var score int
		if m == ttMove {
			score = sortTableKeyImportant + 2000
		} else if m.IsCaptureOrPromotion() {
			if seeGEZero(position, m) {
				score = sortTableKeyImportant + 1000 + mvvlva(m)
			} else {
				score = -sortTableKeyImportant + mvvlva(m)
			}
		} else if m == killer1 {
			score = sortTableKeyImportant + 1
		} else if m == killer2 {
			score = sortTableKeyImportant
		} else {
			score = t.history.score(slot, m)
		}
		buffer[i].Key = int32(score)
	}
	return MoveList{items: buffer}
}

// initMovesQS orders captures by static exchange, or all evasions when in check.
func (t *thread) initMovesQS(height int) MoveList {
	var position = &t.stack[height].position
	var buffer []OrderedMove
	if position.IsCheck() {
		buffer = position.GenerateMoves(t.stack[height].moveList[:])
		for i := range buffer {
			var m = buffer[i].Move
			if m.IsCaptureOrPromotion() {
				buffer[i].Key = int32(sortTableKeyImportant + mvvlva(m))
			} else {
				buffer[i].Key = 0
			}
		}
	} else {
		buffer = position.GenerateCaptures(t.stack[height].moveList[:])
		for i := range buffer {
			buffer[i].Key = int32(see(position, buffer[i].Move))
		}
	}
	return MoveList{items: buffer}
}

var sortPieceValues = [...]int{Empty: 0, Pawn: 1, Knight: 2, Bishop: 3, Rook: 4, Queen: 5, King: 6}

func mvvlva(move Move) int {
	return 8*(sortPieceValues[move.CapturedPiece()]+
		sortPieceValues[move.Promotion()]) -
		sortPieceValues[move.MovingPiece()]
}
