package engine

import (
	"slices"

	. "github.com/tessera-chess/tessera/pkg/common"
)

// Scores are side relative. Mate scores count plies from the root.
const (
	stackSize     = 128
	maxHeight     = stackSize - 1
	valueDraw     = 0
	valueMate     = 30000
	valueInfinity = valueMate + 1
	valueWin      = valueMate - 2*maxHeight
	valueLoss     = -valueWin
)

func winIn(height int) int {
	return valueMate - height
}

func lossIn(height int) int {
	return -valueMate + height
}

// valueToTT stores mate scores as distance from the node instead of the root.
func valueToTT(v, height int) int {
	return shiftMate(v, height)
}

func valueFromTT(v, height int) int {
	return shiftMate(v, -height)
}

func shiftMate(v, plies int) int {
	switch {
	case v >= valueWin:
		return v + plies
	case v <= valueLoss:
		return v - plies
	}
	return v
}

// hasNonPawnMaterial reports whether side keeps a rook, a queen or two minor pieces.
// Null move is unsafe without them.
func hasNonPawnMaterial(p *Position, side bool) bool {
	var own = p.Colours(side)
	return (p.Rooks|p.Queens)&own != 0 || MoreThanOne((p.Knights|p.Bishops)&own)
}

// moveToFront keeps the relative order of the other moves.
func moveToFront(ml []Move, move Move) {
	var index = slices.Index(ml, move)
	if index <= 0 {
		return
	}
	copy(ml[1:index+1], ml[:index])
	ml[0] = move
}
