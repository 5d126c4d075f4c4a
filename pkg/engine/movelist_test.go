package engine

import (
	"testing"

	. "github.com/tessera-chess/tessera/pkg/common"
)

func TestMoveListPopBest(t *testing.T) {
	var buffer [MaxMoves]OrderedMove
	var ml = NewMoveList(buffer[:])
	var keys = []int{5, -3, 40, 0, 40, 12}
	for i, key := range keys {
		ml.Add(Move(i+1), key)
	}
	if ml.Len() != len(keys) {
		t.Fatalf("len %v", ml.Len())
	}
	var last = 1 << 30
	var seen = make(map[Move]bool)
	for ml.Len() > 0 {
		var move, key, ok = ml.PopBest()
		if !ok {
			t.Fatal("move list ended early")
		}
		if key > last {
			t.Errorf("key %v after %v", key, last)
		}
		if seen[move] {
			t.Errorf("move %v returned twice", move)
		}
		seen[move] = true
		last = key
	}
	if len(seen) != len(keys) {
		t.Errorf("returned %v moves", len(seen))
	}
	if _, _, ok := ml.PopBest(); ok {
		t.Error("empty list returned a move")
	}
}

func TestMoveListTieOrder(t *testing.T) {
	var buffer [MaxMoves]OrderedMove
	var ml = NewMoveList(buffer[:])
	ml.Add(Move(1), 7)
	ml.Add(Move(2), 7)
	if move, _, _ := ml.PopBest(); move != Move(1) {
		t.Errorf("first of equal keys is %v", move)
	}
}
