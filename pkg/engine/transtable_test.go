package engine

import (
	"testing"

	. "github.com/tessera-chess/tessera/pkg/common"
)

func TestTransTableLookup(t *testing.T) {
	var p, err = NewPositionFromFEN("r3k2r/1P6/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var move, ok = p.ParseMoveLAN("b7a8q")
	if !ok {
		t.Fatal("promotion capture not found")
	}

	var tt = NewTransTable(1)
	if _, found := tt.Lookup(p.Key); found {
		t.Fatal("empty table hit")
	}
	tt.Store(p.Key, 7, -123, boundExact, move)
	var entry, found = tt.Lookup(p.Key)
	if !found {
		t.Fatal("stored entry not found")
	}
	var want = TTEntry{Depth: 7, Score: -123, Bound: boundExact, Move: move}
	if entry != want {
		t.Errorf("got %+v want %+v", entry, want)
	}
	if entry.Move.Kind() != Promotion || entry.Move.CapturedPiece() != Rook {
		t.Errorf("move %v lost its flags", entry.Move)
	}
	if _, found := tt.Lookup(p.Key ^ 1<<40); found {
		t.Error("other key hit")
	}
}

func TestTransTableReplacement(t *testing.T) {
	var tt = NewTransTable(1)
	const key = uint64(0x123456789abcdef0)
	tt.Store(key, 10, 50, boundLower, MoveEmpty)

	// same key: shallow entries only replace with an exact bound
	tt.Store(key, 6, 60, boundUpper, MoveEmpty)
	if entry, _ := tt.Lookup(key); entry.Depth != 10 {
		t.Errorf("shallow bound replaced deep entry: %+v", entry)
	}
	tt.Store(key, 7, 70, boundUpper, MoveEmpty)
	if entry, _ := tt.Lookup(key); entry.Depth != 7 {
		t.Errorf("entry within 3 plies not replaced: %+v", entry)
	}
	tt.Store(key, 1, 80, boundExact, MoveEmpty)
	if entry, _ := tt.Lookup(key); entry.Score != 80 {
		t.Errorf("exact bound not stored: %+v", entry)
	}

	// other key in the same slot
	const other = key ^ 1<<63
	tt.Store(key, 10, 50, boundExact, MoveEmpty)
	tt.Store(other, 5, 0, boundExact, MoveEmpty)
	if _, found := tt.Lookup(other); found {
		t.Error("shallow entry of current search replaced deeper one")
	}
	tt.IncDate()
	tt.Store(other, 5, 0, boundExact, MoveEmpty)
	if _, found := tt.Lookup(other); !found {
		t.Error("entry of old search not replaced")
	}
}

func TestTransTableDate(t *testing.T) {
	var tt = NewTransTable(1)
	for i := 0; i < 300; i++ {
		tt.IncDate()
	}
	if tt.date != 300&ttDateMask {
		t.Errorf("date %v", tt.date)
	}
	var move = Move(ttMoveMask)
	var data = packEntry(-2, -valueMate, boundUpper, move, 0xff)
	if entryDate(data) != 0xff {
		t.Errorf("date %x", entryDate(data))
	}
	var want = TTEntry{Depth: -2, Score: -valueMate, Bound: boundUpper, Move: move}
	if got := unpackEntry(data); got != want {
		t.Errorf("got %+v want %+v", got, want)
	}
}

func TestTransTableLookupRefreshesDate(t *testing.T) {
	var tt = NewTransTable(1)
	const key = uint64(0xfedcba9876543210)
	tt.Store(key, 3, 0, boundExact, MoveEmpty)
	tt.IncDate()
	if tt.Hashfull() != 0 {
		t.Fatal("old generation counted")
	}
	if _, found := tt.Lookup(key); !found {
		t.Fatal("old generation entry not found")
	}
	var _, data = tt.slots[key&tt.mask].load()
	if entryDate(data) != tt.date {
		t.Errorf("date not refreshed: %v", entryDate(data))
	}
}

func TestTransTableTornSlot(t *testing.T) {
	var tt = NewTransTable(1)
	const key = uint64(0x1111222233334444)
	const other = key ^ 1<<60
	tt.Store(key, 5, 10, boundExact, MoveEmpty)
	// a writer for another key updated the data word only
	var slot = &tt.slots[key&tt.mask]
	slot.data.Store(packEntry(9, -10, boundLower, MoveEmpty, tt.date))
	if _, found := tt.Lookup(key); found {
		t.Error("torn slot matched the old key")
	}
	if _, found := tt.Lookup(other); found {
		t.Error("torn slot matched the new key")
	}
}

func TestTransTableHashfull(t *testing.T) {
	var tt = NewTransTable(1)
	if tt.Hashfull() != 0 {
		t.Fatal("empty table is not empty")
	}
	for i := 0; i < len(tt.slots); i++ {
		tt.Store(uint64(i)|1<<32, 1, 0, boundExact, MoveEmpty)
	}
	if got := tt.Hashfull(); got != 1000 {
		t.Errorf("hashfull %v", got)
	}
	tt.Clear()
	if got := tt.Hashfull(); got != 0 {
		t.Errorf("hashfull after clear %v", got)
	}
}
