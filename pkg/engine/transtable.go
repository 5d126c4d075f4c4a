package engine

import (
	"sync/atomic"

	. "github.com/tessera-chess/tessera/pkg/common"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

// Layout of the packed data word, low bits first:
// move 24, score 16, depth 8, bound 8, date 8.
const (
	ttMoveBits   = 24
	ttMoveMask   = 1<<ttMoveBits - 1
	ttScoreShift = ttMoveBits
	ttDepthShift = ttScoreShift + 16
	ttBoundShift = ttDepthShift + 8
	ttDateShift  = ttBoundShift + 8
	ttDateMask   = 0xff
)

// ttSlot holds one record as two words. check is key^data, so a slot
// torn by two concurrent writers fails verification instead of matching.
type ttSlot struct {
	check atomic.Uint64
	data  atomic.Uint64
}

func (s *ttSlot) load() (key, data uint64) {
	data = s.data.Load()
	return s.check.Load() ^ data, data
}

func (s *ttSlot) store(key, data uint64) {
	s.data.Store(data)
	s.check.Store(key ^ data)
}

func packEntry(depth, score, bound int, move Move, date uint8) uint64 {
	return uint64(move)&ttMoveMask |
		uint64(uint16(int16(score)))<<ttScoreShift |
		uint64(uint8(int8(depth)))<<ttDepthShift |
		uint64(uint8(bound))<<ttBoundShift |
		uint64(date)<<ttDateShift
}

func entryDate(data uint64) uint8 {
	return uint8(data >> ttDateShift)
}

func entryBound(data uint64) int {
	return int(uint8(data >> ttBoundShift))
}

func entryDepth(data uint64) int {
	return int(int8(uint8(data >> ttDepthShift)))
}

func unpackEntry(data uint64) TTEntry {
	return TTEntry{
		Depth: entryDepth(data),
		Score: int(int16(uint16(data >> ttScoreShift))),
		Bound: entryBound(data),
		Move:  Move(data & ttMoveMask),
	}
}

// TTEntry is a copy of a stored record. Score is in distance-to-node form.
type TTEntry struct {
	Depth int
	Score int
	Bound int
	Move  Move
}

// TransTable is shared by all search threads without locks.
// Racing writes can lose a record but never produce a false hit.
type TransTable struct {
	megabytes int
	slots     []ttSlot
	date      uint8
	mask      uint64
}

func NewTransTable(megabytes int) *TransTable {
	var count = 1
	for count*2*16 <= megabytes*1024*1024 {
		count *= 2
	}
	return &TransTable{
		megabytes: megabytes,
		slots:     make([]ttSlot, count),
		mask:      uint64(count - 1),
	}
}

func (tt *TransTable) Size() int {
	return tt.megabytes
}

// IncDate starts a new search generation. It is called between searches only.
func (tt *TransTable) IncDate() {
	tt.date = (tt.date + 1) & ttDateMask
}

func (tt *TransTable) Clear() {
	tt.date = 0
	for i := range tt.slots {
		tt.slots[i].store(0, 0)
	}
}

// Hashfull estimates table usage by the current generation in permill.
func (tt *TransTable) Hashfull() int {
	var n = Min(1000, len(tt.slots))
	var used = 0
	for i := 0; i < n; i++ {
		var data = tt.slots[i].data.Load()
		if entryBound(data) != 0 && entryDate(data) == tt.date {
			used++
		}
	}
	return used * 1000 / n
}

// Lookup returns the record stored for key and marks it as used by the current search.
func (tt *TransTable) Lookup(key uint64) (TTEntry, bool) {
	var slot = &tt.slots[key&tt.mask]
	var storedKey, data = slot.load()
	if storedKey != key || entryBound(data) == 0 {
		return TTEntry{}, false
	}
	if entryDate(data) != tt.date {
		data = data&^(ttDateMask<<ttDateShift) | uint64(tt.date)<<ttDateShift
		slot.store(key, data)
	}
	return unpackEntry(data), true
}

// Store keeps the record unless the slot holds something more valuable:
// a deeper result for the same position, or a deeper one of the current search.
func (tt *TransTable) Store(key uint64, depth, score, bound int, move Move) {
	var slot = &tt.slots[key&tt.mask]
	var storedKey, data = slot.load()
	var replace bool
	if storedKey == key {
		replace = depth >= entryDepth(data)-3 || bound == boundExact
	} else {
		replace = entryDate(data) != tt.date || depth >= entryDepth(data)
	}
	if replace {
		slot.store(key, packEntry(depth, score, bound, move, tt.date))
	}
}
