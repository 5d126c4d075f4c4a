package engine

import (
	"time"

	. "github.com/tessera-chess/tessera/pkg/common"
)

// Evaluator scores a position from White's point of view.
type Evaluator interface {
	Evaluate(p *Position) int
}

// UciScore is either a centipawn score or moves to mate, negative when mated.
type UciScore struct {
	Centipawns int
	Mate       int
}

func newUciScore(v int) UciScore {
	switch {
	case v >= valueWin:
		return UciScore{Mate: (valueMate - v + 1) / 2}
	case v <= valueLoss:
		return UciScore{Mate: (-valueMate - v) / 2}
	}
	return UciScore{Centipawns: v}
}

type SearchParams struct {
	// Positions is the game history, the last one is searched.
	Positions   []Position
	TimeControl TimeControl
	Depth       int
	Nodes       int64
	Progress    func(SearchInfo)
}

type SearchInfo struct {
	Score    UciScore
	Depth    int
	Nodes    int64
	Time     time.Duration
	MainLine []Move
	Hashfull int
}

func (si *SearchInfo) BestMove() Move {
	if len(si.MainLine) == 0 {
		return MoveEmpty
	}
	return si.MainLine[0]
}

func (si *SearchInfo) NodesPerSecond() int64 {
	var ms = si.Time.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return si.Nodes * 1000 / ms
}
