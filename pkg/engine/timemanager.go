package engine

import (
	"context"
	"time"

	. "github.com/tessera-chess/tessera/pkg/common"
)

const highScoreDiff = 50

// timeManager owns the search context. It is cancelled by the caller,
// by the hard deadline, or when a finished iteration says the search is over.
type timeManager struct {
	ctx          context.Context
	cancel       context.CancelFunc
	start        time.Time
	timeControl  TimeControl
	overhead     time.Duration
	timeSaved    time.Duration
	depthLimit   int
	nodesLimit   int64
	lastBestMove Move
	lastScore    int
}

func newTimeManager(ctx context.Context, start time.Time, params SearchParams,
	overhead, timeSaved time.Duration) *timeManager {

	var tm = &timeManager{
		start:       start,
		timeControl: params.TimeControl,
		overhead:    overhead,
		timeSaved:   timeSaved,
		depthLimit:  params.Depth,
		nodesLimit:  params.Nodes,
	}
	if hardLimit, ok := tm.timeControl.HardLimit(timeSaved, overhead); ok {
		tm.ctx, tm.cancel = context.WithDeadline(ctx, start.Add(hardLimit))
	} else {
		tm.ctx, tm.cancel = context.WithCancel(ctx)
	}
	return tm
}

func (tm *timeManager) IsDone() bool {
	select {
	case <-tm.ctx.Done():
		return true
	default:
		return false
	}
}

func (tm *timeManager) OnNodesChanged(nodes int64) {
	if tm.nodesLimit > 0 && nodes >= tm.nodesLimit {
		tm.cancel()
	}
}

func (tm *timeManager) OnIterationComplete(line mainLine) {
	var info = TimeControlInformation{
		StablePV:      line.depth > 1 && len(line.moves) > 0 && line.moves[0] == tm.lastBestMove,
		HighScoreDiff: line.depth > 1 && AbsDelta(line.score, tm.lastScore) > highScoreDiff,
		TimeSaved:     tm.timeSaved,
	}
	if len(line.moves) > 0 {
		tm.lastBestMove = line.moves[0]
	}
	tm.lastScore = line.score

	if tm.depthLimit != 0 && line.depth >= tm.depthLimit {
		tm.cancel()
		return
	}
	if tm.timeControl.Kind == KindInfinite {
		return
	}
	if line.score >= winIn(line.depth-5) ||
		line.score <= lossIn(line.depth-5) {
		tm.cancel()
		return
	}
	if tm.timeControl.TimeOver(time.Since(tm.start), info, tm.overhead) {
		tm.cancel()
	}
}

func (tm *timeManager) Close() {
	tm.cancel()
}
