package engine

import (
	"errors"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	. "github.com/tessera-chess/tessera/pkg/common"
)

var errSearchTimeout = errors.New("search timeout")

// smpSearch is the state shared by the lanes of one search.
// Every lane deepens on its own; a lane skips a depth that enough
// other lanes are already working on.
type smpSearch struct {
	engine  *Engine
	mu      sync.Mutex
	best    mainLine
	started [stackSize]int
}

// lazySmp runs every thread on the same tree with a shared transposition table
// and leaves the deepest finished line in e.mainLine.
func lazySmp(e *Engine, ml []Move) error {
	if len(ml) != 0 {
		e.mainLine = mainLine{moves: []Move{ml[0]}}
	}
	if len(ml) <= 1 {
		return nil
	}

	var s = &smpSearch{engine: e, best: e.mainLine}
	var g errgroup.Group
	for i := range e.threads {
		var t = &e.threads[i]
		var rootMoves = slices.Clone(ml)
		g.Go(func() error {
			return s.lane(t, rootMoves)
		})
	}
	var err = g.Wait()
	e.mainLine = s.best
	return err
}

// nextDepth reserves the depth a lane searches after finishing prevDepth.
func (s *smpSearch) nextDepth(prevDepth int) (depth int, startingMove Move, startingScore int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	depth = Max(prevDepth, s.best.depth) + 1
	if depth < len(s.started) && s.started[depth] >= (s.engine.Threads+1)/2 {
		depth++
	}
	if depth < len(s.started) {
		s.started[depth]++
	}
	return depth, s.best.moves[0], s.best.score
}

// complete publishes a finished iteration. Shallower results are dropped.
func (s *smpSearch) complete(line mainLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if line.depth <= s.best.depth || len(line.moves) == 0 {
		return
	}
	s.best = line
	var e = s.engine
	e.mainLine = line
	e.timeManager.OnIterationComplete(line)
	if e.progress != nil {
		var info = e.currentSearchResult()
		if info.Nodes >= e.ProgressMinNodes {
			e.progress(info)
		}
	}
}

// lane deepens until the search is stopped. A timeout ends the lane without error.
func (s *smpSearch) lane(t *thread, ml []Move) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == errSearchTimeout {
				err = nil
				return
			}
			panic(r)
		}
	}()

	const height = 0
	for h := 0; h <= 2; h++ {
		t.stack[h].killer1 = MoveEmpty
		t.stack[h].killer2 = MoveEmpty
	}

	var tm = s.engine.timeManager
	var depth = 0
	for !tm.IsDone() {
		var startingMove Move
		var startingScore int
		depth, startingMove, startingScore = s.nextDepth(depth)
		if depth > maxHeight {
			return nil
		}
		moveToFront(ml, startingMove)
		var score = t.aspirationWindow(ml, depth, startingScore)
		s.complete(mainLine{
			depth: depth,
			score: score,
			moves: t.stack[height].pv.toSlice(),
		})
	}
	return nil
}
