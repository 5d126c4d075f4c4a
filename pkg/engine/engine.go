package engine

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	. "github.com/tessera-chess/tessera/pkg/common"
)

var (
	ErrNoLegalMove = errors.New("no legal move")
	ErrNoPosition  = errors.New("no position to search")
)

type Engine struct {
	Options
	evalBuilder func() Evaluator
	timeManager *timeManager
	transTable  *TransTable
	historyKeys map[uint64]int
	threads     []thread
	progress    func(SearchInfo)
	mainLine    mainLine
	start       time.Time
	timeSaved   time.Duration
}

type thread struct {
	engine    *Engine
	history   historyTable
	evaluator Evaluator
	nodes     int64
	stack     [stackSize]struct {
		position       Position
		moveList       [MaxMoves]OrderedMove
		quietsSearched [MaxMoves]Move
		pv             pv
		staticEval     int
		killer1        Move
		killer2        Move
	}
}

type pv struct {
	items [stackSize]Move
	size  int
}

type mainLine struct {
	moves []Move
	score int
	depth int
}

func NewEngine(options Options, evalBuilder func() Evaluator) *Engine {
	return &Engine{
		Options:     options,
		evalBuilder: evalBuilder,
	}
}

// Prepare applies changed options. It is called before every search.
func (e *Engine) Prepare() error {
	if err := e.Options.Validate(); err != nil {
		return err
	}
	if e.transTable == nil || e.transTable.Size() != e.Hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = NewTransTable(e.Hash)
		e.Logger.Debug().Int("hash", e.Hash).Msg("transposition table allocated")
	}
	if len(e.threads) != e.Threads {
		e.threads = make([]thread, e.Threads)
		for i := range e.threads {
			var t = &e.threads[i]
			t.engine = e
			t.evaluator = e.evalBuilder()
		}
		e.Logger.Debug().Int("threads", e.Threads).Msg("search threads created")
	}
	return nil
}

func (e *Engine) Search(ctx context.Context, searchParams SearchParams) (SearchInfo, error) {
	e.start = time.Now()
	if len(searchParams.Positions) == 0 {
		return SearchInfo{}, ErrNoPosition
	}
	if err := e.Prepare(); err != nil {
		return SearchInfo{}, err
	}
	var p = &searchParams.Positions[len(searchParams.Positions)-1]
	if !p.HasLegalMove() {
		return SearchInfo{}, ErrNoLegalMove
	}

	e.timeManager = newTimeManager(ctx, e.start, searchParams, e.MoveOverhead, e.timeSaved)
	defer func() { e.timeManager.Close() }()
	e.transTable.IncDate()
	e.historyKeys = getHistoryKeys(searchParams.Positions)
	e.mainLine = mainLine{}
	for i := range e.threads {
		var t = &e.threads[i]
		t.nodes = 0
		t.stack[0].position = *p
	}
	e.progress = searchParams.Progress

	var ml = e.genRootMoves()
	if err := lazySmp(e, ml); err != nil {
		return SearchInfo{}, err
	}
	if e.mainLine.depth == 0 {
		e.fallbackSearch(ml)
	}

	var result = e.currentSearchResult()
	var tc = &searchParams.TimeControl
	if tc.Kind == KindIncremental || tc.Kind == KindTournament {
		e.timeSaved = maxDuration(0, e.timeSaved+tc.TimeSaved(result.Time, e.timeSaved, e.MoveOverhead))
	}
	e.Logger.Debug().
		Int("depth", result.Depth).
		Int64("nodes", result.Nodes).
		Dur("time", result.Time).
		Dur("saved", e.timeSaved).
		Str("bestmove", result.BestMove().String()).
		Msg("search finished")
	return result, nil
}

// fallbackSearch completes a depth 1 search without any limit.
// It is used when the deadline expired before the first iteration.
func (e *Engine) fallbackSearch(ml []Move) {
	e.Logger.Warn().Msg("no iteration completed, searching depth 1")
	e.timeManager.Close()
	e.timeManager = newTimeManager(context.Background(), time.Now(),
		SearchParams{TimeControl: InfiniteTimeControl()}, 0, 0)
	const height = 0
	var t = &e.threads[0]
	var score = t.searchRoot(ml, -valueInfinity, valueInfinity, 1)
	e.mainLine = mainLine{
		depth: 1,
		score: score,
		moves: t.stack[height].pv.toSlice(),
	}
	if e.progress != nil {
		e.progress(e.currentSearchResult())
	}
}

func getHistoryKeys(positions []Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 1; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key]++
		if p.Rule50 == 0 {
			break
		}
	}
	return result
}

// Clear forgets everything learned in previous games.
func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	for i := range e.threads {
		e.threads[i].history.clear()
	}
	e.timeSaved = 0
}

func (e *Engine) totalNodes() int64 {
	var result int64
	for i := range e.threads {
		result += atomic.LoadInt64(&e.threads[i].nodes)
	}
	return result
}

func (e *Engine) currentSearchResult() SearchInfo {
	return SearchInfo{
		Depth:    e.mainLine.depth,
		MainLine: e.mainLine.moves,
		Score:    newUciScore(e.mainLine.score),
		Nodes:    e.totalNodes(),
		Time:     time.Since(e.start),
		Hashfull: e.transTable.Hashfull(),
	}
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}

func (t *thread) clearPV(height int) {
	t.stack[height].pv.clear()
}

func (t *thread) assignPV(height int, m Move) {
	t.stack[height].pv.assign(m, &t.stack[height+1].pv)
}
