package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/notnil/chess"

	. "github.com/tessera-chess/tessera/pkg/common"
	"github.com/tessera-chess/tessera/pkg/eval"
)

func newTestEngine(threads int) *Engine {
	var options = NewMainOptions()
	options.Hash = 4
	options.Threads = threads
	return NewEngine(options, func() Evaluator {
		return eval.NewEvaluationService(Attacks())
	})
}

func mustPosition(t *testing.T, fen string) Position {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// checkLine replays the main line on an independent board.
func checkLine(t *testing.T, fen string, line []Move) *chess.Game {
	t.Helper()
	var setup, err = chess.FEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	var game = chess.NewGame(setup, chess.UseNotation(chess.UCINotation{}))
	for _, move := range line {
		if err := game.MoveStr(move.String()); err != nil {
			t.Fatalf("%v: illegal move %v in line %v: %v", fen, move, line, err)
		}
	}
	return game
}

func search(t *testing.T, e *Engine, fen string, params SearchParams) SearchInfo {
	t.Helper()
	params.Positions = []Position{mustPosition(t, fen)}
	var info, err = e.Search(context.Background(), params)
	if err != nil {
		t.Fatal(err)
	}
	if len(info.MainLine) == 0 {
		t.Fatalf("%v: empty main line", fen)
	}
	checkLine(t, fen, info.MainLine)
	return info
}

func TestSearchDepthOne(t *testing.T) {
	var e = newTestEngine(1)
	var info = search(t, e, InitialPositionFen, SearchParams{
		TimeControl: InfiniteTimeControl(),
		Depth:       1,
	})
	if info.Depth != 1 {
		t.Errorf("depth %v", info.Depth)
	}
	var game = chess.NewGame()
	var legal = false
	for _, m := range game.ValidMoves() {
		if m.String() == info.BestMove().String() {
			legal = true
		}
	}
	if !legal {
		t.Errorf("best move %v is not one of the initial moves", info.BestMove())
	}
}

func TestSearchMateInOne(t *testing.T) {
	var tests = []string{
		"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		"r5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1",
	}
	for _, fen := range tests {
		var e = newTestEngine(1)
		var info = search(t, e, fen, SearchParams{
			TimeControl: InfiniteTimeControl(),
			Depth:       4,
		})
		if info.Score.Mate != 1 {
			t.Errorf("%v: score %+v", fen, info.Score)
		}
		var game = checkLine(t, fen, info.MainLine[:1])
		if game.Method() != chess.Checkmate {
			t.Errorf("%v: %v does not mate", fen, info.BestMove())
		}
	}
}

func TestSearchNoLegalMove(t *testing.T) {
	var tests = []string{
		"6k1/5ppp/8/8/8/8/r4PPP/r5K1 w - - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	}
	for _, fen := range tests {
		var e = newTestEngine(1)
		var _, err = e.Search(context.Background(), SearchParams{
			Positions:   []Position{mustPosition(t, fen)},
			TimeControl: InfiniteTimeControl(),
			Depth:       3,
		})
		if !errors.Is(err, ErrNoLegalMove) {
			t.Errorf("%v: err %v", fen, err)
		}
	}
}

func TestSearchInsufficientMaterial(t *testing.T) {
	var e = newTestEngine(1)
	var info = search(t, e, "8/8/4k3/8/8/3NK3/8/8 w - - 0 1", SearchParams{
		TimeControl: InfiniteTimeControl(),
		Depth:       5,
	})
	if info.Score != (UciScore{}) {
		t.Errorf("score %+v", info.Score)
	}
}

func TestSearchRepetition(t *testing.T) {
	var positions = []Position{mustPosition(t, "r5k1/8/8/8/8/8/8/1R4K1 w - - 0 1")}
	for _, lan := range []string{"g1h2", "g8h7", "h2g1", "h7g8", "g1h2", "g8h7", "h2g1", "h7g8"} {
		var next, ok = positions[len(positions)-1].MakeMoveLAN(lan)
		if !ok {
			t.Fatal(lan)
		}
		positions = append(positions, next)
	}
	var keys = getHistoryKeys(positions)
	if keys[positions[0].Key] != 3 {
		t.Errorf("initial position counted %v times", keys[positions[0].Key])
	}

	var e = newTestEngine(1)
	if err := e.Prepare(); err != nil {
		t.Fatal(err)
	}
	e.historyKeys = keys
	e.timeManager = newTimeManager(context.Background(), time.Now(),
		SearchParams{TimeControl: InfiniteTimeControl()}, 0, 0)
	defer e.timeManager.Close()
	var th = &e.threads[0]
	th.stack[0].position = positions[len(positions)-1]
	var move, _ = th.stack[0].position.ParseMoveLAN("g1h2")
	if !th.makeMove(move, 0) {
		t.Fatal("g1h2 is illegal")
	}
	if !th.isRepeat(1) {
		t.Error("repetition of the game history not detected")
	}
	move, _ = th.stack[0].position.ParseMoveLAN("b1b2")
	if !th.makeMove(move, 0) {
		t.Fatal("b1b2 is illegal")
	}
	if th.isRepeat(1) {
		t.Error("new position reported as repetition")
	}
}

func TestSearchLimits(t *testing.T) {
	var e = newTestEngine(1)
	var fen = "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"

	var start = time.Now()
	var info = search(t, e, fen, SearchParams{TimeControl: MoveTimeControl(200 * time.Millisecond)})
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("movetime search took %v", elapsed)
	}
	if info.Depth < 1 {
		t.Errorf("depth %v", info.Depth)
	}

	info = search(t, e, fen, SearchParams{TimeControl: InfiniteTimeControl(), Nodes: 20000})
	if info.Nodes > 100000 {
		t.Errorf("node limited search visited %v nodes", info.Nodes)
	}
}

func TestSearchCancelled(t *testing.T) {
	var e = newTestEngine(1)
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	var info, err = e.Search(ctx, SearchParams{
		Positions:   []Position{mustPosition(t, InitialPositionFen)},
		TimeControl: InfiniteTimeControl(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if info.Depth != 1 || info.BestMove() == MoveEmpty {
		t.Errorf("fallback search returned %+v", info)
	}
	checkLine(t, InitialPositionFen, info.MainLine)
}

func TestSearchSingleMove(t *testing.T) {
	var fen = "k7/8/8/8/8/8/1r6/7K w - - 0 1"
	var e = newTestEngine(1)
	var info = search(t, e, fen, SearchParams{TimeControl: MoveTimeControl(time.Second)})
	if info.BestMove().String() != "h1g1" || info.Depth != 1 {
		t.Errorf("best move %v depth %v", info.BestMove(), info.Depth)
	}
}

func TestLazySmp(t *testing.T) {
	var fen = "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	var e = newTestEngine(4)
	var info = search(t, e, fen, SearchParams{
		TimeControl: InfiniteTimeControl(),
		Depth:       6,
	})
	if info.Depth < 6 {
		t.Errorf("depth %v", info.Depth)
	}
	if info.Nodes == 0 || info.Hashfull == 0 {
		t.Errorf("nodes %v hashfull %v", info.Nodes, info.Hashfull)
	}

	var mate = newTestEngine(4)
	var mateInfo = search(t, mate, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", SearchParams{
		TimeControl: InfiniteTimeControl(),
		Depth:       5,
	})
	if mateInfo.Score.Mate != 1 {
		t.Errorf("shared search lost the mate: %+v", mateInfo.Score)
	}
}

func TestSearchProgress(t *testing.T) {
	var e = newTestEngine(1)
	var depths []int
	search(t, e, InitialPositionFen, SearchParams{
		TimeControl: InfiniteTimeControl(),
		Depth:       4,
		Progress: func(si SearchInfo) {
			depths = append(depths, si.Depth)
		},
	})
	if len(depths) != 4 {
		t.Fatalf("progress depths %v", depths)
	}
	for i, depth := range depths {
		if depth != i+1 {
			t.Errorf("progress depths %v", depths)
		}
	}
}

func TestPrepareValidatesOptions(t *testing.T) {
	var tests = []struct {
		change func(o *Options)
		want   error
	}{
		{func(o *Options) { o.Hash = 0 }, ErrInvalidHashSize},
		{func(o *Options) { o.Hash = MaxHash + 1 }, ErrInvalidHashSize},
		{func(o *Options) { o.Threads = 0 }, ErrInvalidThreads},
		{func(o *Options) { o.MoveOverhead = -time.Millisecond }, ErrInvalidMoveOverhead},
		{func(o *Options) { o.MoveOverhead = MaxMoveOverhead + time.Millisecond }, ErrInvalidMoveOverhead},
	}
	for i, test := range tests {
		var e = newTestEngine(1)
		test.change(&e.Options)
		if err := e.Prepare(); !errors.Is(err, test.want) {
			t.Errorf("case %v: err %v", i, err)
		}
	}
}
