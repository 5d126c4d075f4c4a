package engine

import (
	"errors"
	"testing"
	"time"
)

const ms = time.Millisecond

func TestIncrementalUpdate(t *testing.T) {
	var tc = IncrementalTimeControl(180000*ms, 2000*ms)
	tc.Update(5000 * ms)
	if got := tc.TimeLeft(); got != 177000*ms {
		t.Errorf("time left %v, want %v", got, 177000*ms)
	}
}

func TestUpdateNeverNegative(t *testing.T) {
	var tc = IncrementalTimeControl(1000*ms, 0)
	tc.Update(5000 * ms)
	if got := tc.TimeLeft(); got != 0 {
		t.Errorf("time left %v, want 0", got)
	}
	if !tc.TimeOver(0, TimeControlInformation{}, DefaultMoveOverhead) {
		t.Error("exhausted clock must stop the search")
	}
}

func TestTournamentSession(t *testing.T) {
	var tc = TournamentTimeControl(60000*ms, 0, 2)
	tc.Update(1000 * ms)
	if tc.MovesToGo != 1 || tc.TimeLeft() != 59000*ms {
		t.Fatalf("after first move: moves %v left %v", tc.MovesToGo, tc.TimeLeft())
	}
	tc.Update(1000 * ms)
	if tc.MovesToGo != 2 || tc.TimeLeft() != 118000*ms {
		t.Fatalf("after session end: moves %v left %v", tc.MovesToGo, tc.TimeLeft())
	}
}

func TestInfiniteHasNoClock(t *testing.T) {
	for _, f := range []func(tc *TimeControl){
		func(tc *TimeControl) { tc.TimeLeft() },
		func(tc *TimeControl) { tc.Update(time.Second) },
	} {
		func() {
			defer func() {
				var r = recover()
				if err, ok := r.(error); !ok || !errors.Is(err, ErrInfiniteTimeControl) {
					t.Errorf("unexpected panic value %v", r)
				}
			}()
			var tc = InfiniteTimeControl()
			f(&tc)
		}()
	}
	var tc = InfiniteTimeControl()
	if tc.TimeOver(time.Hour, TimeControlInformation{}, 0) {
		t.Error("infinite search stopped by time")
	}
}

func TestMoveTimeOver(t *testing.T) {
	var tests = []struct {
		moveTime time.Duration
		overhead time.Duration
		spent    time.Duration
		want     bool
	}{
		{3000 * ms, 3000 * ms, 0, true},
		{3000 * ms, 5000 * ms, 0, true},
		{3000 * ms, 25 * ms, 2000 * ms, false},
		{3000 * ms, 25 * ms, 2975 * ms, false},
		{3000 * ms, 25 * ms, 2976 * ms, true},
	}
	for _, test := range tests {
		var tc = MoveTimeControl(test.moveTime)
		var got = tc.TimeOver(test.spent, TimeControlInformation{}, test.overhead)
		if got != test.want {
			t.Errorf("movetime %v overhead %v spent %v: got %v want %v",
				test.moveTime, test.overhead, test.spent, got, test.want)
		}
	}
}

func TestIncrementalTimeOver(t *testing.T) {
	// normal time is 60000/30 - 25 = 1975ms
	var tests = []struct {
		spent     time.Duration
		stable    bool
		scoreDiff bool
		want      bool
	}{
		{1000 * ms, true, false, false},
		{1600 * ms, true, false, false},
		{1700 * ms, true, false, true},
		{1800 * ms, true, true, true},
		{1700 * ms, false, false, false},
		{2271 * ms, false, false, false},
		{2271 * ms, false, true, false},
		{2300 * ms, false, false, true},
	}
	for _, test := range tests {
		var tc = IncrementalTimeControl(60000*ms, 0)
		var info = TimeControlInformation{StablePV: test.stable, HighScoreDiff: test.scoreDiff}
		var got = tc.TimeOver(test.spent, info, 25*ms)
		if got != test.want {
			t.Errorf("spent %v stable %v score diff %v: got %v want %v",
				test.spent, test.stable, test.scoreDiff, got, test.want)
		}
	}
}

func TestTimeOverReserve(t *testing.T) {
	var tc = IncrementalTimeControl(1000*ms, 10000*ms)
	if !tc.TimeOver(901*ms, TimeControlInformation{}, 25*ms) {
		t.Error("search must stop before the clock reserve")
	}
}

func TestTimeSaved(t *testing.T) {
	var tc = IncrementalTimeControl(60000*ms, 0)
	if got := tc.TimeSaved(975*ms, 0, 25*ms); got != 1000*ms {
		t.Errorf("time saved %v, want %v", got, 1000*ms)
	}
	var mt = MoveTimeControl(time.Second)
	if got := mt.TimeSaved(0, 0, 0); got != 0 {
		t.Errorf("movetime saved %v", got)
	}
}

func TestHardLimit(t *testing.T) {
	var tc = MoveTimeControl(1000 * ms)
	if limit, ok := tc.HardLimit(0, 25*ms); !ok || limit != 975*ms {
		t.Errorf("movetime hard limit %v %v", limit, ok)
	}
	tc = InfiniteTimeControl()
	if _, ok := tc.HardLimit(0, 25*ms); ok {
		t.Error("infinite search has a deadline")
	}
	tc = IncrementalTimeControl(60000*ms, 0)
	if limit, ok := tc.HardLimit(0, 25*ms); !ok || limit <= 1975*ms || limit > 60000*ms-100*ms {
		t.Errorf("incremental hard limit %v", limit)
	}
}
