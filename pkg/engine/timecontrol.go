package engine

import (
	"errors"
	"time"
)

type TimeControlKind int

const (
	KindIncremental TimeControlKind = iota
	KindMoveTime
	KindInfinite
	KindTournament
)

const defaultMovesToGo = 30

var ErrInfiniteTimeControl = errors.New("infinite time control has no clock")

// TimeControl is the clock of the engine side for one game.
// Left may be exhausted but never negative.
type TimeControl struct {
	Kind      TimeControlKind
	Left      time.Duration
	Increment time.Duration
	MoveTime  time.Duration
	MovesToGo int
	// Session restores the clock of a tournament control once MovesToGo runs out.
	SessionTime  time.Duration
	SessionMoves int
}

// TimeControlInformation describes the state of the search when a deadline is checked.
// HighScoreDiff is informational, TimeOver decides on StablePV alone.
type TimeControlInformation struct {
	HighScoreDiff bool
	StablePV      bool
	TimeSaved     time.Duration
}

func IncrementalTimeControl(left, increment time.Duration) TimeControl {
	return TimeControl{Kind: KindIncremental, Left: left, Increment: increment}
}

func MoveTimeControl(moveTime time.Duration) TimeControl {
	return TimeControl{Kind: KindMoveTime, MoveTime: moveTime}
}

func InfiniteTimeControl() TimeControl {
	return TimeControl{Kind: KindInfinite}
}

func TournamentTimeControl(left, increment time.Duration, movesToGo int) TimeControl {
	return TimeControl{
		Kind:         KindTournament,
		Left:         left,
		Increment:    increment,
		MovesToGo:    movesToGo,
		SessionTime:  left,
		SessionMoves: movesToGo,
	}
}

func (tc *TimeControl) TimeLeft() time.Duration {
	switch tc.Kind {
	case KindMoveTime:
		return tc.MoveTime
	case KindInfinite:
		panic(ErrInfiniteTimeControl)
	default:
		return tc.Left
	}
}

// Update charges one finished move to the clock.
func (tc *TimeControl) Update(spent time.Duration) {
	switch tc.Kind {
	case KindMoveTime:
		return
	case KindInfinite:
		panic(ErrInfiniteTimeControl)
	}
	tc.Left = tc.Left - spent + tc.Increment
	if tc.Left < 0 {
		tc.Left = 0
	}
	if tc.Kind == KindTournament && tc.MovesToGo > 0 {
		tc.MovesToGo--
		if tc.MovesToGo == 0 && tc.SessionMoves > 0 {
			tc.Left += tc.SessionTime
			tc.MovesToGo = tc.SessionMoves
		}
	}
}

func (tc *TimeControl) movesToGo() int {
	if tc.Kind == KindTournament && tc.MovesToGo > 0 {
		return tc.MovesToGo
	}
	return defaultMovesToGo
}

// normalTime is the share of the clock planned for the current move.
func (tc *TimeControl) normalTime(saved, overhead time.Duration) time.Duration {
	var result = (tc.Left-saved)/time.Duration(tc.movesToGo()) + tc.Increment - overhead
	if result < 0 {
		return 0
	}
	return result
}

// TimeOver reports whether the search should stop after an iteration.
func (tc *TimeControl) TimeOver(spent time.Duration, info TimeControlInformation, overhead time.Duration) bool {
	switch tc.Kind {
	case KindInfinite:
		return false
	case KindMoveTime:
		return tc.MoveTime <= overhead || spent > tc.MoveTime-overhead
	}
	if tc.Left <= 0 || spent > tc.Left-4*overhead {
		return true
	}
	var normal = tc.normalTime(info.TimeSaved, overhead)
	var aspired time.Duration
	if info.TimeSaved < normal {
		aspired = maxDuration(normal*85/100, tc.Increment)
	} else {
		aspired = maxDuration(normal, tc.Increment)
	}
	if spent < aspired {
		return false
	}
	if info.StablePV {
		return true
	}
	return spent > (normal+info.TimeSaved)*115/100
}

// TimeSaved returns how much of the planned time the last move did not use.
func (tc *TimeControl) TimeSaved(spent, saved, overhead time.Duration) time.Duration {
	switch tc.Kind {
	case KindIncremental, KindTournament:
		return tc.normalTime(saved, overhead) - spent
	default:
		return 0
	}
}

// HardLimit bounds a single search, iterations in progress are interrupted at it.
func (tc *TimeControl) HardLimit(saved, overhead time.Duration) (time.Duration, bool) {
	switch tc.Kind {
	case KindInfinite:
		return 0, false
	case KindMoveTime:
		return maxDuration(0, tc.MoveTime-overhead), true
	}
	var limit = minDuration(tc.Left-4*overhead, 3*(tc.normalTime(saved, overhead)+saved))
	return maxDuration(0, limit), true
}

func maxDuration(l, r time.Duration) time.Duration {
	if l > r {
		return l
	}
	return r
}

func minDuration(l, r time.Duration) time.Duration {
	if l < r {
		return l
	}
	return r
}
