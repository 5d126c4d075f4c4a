package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessera-chess/tessera/pkg/common"
)

const (
	DefaultMoveOverhead = 25 * time.Millisecond
	MinMoveOverhead     = 0
	MaxMoveOverhead     = 20000 * time.Millisecond

	MinHash    = 1
	MaxHash    = 1 << 16
	MaxThreads = 256
)

var (
	ErrInvalidHashSize     = errors.New("invalid hash size")
	ErrInvalidThreads      = errors.New("invalid number of threads")
	ErrInvalidMoveOverhead = errors.New("invalid move overhead")
)

type Options struct {
	Hash             int
	Threads          int
	MoveOverhead     time.Duration
	ProgressMinNodes int64
	Logger           zerolog.Logger
}

func NewMainOptions() Options {
	return Options{
		Hash:         16,
		Threads:      1,
		MoveOverhead: DefaultMoveOverhead,
		Logger:       zerolog.Nop(),
	}
}

func (o *Options) Validate() error {
	if o.Hash < MinHash || o.Hash > MaxHash {
		return fmt.Errorf("%w: %d MB", ErrInvalidHashSize, o.Hash)
	}
	if o.Threads < 1 || o.Threads > MaxThreads {
		return fmt.Errorf("%w: %d", ErrInvalidThreads, o.Threads)
	}
	if o.MoveOverhead < MinMoveOverhead || o.MoveOverhead > MaxMoveOverhead {
		return fmt.Errorf("%w: %v", ErrInvalidMoveOverhead, o.MoveOverhead)
	}
	return nil
}

var reductions = initLmr(lmrMult)

func lmr(d, m int) int {
	return reductions[common.Min(d, 63)][common.Min(m, 63)]
}

func initLmr(f func(d, m float64) float64) (result [64][64]int) {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			result[d][m] = int(f(float64(d), float64(m)))
		}
	}
	return
}

func lmrMult(d, m float64) float64 {
	return lirp(math.Log(d)*math.Log(m), math.Log(5)*math.Log(22), math.Log(63)*math.Log(63), 3, 8)
}

func lirp(x, x1, x2, y1, y2 float64) float64 {
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}
