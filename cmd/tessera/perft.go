package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tessera-chess/tessera/pkg/common"
)

// runPerft counts leaf nodes per root move, one goroutine per root move.
func runPerft(opts cliOptions, logger zerolog.Logger) error {
	var depth = opts.depth
	if depth == 0 {
		depth = 5
	}
	var p, err = common.NewPositionFromFEN(opts.fen)
	if err != nil {
		return err
	}
	logger.Info().Str("fen", opts.fen).Int("depth", depth).Msg("perft started")

	var start = time.Now()
	var moves = p.GenerateLegalMoves()
	var counts = make([]int, len(moves))
	var total int64
	var g errgroup.Group
	g.SetLimit(opts.threads)
	for i, move := range moves {
		var i, move = i, move
		g.Go(func() error {
			var child common.Position
			if !p.MakeMove(move, &child) {
				return fmt.Errorf("illegal root move %v", move)
			}
			var count = 1
			if depth > 1 {
				count = common.Perft(&child, depth-1)
			}
			counts[i] = count
			atomic.AddInt64(&total, int64(count))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, move := range moves {
		fmt.Printf("%v: %v\n", move, counts[i])
	}
	fmt.Println("Nodes", total)
	fmt.Println("Time", time.Since(start))
	return nil
}
