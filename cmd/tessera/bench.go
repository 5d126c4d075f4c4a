package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessera-chess/tessera/pkg/common"
	"github.com/tessera-chess/tessera/pkg/engine"
)

var benchFens = []string{
	common.InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
	"8/k7/3p4/p2P1p2/P2P1P2/8/8/K7 w - - 0 1",
	"8/pp6/2p5/P1P5/1P3k2/3K4/8/8 w - - 5 47",
	"r1b1k2r/ppppnppp/2n2q2/2b5/3NP3/2P1B3/PP3PPP/RN1QKB1R w KQkq - 0 1",
}

// runBench searches a fixed set of positions to a fixed depth and reports the speed.
func runBench(opts cliOptions, logger zerolog.Logger) error {
	var depth = opts.depth
	if depth == 0 {
		depth = 10
	}
	var eng, err = newEngine(opts, logger)
	if err != nil {
		return err
	}
	logger.Info().Int("depth", depth).Int("positions", len(benchFens)).Msg("bench started")

	var start = time.Now()
	var nodes int64
	for _, fen := range benchFens {
		var p, err = common.NewPositionFromFEN(fen)
		if err != nil {
			return err
		}
		eng.Clear()
		var info, searchErr = eng.Search(context.Background(), engine.SearchParams{
			Positions:   []common.Position{p},
			TimeControl: engine.InfiniteTimeControl(),
			Depth:       depth,
		})
		if searchErr != nil {
			return fmt.Errorf("%v: %w", fen, searchErr)
		}
		logger.Debug().Str("fen", fen).Str("bestmove", info.BestMove().String()).Int64("nodes", info.Nodes).Msg("bench position")
		nodes += info.Nodes
	}
	var elapsed = time.Since(start)
	var nps int64
	if ms := elapsed.Milliseconds(); ms > 0 {
		nps = nodes * 1000 / ms
	}
	fmt.Println("Time", elapsed)
	fmt.Println("Nodes", nodes)
	fmt.Println("NPS", nps)
	return nil
}
