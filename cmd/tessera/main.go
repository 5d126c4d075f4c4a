package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/tessera-chess/tessera/internal/evalbuilder"
	"github.com/tessera-chess/tessera/pkg/common"
	"github.com/tessera-chess/tessera/pkg/engine"
	"github.com/tessera-chess/tessera/pkg/uci"
)

/*
Tessera Copyright (C) 2024 The Tessera Authors
This program is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, either version 3 of the License, or (at your option) any later version.
This program is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.
You should have received a copy of the GNU General Public License along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

const (
	name   = "Tessera"
	author = "The Tessera Authors"
)

var (
	versionName = "dev"
	buildDate   = "(null)"
	gitRevision = "(null)"
)

type cliOptions struct {
	hash     int
	threads  int
	overhead int
	logLevel string
	eval     string
	depth    int
	fen      string
}

func main() {
	var opts cliOptions
	flag.IntVar(&opts.hash, "hash", 16, "transposition table size in megabytes")
	flag.IntVar(&opts.threads, "threads", 1, "number of search threads")
	flag.IntVar(&opts.overhead, "overhead", int(engine.DefaultMoveOverhead/time.Millisecond), "move overhead in milliseconds")
	flag.StringVar(&opts.logLevel, "loglevel", "info", "log level: debug, info, warn, error")
	flag.StringVar(&opts.eval, "eval", "", "evaluation function: tapered or material")
	flag.IntVar(&opts.depth, "depth", 0, "depth for bench and perft")
	flag.StringVar(&opts.fen, "fen", common.InitialPositionFen, "position for perft")
	flag.Parse()

	var logger = newLogger(opts.logLevel)
	logger.Info().
		Str("version", versionName).
		Str("buildDate", buildDate).
		Str("gitRevision", gitRevision).
		Str("runtime", runtime.Version()).
		Str("goarch", runtime.GOARCH).
		Str("goos", runtime.GOOS).
		Int("numCPU", runtime.NumCPU()).
		Msg(name)

	var err error
	switch command := flag.Arg(0); command {
	case "", "uci":
		err = runUci(opts, logger)
	case "bench":
		err = runBench(opts, logger)
	case "perft":
		err = runPerft(opts, logger)
	default:
		err = fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		logger.Error().Err(err).Msg("exit")
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	var lvl, err = zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func newEngine(opts cliOptions, logger zerolog.Logger) (*engine.Engine, error) {
	var options = engine.NewMainOptions()
	options.Hash = opts.hash
	options.Threads = opts.threads
	options.MoveOverhead = time.Duration(opts.overhead) * time.Millisecond
	options.Logger = logger.With().Str("component", "engine").Logger()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	var evalBuilder, err = evalbuilder.Get(opts.eval)
	if err != nil {
		return nil, err
	}
	return engine.NewEngine(options, evalBuilder), nil
}

func runUci(opts cliOptions, logger zerolog.Logger) error {
	var eng, err = newEngine(opts, logger)
	if err != nil {
		return err
	}
	var protocol = uci.New(name, author, versionName, eng,
		[]uci.Option{
			&uci.IntOption{Name: "Hash", Min: engine.MinHash, Max: engine.MaxHash, Value: &eng.Options.Hash},
			&uci.IntOption{Name: "Threads", Min: 1, Max: engine.MaxThreads, Value: &eng.Options.Threads},
			&uci.MillisecondsOption{Name: "MoveOverhead", Min: engine.MinMoveOverhead, Max: engine.MaxMoveOverhead, Value: &eng.Options.MoveOverhead},
			&uci.ButtonOption{Name: "Clear Hash", Action: eng.Clear},
		},
		logger.With().Str("component", "uci").Logger(),
	)
	return protocol.Run(os.Stdin, os.Stdout)
}
