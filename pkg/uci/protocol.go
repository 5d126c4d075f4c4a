package uci

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/tessera-chess/tessera/pkg/common"
	"github.com/tessera-chess/tessera/pkg/engine"
)

var (
	errCommandNotFound = errors.New("command not found")
	errSearchRunning   = errors.New("search still run")
	errUnknownOption   = errors.New("unhandled option")
)

type Engine interface {
	Prepare() error
	Clear()
	Search(ctx context.Context, searchParams engine.SearchParams) (engine.SearchInfo, error)
}

type searchEvent struct {
	info  engine.SearchInfo
	err   error
	final bool
}

type Protocol struct {
	name         string
	author       string
	version      string
	options      []Option
	engine       Engine
	logger       zerolog.Logger
	out          io.Writer
	positions    []common.Position
	thinking     bool
	engineOutput chan searchEvent
	cancel       context.CancelFunc
}

func New(name, author, version string, engine Engine, options []Option, logger zerolog.Logger) *Protocol {
	var initPosition, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    engine,
		options:   options,
		logger:    logger,
		positions: []common.Position{initPosition},
	}
}

// Run serves commands from in until quit. Engine output goes to out.
func (uci *Protocol) Run(in io.Reader, out io.Writer) error {
	uci.out = out
	var commands = make(chan string)
	var inputErr = make(chan error, 1)

	go func() {
		defer close(commands)
		inputErr <- readCommands(in, commands)
	}()

	var lastInfo engine.SearchInfo
	for {
		select {
		case event := <-uci.engineOutput:
			if !event.final {
				fmt.Fprintln(out, searchInfoToUci(event.info))
				lastInfo = event.info
				continue
			}
			uci.finishSearch(event, lastInfo)
			lastInfo = engine.SearchInfo{}
		case commandLine, ok := <-commands:
			if !ok {
				if uci.thinking {
					uci.cancel()
					uci.waitSearch(lastInfo)
				}
				return <-inputErr
			}
			uci.logger.Debug().Str("command", commandLine).Msg("received")
			if err := uci.handle(commandLine); err != nil {
				uci.logger.Warn().Err(err).Str("command", commandLine).Msg("command failed")
			}
		}
	}
}

// waitSearch drains progress until the running search reports its result.
func (uci *Protocol) waitSearch(lastInfo engine.SearchInfo) {
	for event := range uci.engineOutput {
		if event.final {
			uci.finishSearch(event, lastInfo)
			return
		}
		lastInfo = event.info
	}
}

func (uci *Protocol) finishSearch(event searchEvent, lastInfo engine.SearchInfo) {
	if event.err != nil {
		uci.logger.Error().Err(event.err).Msg("search failed")
		fmt.Fprintln(uci.out, "bestmove 0000")
	} else {
		if event.info.Depth != lastInfo.Depth || len(lastInfo.MainLine) == 0 {
			fmt.Fprintln(uci.out, searchInfoToUci(event.info))
		}
		fmt.Fprintf(uci.out, "bestmove %v\n", event.info.BestMove())
	}
	uci.thinking = false
	uci.cancel = nil
	uci.engineOutput = nil
}

func (uci *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	if uci.thinking {
		switch commandName {
		case "stop":
			uci.cancel()
			return nil
		case "isready":
			fmt.Fprintln(uci.out, "readyok")
			return nil
		}
		return errSearchRunning
	}

	var h func(fields []string) error

	switch commandName {
	case "uci":
		h = uci.uciCommand
	case "setoption":
		h = uci.setOptionCommand
	case "isready":
		h = uci.isReadyCommand
	case "position":
		h = uci.positionCommand
	case "go":
		h = uci.goCommand
	case "ucinewgame":
		h = uci.uciNewGameCommand
	case "stop", "debug":
		return nil
	}

	if h == nil {
		return fmt.Errorf("%w: %v", errCommandNotFound, commandName)
	}

	return h(fields)
}

func (uci *Protocol) uciCommand(fields []string) error {
	fmt.Fprintf(uci.out, "id name %s %s\n", uci.name, uci.version)
	fmt.Fprintf(uci.out, "id author %s\n", uci.author)
	for _, option := range uci.options {
		fmt.Fprintln(uci.out, option.UciString())
	}
	fmt.Fprintln(uci.out, "uciok")
	return nil
}

// setoption name <id> [value <x>], names may contain spaces.
func (uci *Protocol) setOptionCommand(fields []string) error {
	if len(fields) < 2 || fields[0] != "name" {
		return errors.New("invalid setoption arguments")
	}
	var valueIndex = lo.IndexOf(fields, "value")
	var name, value string
	if valueIndex == -1 {
		name = strings.Join(fields[1:], " ")
	} else {
		name = strings.Join(fields[1:valueIndex], " ")
		value = strings.Join(fields[valueIndex+1:], " ")
	}
	var option, found = lo.Find(uci.options, func(option Option) bool {
		return strings.EqualFold(option.UciName(), name)
	})
	if !found {
		return fmt.Errorf("%w: %v", errUnknownOption, name)
	}
	return option.Set(value)
}

func (uci *Protocol) isReadyCommand(fields []string) error {
	var err = uci.engine.Prepare()
	fmt.Fprintln(uci.out, "readyok")
	return err
}

func (uci *Protocol) positionCommand(fields []string) error {
	if len(fields) == 0 {
		return errors.New("empty position command")
	}
	var token = fields[0]
	var fen string
	var movesIndex = lo.IndexOf(fields, "moves")
	if token == "startpos" {
		fen = common.InitialPositionFen
	} else if token == "fen" {
		if movesIndex == -1 {
			fen = strings.Join(fields[1:], " ")
		} else {
			fen = strings.Join(fields[1:movesIndex], " ")
		}
	} else {
		return errors.New("unknown position command")
	}
	var p, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	var positions = []common.Position{p}
	if movesIndex >= 0 {
		for _, smove := range fields[movesIndex+1:] {
			var newPos, ok = positions[len(positions)-1].MakeMoveLAN(smove)
			if !ok {
				return fmt.Errorf("parse move failed: %v", smove)
			}
			positions = append(positions, newPos)
		}
	}
	uci.positions = positions
	return nil
}

func (uci *Protocol) goCommand(fields []string) error {
	var searchParams, err = parseSearchParams(fields, uci.positions[len(uci.positions)-1].WhiteMove)
	if err != nil {
		return err
	}
	searchParams.Positions = uci.positions
	var ctx, cancel = context.WithCancel(context.Background())
	var output = make(chan searchEvent, 3)
	searchParams.Progress = func(si engine.SearchInfo) {
		select {
		case output <- searchEvent{info: si}:
		default:
		}
	}
	uci.cancel = cancel
	uci.thinking = true
	uci.engineOutput = output
	go func() {
		defer cancel()
		var searchResult, err = uci.engine.Search(ctx, searchParams)
		output <- searchEvent{info: searchResult, err: err, final: true}
	}()
	return nil
}

func (uci *Protocol) uciNewGameCommand(fields []string) error {
	uci.engine.Clear()
	return nil
}

func searchInfoToUci(si engine.SearchInfo) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v", si.Depth)
	if si.Score.Mate != 0 {
		fmt.Fprintf(sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", si.Score.Centipawns)
	}
	fmt.Fprintf(sb, " nodes %v time %v nps %v hashfull %v",
		si.Nodes, si.Time.Milliseconds(), si.NodesPerSecond(), si.Hashfull)
	if len(si.MainLine) != 0 {
		var moves = lo.Map(si.MainLine, func(move common.Move, _ int) string {
			return move.String()
		})
		fmt.Fprintf(sb, " pv %v", strings.Join(moves, " "))
	}
	return sb.String()
}

// parseSearchParams turns go arguments into limits for the side to move.
func parseSearchParams(args []string, whiteMove bool) (engine.SearchParams, error) {
	var result engine.SearchParams
	var times = make(map[string]int)
	var infinite bool
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			infinite = true
		case "ponder", "searchmoves":
			return result, fmt.Errorf("go %v is not supported", args[i])
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "depth", "nodes", "mate":
			if i+1 >= len(args) {
				return result, fmt.Errorf("go %v: missing value", args[i])
			}
			var v, err = strconv.Atoi(args[i+1])
			if err != nil {
				return result, fmt.Errorf("go %v: %w", args[i], err)
			}
			times[args[i]] = v
			i++
		}
	}

	result.Depth = times["depth"]
	result.Nodes = int64(times["nodes"])
	if mate := times["mate"]; mate > 0 && result.Depth == 0 {
		result.Depth = 2*mate - 1
	}

	var left, inc = times["wtime"], times["winc"]
	var _, hasClock = times["wtime"]
	if !whiteMove {
		left, inc = times["btime"], times["binc"]
		_, hasClock = times["btime"]
	}
	const ms = time.Millisecond
	switch {
	case infinite:
		result.TimeControl = engine.InfiniteTimeControl()
	case times["movetime"] > 0:
		result.TimeControl = engine.MoveTimeControl(time.Duration(times["movetime"]) * ms)
	case hasClock && times["movestogo"] > 0:
		result.TimeControl = engine.TournamentTimeControl(time.Duration(left)*ms, time.Duration(inc)*ms, times["movestogo"])
	case hasClock:
		result.TimeControl = engine.IncrementalTimeControl(time.Duration(left)*ms, time.Duration(inc)*ms)
	default:
		result.TimeControl = engine.InfiniteTimeControl()
	}
	return result, nil
}
