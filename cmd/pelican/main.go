package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/pelicanchess/pelican/pkg/engine"
	"github.com/pelicanchess/pelican/pkg/eval"
	"github.com/pelicanchess/pelican/pkg/uci"
)

const (
	name   = "Pelican"
	author = "Pelican authors"
)

var (
	versionName = "dev"
	buildDate   = "(null)"
	gitRevision = "(null)"
	flgEval     string
	flgHashFile string
)

func main() {
	flag.StringVar(&flgEval, "eval", "", "evaluation function")
	flag.StringVar(&flgHashFile, "hashfile", "", "load and save the transposition table at this path")
	flag.Parse()

	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	logger.Info().
		Str("versionName", versionName).
		Str("buildDate", buildDate).
		Str("gitRevision", gitRevision).
		Str("runtimeVersion", runtime.Version()).
		Str("goarch", runtime.GOARCH).
		Str("goos", runtime.GOOS).
		Int("numCPU", runtime.NumCPU()).
		Msg(name)

	var builder = evalBuilder(flgEval)
	if builder == nil {
		logger.Fatal().Str("eval", flgEval).Msg("unknown evaluation function")
	}
	var eng = engine.NewEngine(builder)

	if flgHashFile != "" {
		if err := eng.LoadHash(flgHashFile); err != nil {
			if !os.IsNotExist(err) {
				logger.Warn().Err(err).Str("path", flgHashFile).Msg("load hash file failed")
			}
		} else {
			logger.Info().Str("path", flgHashFile).Msg("hash file loaded")
		}
	}

	var protocol = uci.New(name, author, versionName, eng,
		[]uci.Option{
			&uci.IntOption{Name: "Hash", Min: 4, Max: 1 << 16, Value: &eng.Hash},
			&uci.IntOption{Name: "Threads", Min: 1, Max: runtime.NumCPU(), Value: &eng.Threads},
			&uci.IntOption{Name: "PawnHash", Min: 1, Max: 64, Value: &eng.PawnHash},
			&uci.BoolOption{Name: "NullMove", Value: &eng.NullMove},
		},
	)
	protocol.Run(logger)

	if flgHashFile != "" {
		if err := eng.SaveHash(flgHashFile); err != nil {
			logger.Warn().Err(err).Str("path", flgHashFile).Msg("save hash file failed")
		}
	}
}

func evalBuilder(name string) func() engine.Evaluator {
	switch name {
	case "", "classic":
		return func() engine.Evaluator {
			return eval.NewEvaluationService()
		}
	}
	return nil
}
