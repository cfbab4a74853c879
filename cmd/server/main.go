package main

import (
	"flag"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"cutplan/internal/api"
	"cutplan/internal/mip"
	"cutplan/internal/model"

	"github.com/rs/zerolog"
)

var (
	validSolvers = []string{"gophersat", "cpsat", "cbc"}
	solvers      = map[string]func() mip.Solver{
		"gophersat": mip.NewGophersatSolver,
		"cpsat":     mip.NewCpsatSolver,
		"cbc":       mip.NewCbcSolver,
	}
)

func main() {
	// Define arguments
	addrPtr := flag.String("addr", ":8080", "Address the http server listens on")
	solverPtr := flag.String("solver", "gophersat", "Solver to use. Allowed values are: \"gophersat\", \"cpsat\", \"cbc\", where \"gophersat\" is the default")
	timeLimitPtr := flag.Duration("time-limit", model.DefaultTimeLimit, "Time limit per solver run applied to every request (e.g. 30s)")
	verbosePtr := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()
	solverStr := strings.ToLower(*solverPtr)

	// Validate arguments
	if !slices.Contains(validSolvers, solverStr) {
		log.Fatalf("%v is not a valid solver", solverStr)
	} else if *timeLimitPtr <= 0 {
		log.Fatalf("time-limit must be positive: %v", *timeLimitPtr)
	}

	logLevel := zerolog.InfoLevel
	if *verbosePtr {
		logLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(logLevel).
		With().Timestamp().Logger()

	server := api.NewServer(solvers[solverStr](), logger)
	server.SetTimeLimit(*timeLimitPtr)

	logger.Info().Str("addr", *addrPtr).Str("solver", solverStr).Dur("time_limit", *timeLimitPtr).Msg("starting server")
	if err := server.Router().Run(*addrPtr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
