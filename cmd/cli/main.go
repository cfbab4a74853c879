package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"cutplan/internal/api"
	"cutplan/internal/export"
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
	filePathPtr := flag.String("file", "", "Path to the input json file")
	solverPtr := flag.String("solver", "gophersat", "Solver to use. Allowed values are: \"gophersat\", \"cpsat\", \"cbc\", where \"gophersat\" is the default")
	outFilePathPtr := flag.String("out", "", "Path to the file where the json output will be written; if empty, it'll be written into the Standard Output")
	xlsxPathPtr := flag.String("xlsx", "", "Path to an xlsx workbook to write the cutting plan into; if empty, no workbook is written")
	pdfPathPtr := flag.String("pdf", "", "Path to a pdf report to write the cutting plan into; if empty, no report is written")
	timeLimitPtr := flag.Duration("time-limit", 0, "Time limit per solver run (e.g. 30s); 0 keeps the 30s default")
	verbosePtr := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()
	filePath := *filePathPtr
	solverStr := strings.ToLower(*solverPtr)
	outFile := *outFilePathPtr

	// Validate arguments
	if filePath == "" {
		log.Fatal("an input file must be specified")
	} else if !slices.Contains(validSolvers, solverStr) {
		log.Fatalf("%v is not a valid solver", solverStr)
	} else if *timeLimitPtr < 0 {
		log.Fatalf("time-limit must not be negative: %v", *timeLimitPtr)
	}

	logLevel := zerolog.InfoLevel
	if *verbosePtr {
		logLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(logLevel).
		With().Timestamp().Logger()

	// Extract input
	request, err := model.RequestFromJson(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}
	if err := api.FromFileRequest(request).Validate(); err != nil {
		log.Fatalf("invalid request file: %v", err)
	}
	sheet := request.BuildSheet()
	orderItems, stockItems := request.Items()

	// Initialize engines
	solver := solvers[solverStr]()
	optimizer := model.NewOptimizer(sheet, request.MinUtilization, solver, logger)
	if *timeLimitPtr > 0 {
		optimizer.SetTimeLimit(*timeLimitPtr)
	}

	// Optimize
	solutions, err := optimizer.Optimize(orderItems, stockItems, request.MaxSolutions)
	if err != nil {
		log.Fatalf("an error occurred during optimization: %v", err)
	} else if len(solutions) == 0 || solutions[0].Empty() {
		fmt.Println("No viable solution")
		os.Exit(20)
	}

	// Marshal output into json
	responses := api.ToSolutionResponses(solutions)
	output, err := json.MarshalIndent(responses, "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(output))
	} else {
		err := os.WriteFile(outFile, output, 0666)
		if err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}

	if *xlsxPathPtr != "" {
		if err := export.WriteWorkbook(*xlsxPathPtr, sheet, solutions); err != nil {
			log.Fatalf("an error occurred while writing the xlsx workbook: %v", err)
		}
	}
	if *pdfPathPtr != "" {
		if err := export.WriteReport(*pdfPathPtr, sheet, solutions); err != nil {
			log.Fatalf("an error occurred while writing the pdf report: %v", err)
		}
	}
}
