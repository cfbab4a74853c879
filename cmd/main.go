package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"cutplan/internal/mip"
	"cutplan/internal/model"

	"github.com/rs/zerolog"
)

func main() {
	sheet := model.Sheet{Width: 1200, Length: 2400, Thickness: 18, Material: "MDF"}

	orderItems := []model.Item{
		{Code: "A-200", Length: 200, MaxWidth: 2400, Quantity: 5, Kind: model.KindOrder},
		{Code: "B-300", Length: 300, MaxWidth: 2400, Quantity: 3, Kind: model.KindOrder},
		{Code: "C-150", Length: 150, MaxWidth: 2400, Quantity: 8, Kind: model.KindOrder},
	}
	stockItems := []model.Item{
		{Code: "S-250", Length: 250, MaxWidth: 2400, Quantity: 10, Kind: model.KindStock},
		{Code: "S-400", Length: 400, MaxWidth: 2400, Quantity: 6, Kind: model.KindStock},
		{Code: "S-120", Length: 120, MaxWidth: 2400, Quantity: 15, Kind: model.KindStock},
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	solver := mip.NewGophersatSolver()
	// solver := mip.NewCpsatSolver()
	// solver := mip.NewCbcSolver()
	optimizer := model.NewOptimizer(sheet, 0.95, solver, logger)

	solutions, err := optimizer.Optimize(orderItems, stockItems, 5)
	if err != nil {
		log.Fatal(err)
	} else if len(solutions) == 0 || solutions[0].Empty() {
		fmt.Println("No viable solution")
		return
	}

	for _, solution := range solutions {
		fmt.Printf("Solution %v (%v): utilization %.2f%%, %v sheets\n",
			solution.Rank, solution.Strategy, solution.Utilization*100, solution.Sheets)
		for i, use := range solution.Patterns {
			fmt.Printf("  Pattern %v (x%v):", i+1, use.Use)
			for j, item := range use.Pattern.Items {
				fmt.Printf(" %vx%v", use.Pattern.Counts[j], item.Code)
			}
			fmt.Printf(" | width %v, utilization %.2f%%\n", use.Pattern.Width(), use.Pattern.Utilization()*100)
		}
		for code, quantity := range solution.Covered {
			fmt.Printf("  Covered %v: %v\n", code, quantity)
		}
	}

	fmt.Println("Well done!")
}
