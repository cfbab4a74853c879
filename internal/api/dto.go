package api

import (
	"errors"
	"fmt"

	"cutplan/internal/model"
)

// ItemRequest is one order or stock entry of the optimize payload.
type ItemRequest struct {
	Code     string `json:"code"`
	Length   int    `json:"length"`
	Quantity int    `json:"quantity"`
	Priority int    `json:"priority"`
}

// SheetRequest describes the sheet to cut.
type SheetRequest struct {
	Width     int    `json:"width"`
	Length    int    `json:"length"`
	Thickness int    `json:"thickness"`
	Material  string `json:"material"`
}

// OptimizeRequest is the optimize endpoint payload. MinUtilization is a
// pointer so an absent field defaults to 0.95 while an explicit 0 is
// rejected by validation.
type OptimizeRequest struct {
	OrderItems     []ItemRequest `json:"order_items"`
	StockItems     []ItemRequest `json:"stock_items"`
	Sheet          SheetRequest  `json:"sheet"`
	MinUtilization *float64      `json:"min_utilization"`
	MaxSolutions   int           `json:"max_solutions"`
}

var (
	errEmptyOrder         = errors.New("order item list is empty")
	errUtilizationRange   = errors.New("minimum utilization must be between 0.5 and 1.0")
	errInvalidSheet       = errors.New("sheet width must be positive")
	errNoViableSolution   = errors.New("no viable solution found for the given constraints")
	errMaxSolutionsRange  = errors.New("max solutions must be positive")
	errInvalidItemFigures = errors.New("item lengths and quantities must be positive")
)

// minUtilization resolves the effective threshold, defaulting to 0.95.
func (r OptimizeRequest) minUtilization() float64 {
	if r.MinUtilization == nil {
		return 0.95
	}
	return *r.MinUtilization
}

// maxSolutions resolves the effective solution cap, defaulting to 5.
func (r OptimizeRequest) maxSolutions() int {
	if r.MaxSolutions == 0 {
		return 5
	}
	return r.MaxSolutions
}

// Validate rejects requests before the core is ever invoked, so the
// optimizer never has to re-check them. Both entry points share it: the
// handler calls it on the decoded body, the CLI on the converted file
// request.
func (r OptimizeRequest) Validate() error {
	if len(r.OrderItems) == 0 {
		return errEmptyOrder
	}
	if utilization := r.minUtilization(); utilization < 0.5 || utilization > 1.0 {
		return errUtilizationRange
	}
	if r.Sheet.Width <= 0 {
		return errInvalidSheet
	}
	if r.MaxSolutions < 0 {
		return errMaxSolutionsRange
	}
	codes := make(map[string]struct{}, len(r.OrderItems)+len(r.StockItems))
	for _, item := range append(append([]ItemRequest{}, r.OrderItems...), r.StockItems...) {
		if item.Length <= 0 || item.Quantity <= 0 {
			return errInvalidItemFigures
		}
		if _, duplicated := codes[item.Code]; duplicated {
			return fmt.Errorf("duplicated item code %q", item.Code)
		}
		codes[item.Code] = struct{}{}
	}
	return nil
}

// FromFileRequest shapes a decoded request file into the endpoint payload.
func FromFileRequest(request model.Request) OptimizeRequest {
	convert := func(inputs []model.ItemInput) []ItemRequest {
		items := make([]ItemRequest, 0, len(inputs))
		for _, input := range inputs {
			items = append(items, ItemRequest{
				Code:     input.Code,
				Length:   input.Length,
				Quantity: input.Quantity,
				Priority: input.Priority,
			})
		}
		return items
	}
	minUtilization := request.MinUtilization
	return OptimizeRequest{
		OrderItems: convert(request.OrderItems),
		StockItems: convert(request.StockItems),
		Sheet: SheetRequest{
			Width:     request.Sheet.Width,
			Length:    request.Sheet.Length,
			Thickness: request.Sheet.Thickness,
			Material:  request.Sheet.Material,
		},
		MinUtilization: &minUtilization,
		MaxSolutions:   request.MaxSolutions,
	}
}

// buildSheet converts the payload sheet into its domain value.
func (r OptimizeRequest) buildSheet() model.Sheet {
	return model.Sheet{
		Width:     r.Sheet.Width,
		Length:    r.Sheet.Length,
		Thickness: r.Sheet.Thickness,
		Material:  r.Sheet.Material,
	}
}

// buildItems converts the payload entries into domain items.
func (r OptimizeRequest) buildItems() (orderItems, stockItems []model.Item) {
	convert := func(requests []ItemRequest, kind model.ItemKind) []model.Item {
		items := make([]model.Item, 0, len(requests))
		for _, request := range requests {
			items = append(items, model.Item{
				Code:     request.Code,
				Length:   request.Length,
				MaxWidth: r.Sheet.Width,
				Quantity: request.Quantity,
				Kind:     kind,
				Priority: request.Priority,
			})
		}
		return items
	}
	return convert(r.OrderItems, model.KindOrder), convert(r.StockItems, model.KindStock)
}

// PatternResponse summarizes one pattern of a solution.
type PatternResponse struct {
	PatternNumber int      `json:"pattern_number"`
	Items         []string `json:"items"`
	Quantities    []int    `json:"quantities"`
	Utilization   string   `json:"utilization"`
	Width         int      `json:"width"`
	Use           int      `json:"use"`
}

// SolutionResponse is one ranked cutting plan of the optimize response.
type SolutionResponse struct {
	Rank            int               `json:"rank"`
	Utilization     string            `json:"utilization"`
	SheetsNecessary int               `json:"sheets_necessary"`
	Patterns        []PatternResponse `json:"patterns"`
	Strategy        string            `json:"strategy"`
	ElapsedMs       float64           `json:"elapsed_ms"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// percentage renders a fraction with two decimal places, e.g. "97.50%".
func percentage(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// ToSolutionResponses shapes ranked solutions into their transport form.
func ToSolutionResponses(solutions []model.Solution) []SolutionResponse {
	responses := make([]SolutionResponse, 0, len(solutions))
	for _, solution := range solutions {
		patterns := make([]PatternResponse, 0, len(solution.Patterns))
		for i, use := range solution.Patterns {
			codes := make([]string, 0, len(use.Pattern.Items))
			for _, item := range use.Pattern.Items {
				codes = append(codes, item.Code)
			}
			patterns = append(patterns, PatternResponse{
				PatternNumber: i + 1,
				Items:         codes,
				Quantities:    use.Pattern.Counts,
				Utilization:   percentage(use.Pattern.Utilization()),
				Width:         use.Pattern.Width(),
				Use:           use.Use,
			})
		}
		responses = append(responses, SolutionResponse{
			Rank:            solution.Rank,
			Utilization:     percentage(solution.Utilization),
			SheetsNecessary: solution.Sheets,
			Patterns:        patterns,
			Strategy:        solution.Strategy.String(),
			ElapsedMs:       float64(solution.Elapsed.Microseconds()) / 1000,
		})
	}
	return responses
}
