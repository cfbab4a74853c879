package model

import (
	"encoding/json"
	"os"

	"github.com/mitchellh/mapstructure"
)

// ItemInput is one item entry of an optimization request file.
type ItemInput struct {
	Code     string `mapstructure:"code"`
	Length   int    `mapstructure:"length"`
	Quantity int    `mapstructure:"quantity"`
	Priority int    `mapstructure:"priority"`
}

// SheetInput describes the sheet of an optimization request file.
type SheetInput struct {
	Width     int    `mapstructure:"width"`
	Length    int    `mapstructure:"length"`
	Thickness int    `mapstructure:"thickness"`
	Material  string `mapstructure:"material"`
}

// Request is a full optimization request as read from a JSON file.
type Request struct {
	OrderItems     []ItemInput `mapstructure:"order_items"`
	StockItems     []ItemInput `mapstructure:"stock_items"`
	Sheet          SheetInput  `mapstructure:"sheet"`
	MinUtilization float64     `mapstructure:"min_utilization"`
	MaxSolutions   int         `mapstructure:"max_solutions"`
}

// RequestFromJson reads and decodes a request file, applying the caller
// defaults (minimum utilization 0.95, up to 5 solutions) for absent fields.
func RequestFromJson(file string) (Request, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Request{}, err
	}
	var requestJson map[string]any
	if err := json.Unmarshal(bytes, &requestJson); err != nil {
		return Request{}, err
	}

	var request Request
	if err := mapstructure.Decode(requestJson, &request); err != nil {
		return Request{}, err
	}

	if request.MinUtilization == 0 {
		request.MinUtilization = 0.95
	}
	if request.MaxSolutions == 0 {
		request.MaxSolutions = 5
	}
	return request, nil
}

// BuildSheet converts the sheet entry into its domain value.
func (r Request) BuildSheet() Sheet {
	return Sheet{
		Width:     r.Sheet.Width,
		Length:    r.Sheet.Length,
		Thickness: r.Sheet.Thickness,
		Material:  r.Sheet.Material,
	}
}

// Items converts the request entries into domain items, stamping the kind
// and the search-bounding sheet width.
func (r Request) Items() (orderItems, stockItems []Item) {
	convert := func(inputs []ItemInput, kind ItemKind) []Item {
		items := make([]Item, 0, len(inputs))
		for _, input := range inputs {
			items = append(items, Item{
				Code:     input.Code,
				Length:   input.Length,
				MaxWidth: r.Sheet.Width,
				Quantity: input.Quantity,
				Kind:     kind,
				Priority: input.Priority,
			})
		}
		return items
	}
	return convert(r.OrderItems, KindOrder), convert(r.StockItems, KindStock)
}
