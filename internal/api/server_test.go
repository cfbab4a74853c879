package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cutplan/internal/mip"
	"cutplan/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() http.Handler {
	return NewServer(mip.NewGophersatSolver(), zerolog.Nop()).Router()
}

func postOptimize(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	assert.Nil(t, err)

	request := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	newTestRouter().ServeHTTP(recorder, request)
	return recorder
}

func TestHealth(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	newTestRouter().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestOptimizeRejectsEmptyOrderList(t *testing.T) {
	body := OptimizeRequest{
		Sheet: SheetRequest{Width: 1200, Length: 6000, Thickness: 2, Material: "steel"},
	}

	recorder := postOptimize(t, body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "order item list is empty")
}

func TestOptimizeRejectsUtilizationOutOfRange(t *testing.T) {
	utilization := 0.3
	body := OptimizeRequest{
		OrderItems:     []ItemRequest{{Code: "ITEM_A", Length: 600, Quantity: 2}},
		Sheet:          SheetRequest{Width: 1200},
		MinUtilization: &utilization,
	}

	recorder := postOptimize(t, body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "between 0.5 and 1.0")
}

func TestOptimizeRejectsDuplicatedCodes(t *testing.T) {
	body := OptimizeRequest{
		OrderItems: []ItemRequest{{Code: "ITEM_A", Length: 600, Quantity: 2}},
		StockItems: []ItemRequest{{Code: "ITEM_A", Length: 250, Quantity: 10}},
		Sheet:      SheetRequest{Width: 1200},
	}

	recorder := postOptimize(t, body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "duplicated item code")
}

func TestOptimizeReturnsRankedSolutions(t *testing.T) {
	// Arrange
	body := OptimizeRequest{
		OrderItems: []ItemRequest{{Code: "ITEM_A", Length: 600, Quantity: 2}},
		Sheet:      SheetRequest{Width: 1200, Length: 6000, Thickness: 2, Material: "steel"},
	}

	// Act
	recorder := postOptimize(t, body)

	// Assert
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	var solutions []SolutionResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &solutions))
	assert.NotEmpty(t, solutions)
	assert.Equal(t, 1, solutions[0].Rank)
	assert.Equal(t, "100.00%", solutions[0].Utilization)
	assert.Equal(t, 1, solutions[0].SheetsNecessary)
	assert.Len(t, solutions[0].Patterns, 1)
	assert.Equal(t, []string{"ITEM_A"}, solutions[0].Patterns[0].Items)
	assert.Equal(t, []int{2}, solutions[0].Patterns[0].Quantities)
	assert.Equal(t, 1200, solutions[0].Patterns[0].Width)
}

func TestOptimizeRespectsMaxSolutions(t *testing.T) {
	body := OptimizeRequest{
		OrderItems:   []ItemRequest{{Code: "ITEM_A", Length: 600, Quantity: 2}},
		Sheet:        SheetRequest{Width: 1200},
		MaxSolutions: 1,
	}

	recorder := postOptimize(t, body)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var solutions []SolutionResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &solutions))
	assert.Len(t, solutions, 1)
}

func TestOptimizeMixedOrderAndStockRequest(t *testing.T) {
	// The full mixed order/stock payload completes under the server's
	// default per-strategy deadline and yields a ranked list.
	body := OptimizeRequest{
		OrderItems: []ItemRequest{
			{Code: "ITEM_A", Length: 200, Quantity: 5},
			{Code: "ITEM_B", Length: 300, Quantity: 3},
			{Code: "ITEM_C", Length: 150, Quantity: 8},
		},
		StockItems: []ItemRequest{
			{Code: "STOCK_001", Length: 250, Quantity: 100},
			{Code: "STOCK_002", Length: 400, Quantity: 50},
			{Code: "STOCK_003", Length: 120, Quantity: 80},
		},
		Sheet: SheetRequest{Width: 1200, Length: 6000, Thickness: 2, Material: "steel"},
	}

	recorder := postOptimize(t, body)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var solutions []SolutionResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &solutions))
	assert.NotEmpty(t, solutions)
	assert.Equal(t, 1, solutions[0].Rank)
}

// timingOutSolver records the deadline each submitted program carries and
// reports a timeout for all of them.
type timingOutSolver struct {
	limits []time.Duration
}

func (s *timingOutSolver) Solve(program mip.Program) (mip.Result, error) {
	s.limits = append(s.limits, program.TimeLimit)
	return mip.Result{Status: mip.StatusTimeout}, nil
}

func TestOptimizeTimeLimitBoundsEveryStrategy(t *testing.T) {
	// Arrange: every strategy times out; the request must still terminate
	// with the no-viable-solution error, and every submitted program must
	// carry the server's configured deadline.
	solver := &timingOutSolver{}
	server := NewServer(solver, zerolog.Nop())
	server.SetTimeLimit(3 * time.Second)
	body := OptimizeRequest{
		OrderItems: []ItemRequest{{Code: "ITEM_A", Length: 600, Quantity: 2}},
		Sheet:      SheetRequest{Width: 1200},
	}
	payload, err := json.Marshal(body)
	assert.Nil(t, err)

	// Act
	request := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, request)

	// Assert
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "no viable solution")
	assert.NotEmpty(t, solver.limits)
	for _, limit := range solver.limits {
		assert.Equal(t, 3*time.Second, limit)
	}
}

func TestFromFileRequestValidation(t *testing.T) {
	// The CLI's file requests go through the same validation as the
	// endpoint payloads.
	fileRequest := model.Request{
		OrderItems:     []model.ItemInput{{Code: "ITEM_A", Length: 600, Quantity: 2}},
		Sheet:          model.SheetInput{Width: 1200},
		MinUtilization: 0.2,
		MaxSolutions:   5,
	}

	err := FromFileRequest(fileRequest).Validate()
	assert.ErrorIs(t, err, errUtilizationRange)

	fileRequest.MinUtilization = 0.95
	assert.Nil(t, FromFileRequest(fileRequest).Validate())
}

func TestOptimizeNoViableSolution(t *testing.T) {
	// 333 never tiles 1000 exactly, so the core reports total infeasibility.
	utilization := 1.0
	body := OptimizeRequest{
		OrderItems:     []ItemRequest{{Code: "ITEM_A", Length: 333, Quantity: 4}},
		Sheet:          SheetRequest{Width: 1000},
		MinUtilization: &utilization,
	}

	recorder := postOptimize(t, body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "no viable solution")
}
