package api

import (
	"net/http"
	"time"

	"cutplan/internal/mip"
	"cutplan/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Server exposes the optimization core over HTTP. Every request runs under
// the configured per-strategy deadline, so a diverging solve times out and
// is skipped instead of holding the connection open.
type Server struct {
	solver    mip.Solver
	timeLimit time.Duration
	log       zerolog.Logger
}

func NewServer(solver mip.Solver, log zerolog.Logger) *Server {
	return &Server{solver: solver, timeLimit: model.DefaultTimeLimit, log: log}
}

// SetTimeLimit replaces the default per-strategy deadline applied to every
// request; zero falls back to the optimizer default.
func (s *Server) SetTimeLimit(limit time.Duration) {
	s.timeLimit = limit
}

// Router builds the gin engine with the optimize and health endpoints.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestID())
	router.POST("/optimize", s.handleOptimize)
	router.GET("/health", s.handleHealth)
	return router
}

// requestID stamps every request with a correlation id, echoed in the
// response headers and attached to the request-scoped logger.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

func (s *Server) requestLogger(c *gin.Context) zerolog.Logger {
	return s.log.With().Str("request_id", c.GetString("request_id")).Logger()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleOptimize(c *gin.Context) {
	log := s.requestLogger(c)

	var request OptimizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	orderItems, stockItems := request.buildItems()
	log.Info().
		Int("order_items", len(orderItems)).
		Int("stock_items", len(stockItems)).
		Float64("min_utilization", request.minUtilization()).
		Msg("starting optimization")

	optimizer := model.NewOptimizer(request.buildSheet(), request.minUtilization(), s.solver, log)
	if s.timeLimit > 0 {
		optimizer.SetTimeLimit(s.timeLimit)
	}
	solutions, err := optimizer.Optimize(orderItems, stockItems, request.maxSolutions())
	if err != nil {
		log.Error().Err(err).Msg("optimization failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error while optimizing"})
		return
	}

	if len(solutions) == 0 || solutions[0].Empty() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errNoViableSolution.Error()})
		return
	}

	log.Info().Int("solutions", len(solutions)).Dur("elapsed", solutions[0].Elapsed).Msg("optimization finished")
	c.JSON(http.StatusOK, ToSolutionResponses(solutions))
}
