package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dotcommander/scorecard/internal/analytics"
	"github.com/dotcommander/scorecard/internal/lead"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
)

// ResultRequest is the body of POST /api/results.
type ResultRequest struct {
	LeadID  string       `json:"leadId"`
	PageID  string       `json:"pageId"`
	Answers quiz.Answers `json:"answers" binding:"required"`
}

// ResultResponse is the body returned by POST /api/results.
type ResultResponse struct {
	ID               string                 `json:"id"`
	OverallBenchmark int                    `json:"overallBenchmark"`
	Benchmarks       map[quiz.Dimension]int `json:"benchmarks"`
	Result           scoring.ScoreResult    `json:"result"`
}

// ErrorResponse is the body of every 4xx reply.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Catalog().Definition())
}

func (s *Server) handleBands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"bands":       s.engine.Catalog().Bands(),
		"defaultBand": s.engine.Catalog().DefaultBand().Name,
	})
}

func (s *Server) handleLead(c *gin.Context) {
	var l lead.Lead
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lead", Details: []string{err.Error()}})
		return
	}
	l = l.Normalize()
	if err := l.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lead", Details: details(err)})
		return
	}

	id := uuid.NewString()
	if s.dispatcher != nil {
		s.dispatcher.LeadCaptured(id, l)
	}
	s.metrics.RecordLead()

	props := map[string]any{"lead_source": l.Source}
	if l.Turnover != "" {
		props["turnover"] = l.Turnover
	}
	if l.UTM != nil {
		props["utm_source"] = l.UTM.Source
		props["utm_medium"] = l.UTM.Medium
		props["utm_campaign"] = l.UTM.Campaign
	}
	s.capture(c, id, analytics.EventLeadCaptured, props)

	s.logger.InfoContext(c.Request.Context(), "lead captured", "lead_id", id, "lead_source", l.Source)
	c.JSON(http.StatusAccepted, gin.H{"id": id})
}

func (s *Server) handleResult(c *gin.Context) {
	var req ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: []string{err.Error()}})
		return
	}

	_, span := s.tracer.Start(c.Request.Context(), "scoring.calculate")
	result, err := s.engine.Calculate(req.Answers)
	span.SetAttributes(
		attribute.Int("answers", len(req.Answers)),
		attribute.Int("overall_score", result.OverallScore),
	)
	span.End()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid answers", Details: details(err)})
		return
	}

	id := req.LeadID
	if id == "" {
		id = uuid.NewString()
	}
	if s.dispatcher != nil {
		s.dispatcher.QuizCompleted(req.LeadID, req.PageID, result)
	}
	s.metrics.RecordResult(result.OverallScore, result.Band.Name, string(result.Segment))
	s.capture(c, id, analytics.EventQuizCompleted, analytics.ResultProperties(result))

	s.logger.InfoContext(c.Request.Context(), "quiz completed",
		"id", id, "score", result.OverallScore, "band", result.Band.Name, "segment", result.Segment)

	catalog := s.engine.Catalog()
	benchmarks := make(map[quiz.Dimension]int, len(catalog.Priority()))
	for _, d := range catalog.Priority() {
		benchmarks[d] = catalog.Benchmark(d)
	}
	c.JSON(http.StatusOK, ResultResponse{
		ID:               id,
		OverallBenchmark: catalog.OverallBenchmark(),
		Benchmarks:       benchmarks,
		Result:           result,
	})
}

// capture records an analytics event. Failures are logged, never returned.
func (s *Server) capture(c *gin.Context, id, event string, props map[string]any) {
	if err := s.analytics.Capture(c.Request.Context(), id, event, props); err != nil {
		s.logger.WarnContext(c.Request.Context(), "analytics capture failed", "event", event, "error", err)
	}
}

// details splits a joined error into one message per cause.
func details(err error) []string {
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range multi.Unwrap() {
			out = append(out, details(e)...)
		}
		return out
	}
	return []string{strings.TrimSpace(err.Error())}
}
