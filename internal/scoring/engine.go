package scoring

import (
	"errors"
	"maps"
	"slices"

	"github.com/dotcommander/scorecard/internal/quiz"
)

// Engine turns answers into a ScoreResult against a fixed catalog.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog        *quiz.Catalog
	strict         bool
	priorityCount  int
	readyThreshold int
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrict makes Calculate reject unknown question IDs and scores that match
// no option instead of tolerating them.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithPriorityCount sets how many weak dimensions are reported as priorities.
func WithPriorityCount(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.priorityCount = n
		}
	}
}

// WithReadyThreshold sets the target score used to compute gaps.
func WithReadyThreshold(target int) Option {
	return func(e *Engine) {
		e.readyThreshold = clampPercent(target)
	}
}

// NewEngine creates an Engine over catalog. A nil catalog selects quiz.Default().
func NewEngine(catalog *quiz.Catalog, opts ...Option) *Engine {
	if catalog == nil {
		catalog = quiz.Default()
	}
	e := &Engine{
		catalog:        catalog,
		priorityCount:  DefaultPriorityCount,
		readyThreshold: quiz.ReadyThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine scores against.
func (e *Engine) Catalog() *quiz.Catalog {
	return e.catalog
}

// Strict reports whether the engine validates answers before scoring.
func (e *Engine) Strict() bool {
	return e.strict
}

// Calculate scores answers. In tolerant mode (the default) it never fails.
// In strict mode it returns the Validate error and an empty result.
func (e *Engine) Calculate(answers quiz.Answers) (ScoreResult, error) {
	if e.strict {
		if err := e.Validate(answers); err != nil {
			return ScoreResult{}, err
		}
	}

	c := e.catalog
	priority := c.Priority()

	// === NORMALIZE ===
	breakdown := NormalizeDimensions(c.Questions(), priority, answers)
	normalized := Normalized(breakdown)

	// === AGGREGATE ===
	overall := OverallScore(normalized, c.Weights())

	// === CLASSIFY ===
	band := ClassifyBand(overall, c.Bands(), c.DefaultBand())
	var segmentQuestion *quiz.Question
	if q, ok := c.SegmentQuestion(); ok {
		segmentQuestion = &q
	}
	segment := ResolveSegment(segmentQuestion, answers, c.DefaultSegment())

	// === EXTREMES ===
	strongest, weakest := FindExtremes(normalized, priority)

	raw := make(map[quiz.Dimension]int, len(breakdown))
	ceilings := make(map[quiz.Dimension]int, len(breakdown))
	for _, s := range breakdown {
		raw[s.Dimension] = s.Raw
		ceilings[s.Dimension] = s.Max
	}

	return ScoreResult{
		OverallScore:       overall,
		DimensionScores:    normalized,
		RawScores:          raw,
		MaxScores:          ceilings,
		Breakdown:          breakdown,
		Band:               band,
		Segment:            segment,
		StrongestDimension: strongest,
		WeakestDimension:   weakest,
		Gaps:               Gaps(normalized, priority, e.readyThreshold),
		Priorities:         Priorities(normalized, c, e.priorityCount),
	}, nil
}

// Validate checks answers against the catalog. Each unknown question yields an
// *UnknownQuestionError and each off-catalog score an *InvalidScoreError; all
// problems are joined, in question ID order.
func (e *Engine) Validate(answers quiz.Answers) error {
	var errs []error
	for _, id := range slices.Sorted(maps.Keys(answers)) {
		q, ok := e.catalog.Question(id)
		if !ok {
			errs = append(errs, &UnknownQuestionError{QuestionID: id})
			continue
		}
		score := answers[id]
		if _, ok := q.OptionForScore(score); !ok {
			allowed := make([]int, 0, len(q.Options))
			for _, opt := range q.Options {
				allowed = append(allowed, opt.Score)
			}
			errs = append(errs, &InvalidScoreError{QuestionID: id, Score: score, Allowed: allowed})
		}
	}
	return errors.Join(errs...)
}

var defaultEngine = NewEngine(nil)

// CalculateResults scores answers against the default catalog in tolerant mode.
func CalculateResults(answers quiz.Answers) ScoreResult {
	result, _ := defaultEngine.Calculate(answers)
	return result
}
