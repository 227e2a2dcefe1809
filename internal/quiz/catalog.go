package quiz

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Definition is the declarative, serializable form of a catalog.
// It is what catalog files decode into before New validates it.
type Definition struct {
	Questions        []Question                   `json:"questions" yaml:"questions"`
	Weights          DimensionWeights             `json:"weights" yaml:"weights"`
	Priority         []Dimension                  `json:"priority" yaml:"priority"`
	Bands            []Band                       `json:"bands" yaml:"bands"`
	DefaultBand      string                       `json:"defaultBand" yaml:"defaultBand"`
	DefaultSegment   Segment                      `json:"defaultSegment,omitempty" yaml:"defaultSegment,omitempty"`
	Recommendations  map[Dimension]Recommendation `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	Benchmarks       map[Dimension]int            `json:"benchmarks,omitempty" yaml:"benchmarks,omitempty"`
	OverallBenchmark int                          `json:"overallBenchmark,omitempty" yaml:"overallBenchmark,omitempty"`
}

// Catalog is the immutable question set together with its weighting,
// tie-break priority and score bands. A Catalog is safe for concurrent use.
type Catalog struct {
	questions       []Question
	byID            map[string]int
	segmentIndex    int
	weights         DimensionWeights
	priority        []Dimension
	bands           []Band
	defaultBand     Band
	defaultSegment  Segment
	recommendations map[Dimension]Recommendation
	benchmarks      map[Dimension]int
	overall         int
}

// ErrInvalidCatalog wraps every structural problem reported by New.
var ErrInvalidCatalog = errors.New("invalid catalog")

// New validates def and builds a Catalog from a deep copy of it.
func New(def Definition) (*Catalog, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}

	c := &Catalog{
		questions:       cloneQuestions(def.Questions),
		byID:            make(map[string]int, len(def.Questions)),
		segmentIndex:    -1,
		weights:         maps.Clone(def.Weights),
		priority:        slices.Clone(def.Priority),
		bands:           slices.Clone(def.Bands),
		defaultSegment:  def.DefaultSegment,
		recommendations: maps.Clone(def.Recommendations),
		benchmarks:      maps.Clone(def.Benchmarks),
		overall:         def.OverallBenchmark,
	}
	if c.defaultSegment == "" {
		c.defaultSegment = SegmentExploring
	}
	for i, q := range c.questions {
		c.byID[q.ID] = i
		if q.Segment {
			c.segmentIndex = i
		}
	}
	for _, b := range c.bands {
		if b.Name == def.DefaultBand {
			c.defaultBand = b
			break
		}
	}
	return c, nil
}

// MustNew is like New but panics on an invalid definition.
// It is meant for compiled-in catalogs.
func MustNew(def Definition) *Catalog {
	c, err := New(def)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks the catalog invariants: unique question IDs, every question
// owned by a prioritized dimension, every prioritized dimension owning at least
// one question, at most one segment question, non-negative scores and weights,
// and bands that partition [0,100] with a resolvable default band.
func Validate(def Definition) error {
	var errs []error

	if len(def.Questions) == 0 {
		errs = append(errs, errors.New("catalog has no questions"))
	}
	if len(def.Priority) == 0 {
		errs = append(errs, errors.New("priority order is empty"))
	}

	inPriority := make(map[Dimension]bool, len(def.Priority))
	for _, d := range def.Priority {
		if inPriority[d] {
			errs = append(errs, fmt.Errorf("dimension %q appears twice in priority order", d))
		}
		inPriority[d] = true
	}

	seen := make(map[string]bool, len(def.Questions))
	owned := make(map[Dimension]int)
	segmentQuestions := 0
	for _, q := range def.Questions {
		if q.ID == "" {
			errs = append(errs, errors.New("question with empty id"))
		} else if seen[q.ID] {
			errs = append(errs, fmt.Errorf("duplicate question id %q", q.ID))
		}
		seen[q.ID] = true

		if !inPriority[q.Dimension] {
			errs = append(errs, fmt.Errorf("question %q: dimension %q is not in the priority order", q.ID, q.Dimension))
		}
		owned[q.Dimension]++

		if len(q.Options) == 0 {
			errs = append(errs, fmt.Errorf("question %q has no options", q.ID))
		}
		for _, opt := range q.Options {
			if opt.Score < 0 {
				errs = append(errs, fmt.Errorf("question %q: option %q has negative score %d", q.ID, opt.Label, opt.Score))
			}
			if opt.Segment != "" && !q.Segment {
				errs = append(errs, fmt.Errorf("question %q: option %q carries a segment but the question is not the segment question", q.ID, opt.Label))
			}
			if opt.Segment != "" && !opt.Segment.Valid() {
				errs = append(errs, fmt.Errorf("question %q: unknown segment %q", q.ID, opt.Segment))
			}
		}

		if q.Segment {
			segmentQuestions++
			// Segment lookup is by score, so the scores must identify a single option.
			scores := make(map[int]bool, len(q.Options))
			for _, opt := range q.Options {
				if scores[opt.Score] {
					errs = append(errs, fmt.Errorf("segment question %q: score %d is shared by several options", q.ID, opt.Score))
				}
				scores[opt.Score] = true
			}
		}
	}
	if segmentQuestions > 1 {
		errs = append(errs, fmt.Errorf("catalog has %d segment questions, at most one is allowed", segmentQuestions))
	}

	for _, d := range def.Priority {
		if owned[d] == 0 {
			errs = append(errs, fmt.Errorf("dimension %q has no questions", d))
		}
	}

	for d, w := range def.Weights {
		if w < 0 {
			errs = append(errs, fmt.Errorf("dimension %q has negative weight %v", d, w))
		}
		if !inPriority[d] {
			errs = append(errs, fmt.Errorf("weighted dimension %q is not in the priority order", d))
		}
	}

	if def.DefaultSegment != "" && !def.DefaultSegment.Valid() {
		errs = append(errs, fmt.Errorf("unknown default segment %q", def.DefaultSegment))
	}

	errs = append(errs, validateBands(def.Bands, def.DefaultBand)...)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

// validateBands checks that every integer score 0..100 resolves to exactly one band.
func validateBands(bands []Band, defaultBand string) []error {
	var errs []error
	if len(bands) == 0 {
		return append(errs, errors.New("catalog has no score bands"))
	}

	hasDefault := false
	for _, b := range bands {
		if b.Min > b.Max {
			errs = append(errs, fmt.Errorf("band %q: min %d is above max %d", b.Name, b.Min, b.Max))
		}
		if b.Name == defaultBand {
			hasDefault = true
		}
	}
	if !hasDefault {
		errs = append(errs, fmt.Errorf("default band %q is not defined", defaultBand))
	}

	for score := 0; score <= 100; score++ {
		matches := 0
		for _, b := range bands {
			if b.Contains(score) {
				matches++
			}
		}
		switch {
		case matches == 0:
			errs = append(errs, fmt.Errorf("score %d is not covered by any band", score))
		case matches > 1:
			errs = append(errs, fmt.Errorf("score %d is covered by %d bands", score, matches))
		}
	}
	return errs
}

func cloneQuestions(in []Question) []Question {
	out := make([]Question, len(in))
	for i, q := range in {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}

// Questions returns a copy of the catalog's questions in display order.
func (c *Catalog) Questions() []Question {
	return cloneQuestions(c.questions)
}

// Question looks up a question by ID.
func (c *Catalog) Question(id string) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return cloneQuestions(c.questions[i : i+1])[0], true
}

// SegmentQuestion returns the designated segment question, if the catalog has one.
func (c *Catalog) SegmentQuestion() (Question, bool) {
	if c.segmentIndex < 0 {
		return Question{}, false
	}
	return cloneQuestions(c.questions[c.segmentIndex : c.segmentIndex+1])[0], true
}

// QuestionsFor returns the questions owned by d, in display order.
func (c *Catalog) QuestionsFor(d Dimension) []Question {
	var out []Question
	for _, q := range c.questions {
		if q.Dimension == d {
			out = append(out, q)
		}
	}
	return cloneQuestions(out)
}

// Priority returns the tie-break order over all dimensions.
func (c *Catalog) Priority() []Dimension {
	return slices.Clone(c.priority)
}

// Weights returns a copy of the dimension weight table.
func (c *Catalog) Weights() DimensionWeights {
	return maps.Clone(c.weights)
}

// Bands returns the score bands in match order.
func (c *Catalog) Bands() []Band {
	return slices.Clone(c.bands)
}

// DefaultBand is the band used when no range matches a score.
func (c *Catalog) DefaultBand() Band {
	return c.defaultBand
}

// DefaultSegment is the segment reported when the segment question is unanswered.
func (c *Catalog) DefaultSegment() Segment {
	return c.defaultSegment
}

// Recommendation returns the recommendation attached to d.
func (c *Catalog) Recommendation(d Dimension) (Recommendation, bool) {
	r, ok := c.recommendations[d]
	return r, ok
}

// Benchmark returns the peer benchmark percentage for d.
func (c *Catalog) Benchmark(d Dimension) int {
	return c.benchmarks[d]
}

// OverallBenchmark returns the peer benchmark for the overall score.
func (c *Catalog) OverallBenchmark() int {
	return c.overall
}

// Definition returns a serializable copy of the catalog.
func (c *Catalog) Definition() Definition {
	return Definition{
		Questions:        c.Questions(),
		Weights:          c.Weights(),
		Priority:         c.Priority(),
		Bands:            c.Bands(),
		DefaultBand:      c.defaultBand.Name,
		DefaultSegment:   c.defaultSegment,
		Recommendations:  maps.Clone(c.recommendations),
		Benchmarks:       maps.Clone(c.benchmarks),
		OverallBenchmark: c.overall,
	}
}
