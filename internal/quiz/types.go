package quiz

import (
	"maps"
	"slices"
)

// Dimension is one of the thematic categories the assessment measures.
type Dimension string

const (
	LeadershipGravity    Dimension = "Leadership Gravity"
	CulturalResilience   Dimension = "Cultural Resilience"
	SkillVisibility      Dimension = "Skill Visibility"
	ChampionDensity      Dimension = "Champion Density"
	GovernanceConfidence Dimension = "Governance Confidence"
	CapacityDirection    Dimension = "Capacity Direction"
)

// Segment is the maturity-stage classification derived from the segment question.
type Segment string

const (
	SegmentUnsure        Segment = "Unsure"
	SegmentExploring     Segment = "Exploring"
	SegmentExperimenting Segment = "Experimenting"
	SegmentPiloting      Segment = "Piloting"
	SegmentScaling       Segment = "Scaling"
	SegmentEmbedded      Segment = "Embedded"
)

// Segments lists every known segment in maturity order.
var Segments = []Segment{
	SegmentUnsure,
	SegmentExploring,
	SegmentExperimenting,
	SegmentPiloting,
	SegmentScaling,
	SegmentEmbedded,
}

// Valid reports whether s is a known segment.
func (s Segment) Valid() bool {
	for _, known := range Segments {
		if s == known {
			return true
		}
	}
	return false
}

// Option is one selectable answer of a question
type Option struct {
	Label   string  `json:"label" yaml:"label"`
	Score   int     `json:"score" yaml:"score"`
	Segment Segment `json:"segment,omitempty" yaml:"segment,omitempty"`
}

// Question is a single multiple-choice item owned by a dimension.
type Question struct {
	ID        string    `json:"id" yaml:"id"`
	Dimension Dimension `json:"dimension" yaml:"dimension"`
	Text      string    `json:"text" yaml:"text"`
	Options   []Option  `json:"options" yaml:"options"`
	// Segment marks the question whose selected option drives segment classification.
	Segment bool `json:"segment,omitempty" yaml:"segment,omitempty"`
}

// MaxScore returns the question's contribution ceiling: the highest option score.
func (q Question) MaxScore() int {
	highest := 0
	for _, opt := range q.Options {
		if opt.Score > highest {
			highest = opt.Score
		}
	}
	return highest
}

// OptionForScore returns the first option carrying score.
func (q Question) OptionForScore(score int) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Score == score {
			return opt, true
		}
	}
	return Option{}, false
}

// Band is a named, inclusive range of overall scores.
type Band struct {
	Name        string `json:"name" yaml:"name"`
	Min         int    `json:"min" yaml:"min"`
	Max         int    `json:"max" yaml:"max"`
	Description string `json:"description" yaml:"description"`
	Action      string `json:"action" yaml:"action"`
}

// Contains reports whether score falls inside the band's inclusive range.
func (b Band) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}

// Recommendation is the narrative attached to a weak dimension.
type Recommendation struct {
	Title    string `json:"title" yaml:"title"`
	Text     string `json:"text" yaml:"text"`
	Question string `json:"question" yaml:"question"`
}

// DimensionWeights maps dimensions to their weight in the overall score.
// Weights need not sum to 1.
type DimensionWeights map[Dimension]float64

// Weight returns the weight for d, falling back to 0 for unknown dimensions.
func (w DimensionWeights) Weight(d Dimension) float64 {
	if v, ok := w[d]; ok {
		return v
	}
	return 0
}

// Dimensions returns the weighted dimensions in a stable, sorted order.
func (w DimensionWeights) Dimensions() []Dimension {
	return slices.Sorted(maps.Keys(w))
}

// Total returns the sum of all weights, accumulated in Dimensions order.
func (w DimensionWeights) Total() float64 {
	var total float64
	for _, d := range w.Dimensions() {
		total += w[d]
	}
	return total
}

// Answers maps question IDs to the score of the selected option.
type Answers map[string]int
