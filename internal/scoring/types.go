package scoring

import "github.com/dotcommander/scorecard/internal/quiz"

// ScoreResult is the complete outcome of one quiz submission.
// It is plain data: built once by Engine.Calculate and never mutated afterwards.
type ScoreResult struct {
	OverallScore       int                    `json:"overallScore" yaml:"overallScore"`             // 0-100 weighted score
	DimensionScores    map[quiz.Dimension]int `json:"dimensionScores" yaml:"dimensionScores"`       // 0-100 per dimension
	RawScores          map[quiz.Dimension]int `json:"rawScores" yaml:"rawScores"`                   // answer points per dimension
	MaxScores          map[quiz.Dimension]int `json:"maxScores" yaml:"maxScores"`                   // ceiling per dimension
	Breakdown          []DimensionScore       `json:"breakdown" yaml:"breakdown"`                   // priority order
	Band               quiz.Band              `json:"band" yaml:"band"`                             // resolved score band
	Segment            quiz.Segment           `json:"segment" yaml:"segment"`                       // maturity segment
	StrongestDimension quiz.Dimension         `json:"strongestDimension" yaml:"strongestDimension"` // highest, priority tie-break
	WeakestDimension   quiz.Dimension         `json:"weakestDimension" yaml:"weakestDimension"`     // lowest, priority tie-break
	Gaps               map[quiz.Dimension]int `json:"gaps" yaml:"gaps"`                             // distance to the ready threshold
	Priorities         []Priority             `json:"priorities" yaml:"priorities"`                 // weakest dimensions first
}

// DimensionScore is the normalized result for a single dimension.
type DimensionScore struct {
	Dimension quiz.Dimension `json:"dimension" yaml:"dimension"`
	Raw       int            `json:"raw" yaml:"raw"`     // sum of answered scores
	Max       int            `json:"max" yaml:"max"`     // sum of question ceilings
	Score     int            `json:"score" yaml:"score"` // 0-100
}

// Priority is a weak dimension paired with its recommendation.
type Priority struct {
	Dimension      quiz.Dimension      `json:"dimension" yaml:"dimension"`
	Score          int                 `json:"score" yaml:"score"`
	Benchmark      int                 `json:"benchmark" yaml:"benchmark"`
	BenchmarkGap   int                 `json:"benchmarkGap" yaml:"benchmarkGap"`
	Recommendation quiz.Recommendation `json:"recommendation" yaml:"recommendation"`
}

// Scorer is the interface for answer scorers
type Scorer interface {
	Calculate(answers quiz.Answers) (ScoreResult, error)
}
