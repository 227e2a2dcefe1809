package scoring

import (
	"math"

	"github.com/dotcommander/scorecard/internal/quiz"
)

// NormalizeDimensions reduces answers to a 0-100 score per dimension.
//
// For every dimension the answered scores of its questions are summed (a missing
// answer counts as 0) and divided by the sum of the questions' ceilings. An
// unanswered question therefore still adds its ceiling to the denominator and
// depresses the dimension. Answers that match no option are taken at face value.
// Negative answers are clamped to 0 and the result is clamped to [0,100].
//
// The result follows the order of dimensions. Questions owned by a dimension
// that is not listed are ignored.
func NormalizeDimensions(questions []quiz.Question, dimensions []quiz.Dimension, answers quiz.Answers) []DimensionScore {
	index := make(map[quiz.Dimension]int, len(dimensions))
	scores := make([]DimensionScore, len(dimensions))
	for i, d := range dimensions {
		index[d] = i
		scores[i] = DimensionScore{Dimension: d}
	}

	for _, q := range questions {
		i, ok := index[q.Dimension]
		if !ok {
			continue
		}
		scores[i].Raw = saturatingAdd(scores[i].Raw, max(answers[q.ID], 0))
		scores[i].Max += q.MaxScore()
	}

	for i := range scores {
		scores[i].Score = percent(scores[i].Raw, scores[i].Max)
	}
	return scores
}

// Normalized flattens dimension scores into a lookup map.
func Normalized(scores []DimensionScore) map[quiz.Dimension]int {
	out := make(map[quiz.Dimension]int, len(scores))
	for _, s := range scores {
		out[s.Dimension] = s.Score
	}
	return out
}

// percent returns round(part/whole*100), or 0 when whole is not positive.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return roundPercent(float64(part) / float64(whole) * 100)
}

// roundPercent rounds x half up and clamps it to [0,100]. The clamp happens
// before the integer conversion so huge ratios cannot overflow.
func roundPercent(x float64) int {
	switch {
	case math.IsNaN(x) || x <= 0:
		return 0
	case x >= 100:
		return 100
	}
	return roundHalfUp(x)
}

// roundHalfUp rounds to the nearest integer, halves away from negative infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clampPercent(v int) int {
	return min(max(v, 0), 100)
}

// saturatingAdd adds two non-negative ints, stopping at math.MaxInt.
func saturatingAdd(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}
