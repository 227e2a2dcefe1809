package scoring

import "github.com/dotcommander/scorecard/internal/quiz"

// OverallScore computes the weighted mean of the dimension scores.
//
// Every dimension of the weight table contributes its weight to the
// denominator, including dimensions absent from scores (which count as 0).
// Dimensions scored but not weighted are ignored. Returns 0 when the total
// weight is not positive.
func OverallScore(scores map[quiz.Dimension]int, weights quiz.DimensionWeights) int {
	var weighted, total float64
	for _, d := range weights.Dimensions() {
		w := weights[d]
		weighted += float64(scores[d]) * w
		total += w
	}

	if total <= 0 {
		return 0
	}
	return roundPercent(weighted / total)
}
