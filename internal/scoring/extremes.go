package scoring

import "github.com/dotcommander/scorecard/internal/quiz"

// Sentinels sit outside [0,100] so the first dimension always seeds both extremes.
const (
	strongestSentinel = -1
	weakestSentinel   = 101
)

// FindExtremes returns the strongest and weakest dimension.
//
// Dimensions are visited in priority order and only a strictly higher (or
// lower) score replaces the current extreme, so on a tie the dimension that
// comes first in priority wins. Dimensions missing from scores read as 0.
// The outcome never depends on map iteration order.
func FindExtremes(scores map[quiz.Dimension]int, priority []quiz.Dimension) (strongest, weakest quiz.Dimension) {
	highest, lowest := strongestSentinel, weakestSentinel

	for _, d := range priority {
		score := scores[d]
		if score > highest {
			highest = score
			strongest = d
		}
		if score < lowest {
			lowest = score
			weakest = d
		}
	}

	return strongest, weakest
}
