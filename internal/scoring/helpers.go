package scoring

import (
	"cmp"
	"slices"

	"github.com/dotcommander/scorecard/internal/quiz"
)

// DefaultPriorityCount is how many weak dimensions a report recommends on.
const DefaultPriorityCount = 3

// Gaps returns, for each dimension, how far its score sits below target.
// Dimensions at or above target have a gap of 0.
func Gaps(scores map[quiz.Dimension]int, dimensions []quiz.Dimension, target int) map[quiz.Dimension]int {
	gaps := make(map[quiz.Dimension]int, len(dimensions))
	for _, d := range dimensions {
		gaps[d] = max(0, target-scores[d])
	}
	return gaps
}

// Priorities picks the n lowest-scoring dimensions, weakest first. Equal scores
// keep the catalog's priority order.
func Priorities(scores map[quiz.Dimension]int, catalog *quiz.Catalog, n int) []Priority {
	ordered := catalog.Priority()
	slices.SortStableFunc(ordered, func(a, b quiz.Dimension) int {
		return cmp.Compare(scores[a], scores[b])
	})
	if n < len(ordered) {
		ordered = ordered[:max(n, 0)]
	}

	out := make([]Priority, 0, len(ordered))
	for _, d := range ordered {
		rec, _ := catalog.Recommendation(d)
		benchmark := catalog.Benchmark(d)
		out = append(out, Priority{
			Dimension:      d,
			Score:          scores[d],
			Benchmark:      benchmark,
			BenchmarkGap:   max(0, benchmark-scores[d]),
			Recommendation: rec,
		})
	}
	return out
}
