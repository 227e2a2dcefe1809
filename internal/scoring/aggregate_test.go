package scoring

import (
	"testing"

	"github.com/dotcommander/scorecard/internal/quiz"
)

func TestOverallScore(t *testing.T) {
	weights := quiz.DimensionWeights{"A": 2, "B": 1, "C": 1}

	tests := []struct {
		name    string
		scores  map[quiz.Dimension]int
		weights quiz.DimensionWeights
		want    int
	}{
		{"weighted mean", map[quiz.Dimension]int{"A": 100, "B": 50, "C": 0}, weights, 63},
		{"all zero", map[quiz.Dimension]int{"A": 0, "B": 0, "C": 0}, weights, 0},
		{"all max", map[quiz.Dimension]int{"A": 100, "B": 100, "C": 100}, weights, 100},
		{"missing dimension keeps its weight", map[quiz.Dimension]int{"A": 100, "B": 100}, weights, 75},
		{"unweighted dimension ignored", map[quiz.Dimension]int{"A": 100, "B": 100, "C": 100, "Z": 0}, weights, 100},
		{"single dimension", map[quiz.Dimension]int{"Focus": 38}, quiz.DimensionWeights{"Focus": 1}, 38},
		{"zero total weight", map[quiz.Dimension]int{"A": 100}, quiz.DimensionWeights{"A": 0}, 0},
		{"empty weight table", map[quiz.Dimension]int{"A": 100}, quiz.DimensionWeights{}, 0},
		{"nil scores", nil, weights, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallScore(tt.scores, tt.weights); got != tt.want {
				t.Errorf("OverallScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverallScore_FractionalWeights(t *testing.T) {
	weights := quiz.DefaultDefinition().Weights
	scores := map[quiz.Dimension]int{
		quiz.LeadershipGravity:    64,
		quiz.CulturalResilience:   57,
		quiz.CapacityDirection:    50,
		quiz.SkillVisibility:      60,
		quiz.ChampionDensity:      20,
		quiz.GovernanceConfidence: 40,
	}
	// (64*1.25 + 57 + 50 + 60 + 20*0.75 + 40) / 6 = 50.33
	if got := OverallScore(scores, weights); got != 50 {
		t.Errorf("OverallScore() = %d, want 50", got)
	}
}
