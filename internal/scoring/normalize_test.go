package scoring

import (
	"math"
	"testing"

	"github.com/dotcommander/scorecard/internal/quiz"
)

func singleDimensionQuestions() []quiz.Question {
	return []quiz.Question{
		{
			ID:        "q1",
			Dimension: "Focus",
			Options:   []quiz.Option{{Label: "none", Score: 0}, {Label: "some", Score: 5}, {Label: "all", Score: 15}},
		},
		{
			ID:        "q2",
			Dimension: "Focus",
			Options:   []quiz.Option{{Label: "none", Score: 0}, {Label: "all", Score: 25}},
		},
	}
}

func TestNormalizeDimensions(t *testing.T) {
	tests := []struct {
		name      string
		answers   quiz.Answers
		wantRaw   int
		wantMax   int
		wantScore int
	}{
		{"half answered rounds up", quiz.Answers{"q1": 15, "q2": 0}, 15, 40, 38},
		{"missing answer depresses score", quiz.Answers{"q1": 15}, 15, 40, 38},
		{"no answers", quiz.Answers{}, 0, 40, 0},
		{"nil answers", nil, 0, 40, 0},
		{"all max", quiz.Answers{"q1": 15, "q2": 25}, 40, 40, 100},
		{"off-option score taken at face value", quiz.Answers{"q1": 10, "q2": 0}, 10, 40, 25},
		{"unknown question ignored", quiz.Answers{"q1": 5, "zz": 99}, 5, 40, 13},
		{"negative answer clamped", quiz.Answers{"q1": -20, "q2": 25}, 25, 40, 63},
		{"over-max answer clamped to 100", quiz.Answers{"q1": 100, "q2": 100}, 200, 40, 100},
		{"huge answer clamped to 100", quiz.Answers{"q1": 9e18}, 9e18, 40, 100},
		{"raw sum saturates", quiz.Answers{"q1": math.MaxInt, "q2": math.MaxInt}, math.MaxInt, 40, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDimensions(singleDimensionQuestions(), []quiz.Dimension{"Focus"}, tt.answers)
			if len(got) != 1 {
				t.Fatalf("NormalizeDimensions() returned %d dimensions, want 1", len(got))
			}
			if got[0].Raw != tt.wantRaw {
				t.Errorf("Raw = %d, want %d", got[0].Raw, tt.wantRaw)
			}
			if got[0].Max != tt.wantMax {
				t.Errorf("Max = %d, want %d", got[0].Max, tt.wantMax)
			}
			if got[0].Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got[0].Score, tt.wantScore)
			}
		})
	}
}

func TestNormalizeDimensions_EmptyDimension(t *testing.T) {
	got := NormalizeDimensions(singleDimensionQuestions(), []quiz.Dimension{"Focus", "Empty"}, quiz.Answers{"q1": 15})
	if got[1].Dimension != "Empty" {
		t.Fatalf("second dimension = %q, want Empty", got[1].Dimension)
	}
	if got[1].Score != 0 || got[1].Max != 0 {
		t.Errorf("empty dimension = %+v, want zero score and max", got[1])
	}
}

func TestNormalizeDimensions_ZeroCeiling(t *testing.T) {
	questions := []quiz.Question{
		{ID: "q1", Dimension: "Flat", Options: []quiz.Option{{Label: "a", Score: 0}, {Label: "b", Score: 0}}},
	}
	got := NormalizeDimensions(questions, []quiz.Dimension{"Flat"}, quiz.Answers{"q1": 0})
	if got[0].Score != 0 {
		t.Errorf("Score = %d, want 0 when every option scores 0", got[0].Score)
	}
}

func TestNormalizeDimensions_Monotonic(t *testing.T) {
	questions := singleDimensionQuestions()
	dims := []quiz.Dimension{"Focus"}
	previous := -1
	for score := 0; score <= 25; score++ {
		got := NormalizeDimensions(questions, dims, quiz.Answers{"q1": 5, "q2": score})[0].Score
		if got < previous {
			t.Fatalf("raising q2 to %d lowered the score from %d to %d", score, previous, got)
		}
		previous = got
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{37.5, 38},
		{37.49, 37},
		{0.5, 1},
		{0, 0},
		{99.5, 100},
		{62.5, 63},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDimensions_HugeAnswersStayMonotonic(t *testing.T) {
	questions := singleDimensionQuestions()
	dims := []quiz.Dimension{"Focus"}
	previous := -1
	for _, answer := range []int{25, 1e6, 1e18, 9e18, math.MaxInt} {
		got := NormalizeDimensions(questions, dims, quiz.Answers{"q1": 15, "q2": answer})[0].Score
		if got < previous {
			t.Fatalf("raising q2 to %d lowered the score from %d to %d", answer, previous, got)
		}
		if got != 100 {
			t.Errorf("q2 = %d: Score = %d, want 100", answer, got)
		}
		previous = got
	}
}

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{-5, 0},
		{0, 0},
		{37.5, 38},
		{99.5, 100},
		{100, 100},
		{1e20, 100},
		{math.Inf(1), 100},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := roundPercent(tt.in); got != tt.want {
			t.Errorf("roundPercent(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
