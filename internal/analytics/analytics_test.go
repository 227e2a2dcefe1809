package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
)

func TestNew(t *testing.T) {
	client, err := New("", "")
	require.NoError(t, err)
	assert.IsType(t, NopClient{}, client)
	assert.NoError(t, client.Capture(context.Background(), "x", EventLeadCaptured, nil))
	assert.NoError(t, client.Close())

	client, err = New("phc_test", "http://127.0.0.1:1")
	require.NoError(t, err)
	assert.IsType(t, &PostHogClient{}, client)
	assert.NoError(t, client.Capture(context.Background(), "", EventQuizCompleted, map[string]any{"overall_score": 50}))
}

func TestNewPostHogClient_RequiresKey(t *testing.T) {
	_, err := NewPostHogClient("", "")
	assert.EqualError(t, err, "posthog api key is required")
}

func TestPostHogClient_Nil(t *testing.T) {
	var c *PostHogClient
	assert.Error(t, c.Capture(context.Background(), "id", EventLeadCaptured, nil))
	assert.NoError(t, c.Close())
}

func TestResultProperties(t *testing.T) {
	result := scoring.ScoreResult{
		OverallScore:       50,
		Band:               quiz.Band{Name: "Building"},
		Segment:            quiz.SegmentPiloting,
		StrongestDimension: quiz.LeadershipGravity,
		WeakestDimension:   quiz.ChampionDensity,
		DimensionScores: map[quiz.Dimension]int{
			quiz.LeadershipGravity: 64,
			quiz.ChampionDensity:   20,
		},
	}

	props := ResultProperties(result)
	assert.Equal(t, 50, props["overall_score"])
	assert.Equal(t, "Building", props["band"])
	assert.Equal(t, "Piloting", props["segment"])
	assert.Equal(t, "Champion Density", props["weakest_dimension"])
	assert.Equal(t, 64, props["score_leadership_gravity"])
	assert.Equal(t, 20, props["score_champion_density"])
	assert.NotContains(t, props, "email")
}
