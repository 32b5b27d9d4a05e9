package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampProgress(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-10, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{150, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClampProgress(tt.input))
	}
}

func TestProgressFromFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int
	}{
		{"negative", -3, 0},
		{"rounds down", 42.4, 42},
		{"rounds up", 42.5, 43},
		{"above bound", 150, 100},
		{"beyond int range", 1e19, 100},
		{"far below int range", -1e19, 0},
		{"positive infinity", math.Inf(1), 100},
		{"not a number", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProgressFromFloat(tt.input))
		})
	}
}

func TestStatusFromProgress(t *testing.T) {
	assert.Equal(t, StatusNotStarted, StatusFromProgress(0))
	assert.Equal(t, StatusInProgress, StatusFromProgress(1))
	assert.Equal(t, StatusInProgress, StatusFromProgress(99))
	assert.Equal(t, StatusCompleted, StatusFromProgress(100))
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status)

	_, err = ParseStatus("done")
	assert.True(t, errors.Is(err, ErrInvalidStatus))
}

func TestApplyProgress_AppendsClampedRecord(t *testing.T) {
	at := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	f := Flag{Status: StatusInProgress}

	f.ApplyProgress(150, "overshoot", at, PolicyProgress)

	assert.Equal(t, 100, f.Progress)
	assert.Equal(t, StatusCompleted, f.Status)
	require.Len(t, f.CheckHistory, 1)
	assert.Equal(t, CheckRecord{Date: at, Notes: "overshoot", Progress: 100}, f.CheckHistory[0])
}

func TestApplyStatus_CompletedForcesProgress(t *testing.T) {
	f := Flag{Progress: 30, Status: StatusInProgress}

	require.NoError(t, f.ApplyStatus(StatusCompleted))

	assert.Equal(t, 100, f.Progress)
	assert.Equal(t, StatusCompleted, f.Status)
	assert.True(t, f.StatusOverride)
}

func TestApplyStatus_RejectsUnknownStatus(t *testing.T) {
	f := Flag{Status: StatusInProgress}

	err := f.ApplyStatus(Status("paused"))

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusInProgress, f.Status)
}

func TestStatusPolicy_ProgressRederivesAfterOverride(t *testing.T) {
	f := Flag{Status: StatusInProgress}
	require.NoError(t, f.ApplyStatus(StatusCompleted))

	f.ApplyProgress(40, "", time.Now(), PolicyProgress)

	assert.Equal(t, StatusInProgress, f.Status)
	assert.False(t, f.StatusOverride)
}

func TestStatusPolicy_StickyCompletedSurvivesPartialProgress(t *testing.T) {
	f := Flag{Status: StatusInProgress}
	require.NoError(t, f.ApplyStatus(StatusCompleted))

	f.ApplyProgress(40, "", time.Now(), PolicyStickyCompleted)

	assert.Equal(t, StatusCompleted, f.Status)
	assert.Equal(t, 40, f.Progress)
	assert.True(t, f.StatusOverride)
	assert.Len(t, f.CheckHistory, 1)
}

func TestStatusPolicy_StickyOnlyAppliesToCompletedOverrides(t *testing.T) {
	f := Flag{Progress: 50, Status: StatusInProgress}
	require.NoError(t, f.ApplyStatus(StatusNotStarted))

	f.ApplyProgress(60, "", time.Now(), PolicyStickyCompleted)

	assert.Equal(t, StatusInProgress, f.Status)
}

func TestParseStatusPolicy(t *testing.T) {
	policy, err := ParseStatusPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyProgress, policy)

	policy, err = ParseStatusPolicy("sticky_completed")
	require.NoError(t, err)
	assert.Equal(t, PolicyStickyCompleted, policy)

	_, err = ParseStatusPolicy("whatever")
	assert.Error(t, err)
}

func TestClone_IsDeep(t *testing.T) {
	score := 80
	original := Flag{
		CheckHistory:     []CheckRecord{{Progress: 10}},
		FeasibilityScore: &score,
		Logs:             []Log{{ID: "l1"}},
	}

	c := original.Clone()
	c.CheckHistory[0].Progress = 99
	c.Logs[0].ID = "changed"
	*c.FeasibilityScore = 1

	assert.Equal(t, 10, original.CheckHistory[0].Progress)
	assert.Equal(t, "l1", original.Logs[0].ID)
	assert.Equal(t, 80, *original.FeasibilityScore)
}

func TestClone_NormalizesNilSlices(t *testing.T) {
	c := Flag{}.Clone()

	assert.NotNil(t, c.CheckHistory)
	assert.NotNil(t, c.Logs)
}

func TestLastActivity_FallsBackToCreatedDate(t *testing.T) {
	f := Flag{CreatedDate: Date{Year: 2026, Month: time.February, Day: 1}}

	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), f.LastActivity(time.UTC))

	checked := time.Date(2026, time.February, 10, 8, 0, 0, 0, time.UTC)
	f.CheckHistory = []CheckRecord{{Date: checked}}
	assert.Equal(t, checked, f.LastActivity(time.UTC))
}

func TestLastActivity_IgnoresUndatedCheck(t *testing.T) {
	f := Flag{
		CheckHistory: []CheckRecord{{Progress: 20}},
		CreatedDate:  DateOf(time.Date(2026, time.February, 1, 15, 0, 0, 0, time.UTC)),
	}
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), f.LastActivity(time.UTC))
}
