package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-12-31")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2026, Month: time.December, Day: 31}, d)

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("31/12/2026")
	assert.Error(t, err)
}

func TestDate_DaysUntil(t *testing.T) {
	start := Date{Year: 2026, Month: time.February, Day: 27}

	assert.Equal(t, 2, start.DaysUntil(Date{Year: 2026, Month: time.March, Day: 1}))
	assert.Equal(t, 0, start.DaysUntil(start))
	assert.Equal(t, -27, start.DaysUntil(Date{Year: 2026, Month: time.January, Day: 31}))
	assert.Equal(t, 365, start.DaysUntil(start.AddDays(365)))
}

func TestDate_Compare(t *testing.T) {
	a := Date{Year: 2026, Month: time.January, Day: 1}
	b := Date{Year: 2026, Month: time.January, Day: 2}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		When Date `json:"when"`
	}

	data, err := json.Marshal(wrapper{When: Date{Year: 2026, Month: time.July, Day: 4}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":"2026-07-04"}`, string(data))

	data, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":""}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"when":"2025-01-02"}`), &w))
	assert.Equal(t, "2025-01-02", w.When.String())
}
