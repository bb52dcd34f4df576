package reputation_test

import (
	"testing"
	"time"

	"kandu_backend/internal/reputation"

	"github.com/stretchr/testify/assert"
)

func TestCalculateXP(t *testing.T) {
	cases := []struct {
		name   string
		rating int
		price  float64
		early  bool
		want   int
	}{
		{"mid price top rating", 5, 500, false, 50},
		{"low price clamps to min", 1, 50, false, 2},
		{"high price clamps to max with bonus", 5, 1000, true, 120},
		{"zero price", 5, 0, false, 10},
		{"huge price", 3, 1_000_000, false, 60},
		{"early bonus rounds", 4, 250, true, 24},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reputation.CalculateXP(tc.rating, tc.price, tc.early))
		})
	}
}

func TestIsEarlyCompletion(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	assert.False(t, reputation.IsEarlyCompletion(nil, now), "no end date is never early")
	assert.True(t, reputation.IsEarlyCompletion(&later, now))
	assert.False(t, reputation.IsEarlyCompletion(&earlier, now))
	assert.False(t, reputation.IsEarlyCompletion(&now, now), "same instant is not strictly before")
}

func TestRunningAverage(t *testing.T) {
	assert.Equal(t, 4.0, reputation.RunningAverage([]int{5, 4}, 3))
	assert.Equal(t, 5.0, reputation.RunningAverage(nil, 5))
	assert.Equal(t, 4.3, reputation.RunningAverage([]int{5, 4}, 4))
	assert.Equal(t, 3.7, reputation.RunningAverage([]int{5, 5}, 1))
}

func TestSettle(t *testing.T) {
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	done := end.Add(-24 * time.Hour)

	s := reputation.Settle(30, []int{4}, 5, 1000, &end, done)
	assert.Equal(t, 120, s.XPGained)
	assert.Equal(t, 150, s.NewXP)
	assert.Equal(t, 4.5, s.NewRating)
}
