package calendar_test

import (
	"testing"
	"time"

	"kandu_backend/internal/calendar"
	"kandu_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobAt(id string, planned, actual *time.Time) models.Job {
	j := models.Job{StartDate: planned, ActualStartDate: actual, Title: id}
	j.ID = id
	return j
}

func ptr(t time.Time) *time.Time { return &t }

func TestBucketByDay(t *testing.T) {
	d1 := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	d1late := time.Date(2024, 4, 1, 18, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 4, 3, 8, 0, 0, 0, time.UTC)
	outside := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	jobs := []models.Job{
		jobAt("late", ptr(d1late), nil),
		jobAt("third", ptr(d3), nil),
		jobAt("early", ptr(d3), ptr(d1)), // фактическое начало важнее планового
		jobAt("nodate", nil, nil),
		jobAt("outside", ptr(outside), nil),
	}

	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC)

	days := calendar.BucketByDay(jobs, from, to, time.UTC)
	require.Len(t, days, 2)

	assert.Equal(t, "2024-04-01", days[0].Date)
	require.Len(t, days[0].Jobs, 2)
	assert.Equal(t, "early", days[0].Jobs[0].ID)
	assert.Equal(t, "late", days[0].Jobs[1].ID)

	assert.Equal(t, "2024-04-03", days[1].Date)
	require.Len(t, days[1].Jobs, 1)
	assert.Equal(t, "third", days[1].Jobs[0].ID)
}

func TestBucketByDay_TimeZone(t *testing.T) {
	almaty := time.FixedZone("ALMT", 5*60*60)
	at := time.Date(2024, 4, 1, 21, 0, 0, 0, time.UTC) // 02:00 следующего дня в Алматы

	days := calendar.BucketByDay(
		[]models.Job{jobAt("j", ptr(at), nil)},
		at.Add(-time.Hour), at.Add(time.Hour), almaty,
	)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-04-02", days[0].Date)
}
