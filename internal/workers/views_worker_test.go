package workers

import (
	"context"
	"errors"
	"testing"

	"kandu_backend/internal/models"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/views"
	"kandu_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// соединение тестовой БД закрывается в t.Cleanup, уже после проверки
var ignoreSQLOpener = goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener")

type failingCounter struct{}

func (failingCounter) Increment(context.Context, string) error { return nil }
func (failingCounter) Drain(context.Context) (map[string]int64, error) {
	return nil, errors.New("redis down")
}

func TestViewsWorker_FlushAddsBufferedViews(t *testing.T) {
	db := helpers.NewTestDB(t)
	employer := helpers.CreateUser(t, db, models.UserTypeEmployer)
	first := helpers.CreateJob(t, db, employer.ID)
	second := helpers.CreateJob(t, db, employer.ID)

	ctx := context.Background()
	counter := views.NewMemoryCounter()
	for i := 0; i < 3; i++ {
		require.NoError(t, counter.Increment(ctx, first.ID))
	}
	require.NoError(t, counter.Increment(ctx, second.ID))

	w := NewViewsWorker(db, repositories.NewJobRepository(), counter, "@every 1h")
	updated, err := w.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	var got models.Job
	require.NoError(t, db.First(&got, "id = ?", first.ID).Error)
	assert.Equal(t, int64(3), got.Views)
	require.NoError(t, db.First(&got, "id = ?", second.ID).Error)
	assert.Equal(t, int64(1), got.Views)

	// буфер пуст после сброса
	updated, err = w.Flush(ctx)
	require.NoError(t, err)
	assert.Zero(t, updated)
	require.NoError(t, db.First(&got, "id = ?", first.ID).Error)
	assert.Equal(t, int64(3), got.Views)
}

func TestViewsWorker_FlushDrainError(t *testing.T) {
	db := helpers.NewTestDB(t)
	w := NewViewsWorker(db, repositories.NewJobRepository(), failingCounter{}, "@every 1h")

	_, err := w.Flush(context.Background())
	assert.ErrorContains(t, err, "redis down")
}

func TestViewsWorker_InvalidSpec(t *testing.T) {
	w := NewViewsWorker(nil, repositories.NewJobRepository(), views.NewMemoryCounter(), "every minute")
	assert.Error(t, w.Start(context.Background()))
}

func TestViewsWorker_StopFlushesAndLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreSQLOpener)

	db := helpers.NewTestDB(t)
	employer := helpers.CreateUser(t, db, models.UserTypeEmployer)
	job := helpers.CreateJob(t, db, employer.ID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counter := views.NewMemoryCounter()
	w := NewViewsWorker(db, repositories.NewJobRepository(), counter, "@every 1h")
	require.NoError(t, w.Start(ctx))

	require.NoError(t, counter.Increment(ctx, job.ID))
	w.Stop(ctx)

	var got models.Job
	require.NoError(t, db.First(&got, "id = ?", job.ID).Error)
	assert.Equal(t, int64(1), got.Views)
}
