package workers

import (
	"context"
	"fmt"

	"kandu_backend/internal/logger"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/views"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const viewsWorkerName = "views_flush"

// ViewsWorker по расписанию переносит накопленные просмотры в jobs.views
type ViewsWorker struct {
	db      *gorm.DB
	jobRepo repositories.JobRepository
	counter views.Counter
	cron    *cron.Cron
	spec    string // cron-выражение, напр. "@every 1m"
}

func NewViewsWorker(db *gorm.DB, jobRepo repositories.JobRepository, counter views.Counter, spec string) *ViewsWorker {
	return &ViewsWorker{
		db:      db,
		jobRepo: jobRepo,
		counter: counter,
		cron:    cron.New(),
		spec:    spec,
	}
}

// Start регистрирует задачу и запускает планировщик
func (w *ViewsWorker) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.spec, func() {
		if _, err := w.Flush(ctx); err != nil {
			logger.WorkerLog(viewsWorkerName, "flush", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	w.cron.Start()
	logger.Info("Views worker started", "spec", w.spec)
	return nil
}

// Stop останавливает планировщик и ждёт текущий сброс.
// Остаток буфера сбрасывается последний раз.
func (w *ViewsWorker) Stop(ctx context.Context) {
	<-w.cron.Stop().Done()
	if _, err := w.Flush(ctx); err != nil {
		logger.WorkerLog(viewsWorkerName, "final flush", err)
	}
	logger.Info("Views worker stopped")
}

// Flush забирает буфер и прибавляет просмотры к заказам.
// Возвращает число обновлённых заказов.
func (w *ViewsWorker) Flush(ctx context.Context) (int, error) {
	counts, err := w.counter.Drain(ctx)
	if err != nil {
		return 0, fmt.Errorf("drain: %w", err)
	}
	if len(counts) == 0 {
		return 0, nil
	}

	db := w.db.WithContext(ctx)
	updated := 0
	for jobID, delta := range counts {
		if delta <= 0 {
			continue
		}
		if err := w.jobRepo.IncrementViews(db, jobID, delta); err != nil {
			// просмотры одного заказа теряются, остальные сбрасываются
			logger.WorkerLog(viewsWorkerName, "increment", err, "job_id", jobID, "delta", delta)
			continue
		}
		updated++
	}

	logger.WorkerLog(viewsWorkerName, "flush", nil, "jobs", updated)
	return updated, nil
}
