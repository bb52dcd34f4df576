// Package views копит просмотры заказов между сбросами в БД.
// Просмотр не должен стоить записи в jobs на каждый GET.
package views

import (
	"context"
	"sync"
)

// Counter - буфер приращений счётчика просмотров
type Counter interface {
	Increment(ctx context.Context, jobID string) error
	// Drain забирает накопленные приращения и обнуляет буфер
	Drain(ctx context.Context) (map[string]int64, error)
}

// MemoryCounter - счётчик в памяти процесса, когда Redis не настроен
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[string]int64)}
}

func (c *MemoryCounter) Increment(_ context.Context, jobID string) error {
	c.mu.Lock()
	c.counts[jobID]++
	c.mu.Unlock()
	return nil
}

func (c *MemoryCounter) Drain(_ context.Context) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.counts
	c.counts = make(map[string]int64)
	return out, nil
}
