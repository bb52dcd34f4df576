package logger

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log *zap.SugaredLogger
	mu  sync.RWMutex
)

// Init инициализирует глобальный логгер
// env: "development" или "production"
func Init(env string) {
	var cfg zap.Config
	if env == "development" {
		// Development: читаемый консольный формат, уровень debug
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		// Production: JSON для парсинга
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Без логгера работать нельзя, но и падать из-за формата не стоит
		l = zap.NewExample()
	}
	SetLogger(l)
}

// SetLogger подменяет глобальный логгер (в тестах - zap.NewNop())
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l.Sugar()
}

// GetLogger возвращает глобальный логгер
func GetLogger() *zap.SugaredLogger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l == nil {
		// Fallback если Init не вызван
		Init("development")
		mu.RLock()
		l = log
		mu.RUnlock()
	}
	return l
}

// Sync сбрасывает буферы перед выходом
func Sync() {
	_ = GetLogger().Sync()
}

// ============================================
// Convenience функции
// ============================================

// Debug логирует debug сообщение
func Debug(msg string, args ...any) {
	GetLogger().Debugw(msg, args...)
}

// Info логирует info сообщение
func Info(msg string, args ...any) {
	GetLogger().Infow(msg, args...)
}

// Warn логирует warning сообщение
func Warn(msg string, args ...any) {
	GetLogger().Warnw(msg, args...)
}

// Error логирует error сообщение
func Error(msg string, args ...any) {
	GetLogger().Errorw(msg, args...)
}

// Fatal логирует fatal ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Errorw(msg, args...)
	Sync()
	os.Exit(1)
}

// With создает логгер с дополнительными полями
// Пример: logger.With("user_id", id, "action", "login").Infow("user logged in")
func With(args ...any) *zap.SugaredLogger {
	return GetLogger().With(args...)
}

// WithError создает логгер с полем error
func WithError(err error) *zap.SugaredLogger {
	return GetLogger().With(zap.Error(err))
}

// ============================================
// Специализированные логгеры
// ============================================

// HTTPLog логирует HTTP запрос
func HTTPLog(method, path string, status int, duration time.Duration, size int) {
	GetLogger().Infow("http request",
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"size_bytes", size,
	)
}

// WorkerLog логирует операцию фонового воркера
func WorkerLog(worker, operation string, err error, args ...any) {
	fields := append([]any{"worker", worker, "operation", operation}, args...)
	if err != nil {
		fields = append(fields, zap.Error(err))
		GetLogger().Errorw("worker operation failed", fields...)
		return
	}
	GetLogger().Debugw("worker operation completed", fields...)
}
