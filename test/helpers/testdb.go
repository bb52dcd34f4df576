package helpers

import (
	"fmt"
	"testing"
	"time"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPassword - пароль всех пользователей, созданных хелперами
const TestPassword = "password123"

// NewTestDB открывает чистую in-memory базу SQLite со всеми таблицами.
// Одно соединение: транзакция и запросы вне её не должны пересекаться.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Не удалось получить *sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser создает пользователя с хешированным TestPassword
func CreateUser(t *testing.T, db *gorm.DB, userType models.UserType) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Не удалось хешировать пароль: %v", err)
	}
	user := &models.User{
		Email:        fmt.Sprintf("%s_%s@test.com", userType, uuid.NewString()[:8]),
		PasswordHash: hash,
		UserType:     userType,
		Status:       models.UserStatusActive,
		FullName:     "Test " + string(userType),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Не удалось создать пользователя: %v", err)
	}
	return user
}

// CreateJob создает открытый заказ работодателя
func CreateJob(t *testing.T, db *gorm.DB, employerID string, mutate ...func(*models.Job)) *models.Job {
	t.Helper()

	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	end := start.Add(72 * time.Hour)
	job := &models.Job{
		EmployerID:  employerID,
		Title:       "Demolish garden wall",
		Category:    "demolition",
		Description: "Remove a 10m brick wall",
		Location:    "Leeds",
		Price:       500,
		PriceType:   models.PriceTypeFixed,
		Status:      models.JobStatusOpen,
		Urgency:     models.UrgencyMedium,
		StartDate:   &start,
		EndDate:     &end,
	}
	for _, m := range mutate {
		m(job)
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Не удалось создать заказ: %v", err)
	}
	return job
}

// CreateApplication создает отклик работника в статусе pending
func CreateApplication(t *testing.T, db *gorm.DB, jobID, workerID string, terms models.ApplicationTerms) *models.Application {
	t.Helper()

	app := &models.Application{
		JobID:    jobID,
		WorkerID: workerID,
		Message:  "I can do it",
		Status:   models.ApplicationStatusPending,
	}
	app.SetTerms(terms)
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("Не удалось создать отклик: %v", err)
	}
	return app
}

// Caller - identity пользователя для вызова сервисов
func Caller(u *models.User) auth.Caller {
	return auth.Caller{UserID: u.ID, UserType: u.UserType}
}
