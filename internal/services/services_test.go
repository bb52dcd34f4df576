package services

import (
	"sync"
	"testing"
	"time"

	"kandu_backend/internal/email"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/repositories/admin"
	"kandu_backend/internal/storage"
	"kandu_backend/internal/views"
	"kandu_backend/test/helpers"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// sentMail - письмо, перехваченное recordingProvider
type sentMail struct {
	To       []string
	Subject  string
	Template string
	Data     email.TemplateData
}

type recordingProvider struct {
	mu   sync.Mutex
	sent []sentMail
}

func (p *recordingProvider) Send(*email.Email) error { return nil }

func (p *recordingProvider) SendTemplate(to []string, subject, templateName string, data email.TemplateData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentMail{To: to, Subject: subject, Template: templateName, Data: data})
	return nil
}

func (p *recordingProvider) Validate() error { return nil }
func (p *recordingProvider) Close() error    { return nil }

func (p *recordingProvider) Sent() []sentMail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentMail(nil), p.sent...)
}

type testEnv struct {
	db       *gorm.DB
	clock    time.Time
	mail     *recordingProvider
	counter  *views.MemoryCounter
	store    *storage.LocalStorage
	services *ServiceContainer
}

// newTestEnv собирает сервисы над чистой SQLite.
// Письма отправляются синхронно, часы зафиксированы.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := helpers.NewTestDB(t)
	env := &testEnv{
		db:      db,
		clock:   time.Now().UTC().Truncate(time.Second),
		mail:    &recordingProvider{},
		counter: views.NewMemoryCounter(),
	}

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	env.store = store

	env.services = NewServiceContainer(Dependencies{
		Storage:     store,
		Email:       env.mail,
		AppURL:      "https://kandu.test",
		ViewCounter: env.counter,
		Wipe:        admin.NewGormWipeRepository(db),
		Upload:      UploadConfig{MaxFileSize: 1024, Usages: map[string][]string{"avatar": {"image/png"}}},
	})

	env.services.NotificationService.(*notificationService).dispatch = func(f func()) { f() }
	env.services.LifecycleService.(*LifecycleServiceImpl).now = func() time.Time { return env.clock }
	return env
}

// repos - прямой доступ к данным для проверок
var (
	testUsers = repositories.NewUserRepository()
	testJobs  = repositories.NewJobRepository()
)

func ptr[T any](v T) *T { return &v }
