package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/email"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/models"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/services/dto"
	"kandu_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	List(db *gorm.DB, caller auth.Caller, unreadOnly bool, page, limit int) (*dto.NotificationListResponse, error)
	UnreadCount(db *gorm.DB, caller auth.Caller) (int64, error)
	MarkRead(db *gorm.DB, caller auth.Caller, notificationID string) error
	MarkAllRead(db *gorm.DB, caller auth.Caller) (int64, error)

	// Notify создаёт уведомление в транзакции вызывающего перехода
	Notify(tx *gorm.DB, n *models.Notification) error
	// Deliver дублирует закоммиченные уведомления письмами. Ошибки только логируются.
	Deliver(ctx context.Context, db *gorm.DB, notifications []*models.Notification)
	// Wait ждёт окончания уже начатых отправок или отмены ctx
	Wait(ctx context.Context) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	provider         email.Provider
	appURL           string
	// dispatch запускает отправку; в проде - в отдельной горутине
	dispatch func(func())
	pending  sync.WaitGroup
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	provider email.Provider,
	appURL string,
) NotificationService {
	if provider == nil {
		provider = email.NopProvider{}
	}
	s := &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		provider:         provider,
		appURL:           strings.TrimRight(appURL, "/"),
	}
	s.dispatch = s.goTracked
	return s
}

// goTracked запускает f в горутине, которую дожидается Wait
func (s *notificationService) goTracked(f func()) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		f()
	}()
}

func (s *notificationService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewJobNotification - уведомление о событии заказа со ссылкой на него
func NewJobNotification(userID string, typ models.NotificationType, jobID, title, message string) *models.Notification {
	return &models.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: jobID,
		ActionURL: fmt.Sprintf("/jobs/%s", jobID),
	}
}

func (s *notificationService) List(db *gorm.DB, caller auth.Caller, unreadOnly bool, page, limit int) (*dto.NotificationListResponse, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	items, total, err := s.notificationRepo.ListByUser(db, caller.UserID, unreadOnly, limit, (page-1)*limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.notificationRepo.CountUnread(db, caller.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		Unread:        unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

func (s *notificationService) UnreadCount(db *gorm.DB, caller auth.Caller) (int64, error) {
	if err := requireUser(caller); err != nil {
		return 0, err
	}
	n, err := s.notificationRepo.CountUnread(db, caller.UserID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

func (s *notificationService) MarkRead(db *gorm.DB, caller auth.Caller, notificationID string) error {
	if err := requireUser(caller); err != nil {
		return err
	}
	// чужое уведомление неотличимо от несуществующего
	return handleRepoError(s.notificationRepo.MarkRead(db, notificationID, caller.UserID), apperrors.ErrNotificationNotFound)
}

func (s *notificationService) MarkAllRead(db *gorm.DB, caller auth.Caller) (int64, error) {
	if err := requireUser(caller); err != nil {
		return 0, err
	}
	n, err := s.notificationRepo.MarkAllRead(db, caller.UserID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

func (s *notificationService) Notify(tx *gorm.DB, n *models.Notification) error {
	if err := s.notificationRepo.Create(tx, n); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) Deliver(ctx context.Context, db *gorm.DB, notifications []*models.Notification) {
	if len(notifications) == 0 {
		return
	}
	if _, nop := s.provider.(email.NopProvider); nop {
		return
	}

	ids := make([]string, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.UserID)
	}
	users, err := s.userRepo.FindByIDs(db, ids)
	if err != nil {
		logger.CtxWithError(ctx, "failed to load notification recipients", err)
		return
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	type letter struct {
		to   string
		n    *models.Notification
		name string
	}
	letters := make([]letter, 0, len(notifications))
	for _, n := range notifications {
		u, ok := byID[n.UserID]
		if !ok || u.Email == "" {
			continue
		}
		letters = append(letters, letter{to: u.Email, n: n, name: u.FullName})
	}

	// только данные из памяти: горутина не трогает БД
	s.dispatch(func() {
		for _, l := range letters {
			data := email.TemplateData{
				"Name":      l.name,
				"Title":     l.n.Title,
				"Message":   l.n.Message,
				"ActionURL": s.actionURL(l.n.ActionURL),
			}
			if err := s.provider.SendTemplate([]string{l.to}, l.n.Title, email.TemplateNotification, data); err != nil {
				logger.CtxWithError(ctx, "failed to send notification email", err,
					"notification_id", l.n.ID, "type", l.n.Type)
			}
		}
	})
}

func (s *notificationService) actionURL(path string) string {
	if path == "" || s.appURL == "" {
		return path
	}
	return s.appURL + path
}
