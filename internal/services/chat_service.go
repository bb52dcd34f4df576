package services

import (
	"context"
	"fmt"
	"strings"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/conversation"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/models"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/services/dto"
	"kandu_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ChatService interface {
	Send(ctx context.Context, db *gorm.DB, caller auth.Caller, req *dto.SendMessageRequest) (*models.ChatMessage, error)
	// ListConversations - сводки по перепискам, видимым вызывающему.
	// Администратор видит все переписки.
	ListConversations(db *gorm.DB, caller auth.Caller) ([]dto.ConversationResponse, error)
	// OpenConversation отмечает прочитанными входящие вызывающему и возвращает переписку
	OpenConversation(db *gorm.DB, caller auth.Caller, conversationID string) (*dto.ConversationDetail, error)
	UnreadCount(db *gorm.DB, caller auth.Caller) (int64, error)
}

type chatService struct {
	chatRepo      repositories.ChatRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
}

func NewChatService(chatRepo repositories.ChatRepository, userRepo repositories.UserRepository, notifications NotificationService) ChatService {
	return &chatService{
		chatRepo:      chatRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *chatService) Send(ctx context.Context, db *gorm.DB, caller auth.Caller, req *dto.SendMessageRequest) (*models.ChatMessage, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Message)
	if text == "" && req.AttachmentURL == "" {
		return nil, apperrors.ErrEmptyMessage
	}
	if req.ReceiverID == caller.UserID {
		return nil, apperrors.ErrMessageToSelf
	}
	if req.AttachmentURL != "" && req.AttachmentType == "" {
		return nil, apperrors.ValidationError(map[string]string{"attachment_type": "attachment_type is required with attachment_url"})
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	sender, err := s.userRepo.FindByID(tx, caller.UserID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrUserNotFound)
	}
	if _, err := s.userRepo.FindByID(tx, req.ReceiverID); err != nil {
		return nil, handleRepoError(err, apperrors.ErrUserNotFound)
	}

	msg := &models.ChatMessage{
		ConversationID: conversation.ID(caller.UserID, req.ReceiverID),
		SenderID:       caller.UserID,
		ReceiverID:     req.ReceiverID,
		Message:        text,
		AttachmentURL:  req.AttachmentURL,
		AttachmentType: req.AttachmentType,
	}
	if err := s.chatRepo.Create(tx, msg); err != nil {
		return nil, apperrors.InternalError(err)
	}

	n := &models.Notification{
		UserID:    req.ReceiverID,
		Type:      models.NotificationNewMessage,
		Title:     "New message",
		Message:   fmt.Sprintf("%s sent you a message", displayName(sender)),
		RelatedID: msg.ConversationID,
		ActionURL: "/chat/" + msg.ConversationID,
	}
	if err := s.notifications.Notify(tx, n); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxDebug(ctx, "chat message sent", "conversation_id", msg.ConversationID, "message_id", msg.ID)
	// письмо на каждое сообщение не шлём: уведомление в приложении достаточно
	return msg, nil
}

func (s *chatService) ListConversations(db *gorm.DB, caller auth.Caller) ([]dto.ConversationResponse, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListVisible(db, caller.UserID, caller.IsAdmin())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	summaries := conversation.Aggregate(messages, caller.UserID)

	users, err := s.participants(db, summaries)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.ConversationResponse, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, toConversationResponse(sum, caller.UserID, users))
	}
	return out, nil
}

func (s *chatService) OpenConversation(db *gorm.DB, caller auth.Caller, conversationID string) (*dto.ConversationDetail, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	a, b, ok := conversation.Participants(conversationID)
	if !ok {
		return nil, apperrors.NewBadRequestError("malformed conversation id")
	}
	if caller.UserID != a && caller.UserID != b && !caller.IsAdmin() {
		return nil, apperrors.ErrConversationAccessDenied
	}

	if _, err := s.chatRepo.MarkConversationRead(db, conversationID, caller.UserID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	messages, err := s.chatRepo.ListConversation(db, conversationID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(messages) == 0 {
		return nil, apperrors.ErrNotFound(fmt.Errorf("conversation %s", conversationID))
	}

	// сводка пересчитывается после отметки о прочтении
	summaries := conversation.Aggregate(messages, caller.UserID)
	users, err := s.participants(db, summaries)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ConversationDetail{
		ConversationResponse: toConversationResponse(summaries[0], caller.UserID, users),
		Messages:             messages,
	}, nil
}

func (s *chatService) UnreadCount(db *gorm.DB, caller auth.Caller) (int64, error) {
	if err := requireUser(caller); err != nil {
		return 0, err
	}
	n, err := s.chatRepo.CountUnread(db, caller.UserID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

func (s *chatService) participants(db *gorm.DB, summaries []conversation.Summary) (map[string]*models.User, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(summaries)*2)
	for _, sum := range summaries {
		for _, id := range sum.Participants {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	users, err := s.userRepo.FindByIDs(db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

func toConversationResponse(sum conversation.Summary, callerID string, users map[string]*models.User) dto.ConversationResponse {
	other := sum.Participants[0]
	if other == callerID {
		other = sum.Participants[1]
	}
	return dto.ConversationResponse{
		ConversationID: sum.ConversationID,
		Participants:   sum.Participants,
		OtherUser:      dto.NewUserSummary(users[other]),
		LastMessage:    sum.LastMessage,
		LastMessageAt:  sum.LastMessageAt(),
		UnreadCount:    sum.UnreadCount,
		MessageCount:   sum.MessageCount,
	}
}

func displayName(u *models.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return "Someone"
}
