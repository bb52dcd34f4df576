package services

import (
	"context"
	"testing"

	"kandu_backend/internal/conversation"
	"kandu_backend/internal/models"
	"kandu_backend/internal/services/dto"
	"kandu_backend/pkg/apperrors"
	"kandu_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSend_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	bob := helpers.CreateUser(t, env.db, models.UserTypeWorker)

	_, err := env.services.ChatService.Send(ctx, env.db, helpers.Caller(alice), &dto.SendMessageRequest{ReceiverID: bob.ID, Message: "   "})
	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)

	_, err = env.services.ChatService.Send(ctx, env.db, helpers.Caller(alice), &dto.SendMessageRequest{ReceiverID: alice.ID, Message: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrMessageToSelf)

	_, err = env.services.ChatService.Send(ctx, env.db, helpers.Caller(alice), &dto.SendMessageRequest{ReceiverID: "ghost", Message: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// вложение без текста допустимо
	msg, err := env.services.ChatService.Send(ctx, env.db, helpers.Caller(alice), &dto.SendMessageRequest{
		ReceiverID:     bob.ID,
		AttachmentURL:  "/files/chat_attachment/x.png",
		AttachmentType: models.AttachmentTypeImage,
	})
	require.NoError(t, err)
	assert.Equal(t, conversation.ID(alice.ID, bob.ID), msg.ConversationID)
}

func TestChat_OpenConversationMarksRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	bob := helpers.CreateUser(t, env.db, models.UserTypeWorker)

	for _, text := range []string{"Are you free?", "Tomorrow at 9?"} {
		_, err := env.services.ChatService.Send(ctx, env.db, helpers.Caller(alice), &dto.SendMessageRequest{ReceiverID: bob.ID, Message: text})
		require.NoError(t, err)
	}

	unread, err := env.services.ChatService.UnreadCount(env.db, helpers.Caller(bob))
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	convs, err := env.services.ChatService.ListConversations(env.db, helpers.Caller(bob))
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 2, convs[0].UnreadCount)
	assert.Equal(t, 2, convs[0].MessageCount)

	// у отправителя непрочитанных нет
	convs, err = env.services.ChatService.ListConversations(env.db, helpers.Caller(alice))
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Zero(t, convs[0].UnreadCount)

	detail, err := env.services.ChatService.OpenConversation(env.db, helpers.Caller(bob), convs[0].ConversationID)
	require.NoError(t, err)
	assert.Zero(t, detail.UnreadCount)
	assert.Len(t, detail.Messages, 2)
	assert.Equal(t, alice.ID, detail.OtherUser.ID)

	unread, err = env.services.ChatService.UnreadCount(env.db, helpers.Caller(bob))
	require.NoError(t, err)
	assert.Zero(t, unread)

	// по уведомлению new_message на сообщение, без писем
	notifications, err := env.services.NotificationService.UnreadCount(env.db, helpers.Caller(bob))
	require.NoError(t, err)
	assert.Equal(t, int64(2), notifications)
	assert.Empty(t, env.mail.Sent())
}

func TestChat_Visibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := helpers.CreateUser(t, env.db, models.UserTypeEmployer)
	bob := helpers.CreateUser(t, env.db, models.UserTypeWorker)
	eve := helpers.CreateUser(t, env.db, models.UserTypeWorker)
	root := helpers.CreateUser(t, env.db, models.UserTypeAdmin)

	_, err := env.services.ChatService.Send(ctx, env.db, helpers.Caller(alice), &dto.SendMessageRequest{ReceiverID: bob.ID, Message: "private"})
	require.NoError(t, err)
	_, err = env.services.ChatService.Send(ctx, env.db, helpers.Caller(eve), &dto.SendMessageRequest{ReceiverID: root.ID, Message: "help"})
	require.NoError(t, err)

	convID := conversation.ID(alice.ID, bob.ID)

	_, err = env.services.ChatService.OpenConversation(env.db, helpers.Caller(eve), convID)
	assert.ErrorIs(t, err, apperrors.ErrConversationAccessDenied)

	_, err = env.services.ChatService.OpenConversation(env.db, helpers.Caller(eve), "not-a-conversation")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	eveConvs, err := env.services.ChatService.ListConversations(env.db, helpers.Caller(eve))
	require.NoError(t, err)
	assert.Len(t, eveConvs, 1)

	adminConvs, err := env.services.ChatService.ListConversations(env.db, helpers.Caller(root))
	require.NoError(t, err)
	assert.Len(t, adminConvs, 2)

	detail, err := env.services.ChatService.OpenConversation(env.db, helpers.Caller(root), convID)
	require.NoError(t, err)
	assert.Len(t, detail.Messages, 1)

	bobUnread, err := env.services.ChatService.UnreadCount(env.db, helpers.Caller(bob))
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobUnread, "admin reading does not mark bob's messages")
}
