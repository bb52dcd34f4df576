package conversation_test

import (
	"testing"
	"time"

	"kandu_backend/internal/conversation"
	"kandu_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func msg(id, from, to string, offset time.Duration, read bool) models.ChatMessage {
	m := models.ChatMessage{
		ConversationID: conversation.ID(from, to),
		SenderID:       from,
		ReceiverID:     to,
		Message:        "msg " + id,
		IsRead:         read,
	}
	m.ID = id
	m.CreatedAt = base.Add(offset)
	return m
}

func TestID_IsOrderIndependent(t *testing.T) {
	assert.Equal(t, conversation.ID("alice", "bob"), conversation.ID("bob", "alice"))
	assert.Equal(t, "alice_bob", conversation.ID("bob", "alice"))
}

func TestParticipants(t *testing.T) {
	a, b, ok := conversation.Participants(conversation.ID("u2", "u1"))
	require.True(t, ok)
	assert.Equal(t, "u1", a)
	assert.Equal(t, "u2", b)

	_, _, ok = conversation.Participants("broken")
	assert.False(t, ok)
}

func TestAggregate_TwoConversations(t *testing.T) {
	messages := []models.ChatMessage{
		msg("m1", "bob", "me", 1*time.Minute, false),
		msg("m2", "carol", "me", 5*time.Minute, false),
		msg("m3", "me", "bob", 3*time.Minute, false),
	}

	got := conversation.Aggregate(messages, "me")
	require.Len(t, got, 2)

	// carol last wrote at +5m, bob conversation ends at +3m
	assert.Equal(t, conversation.ID("carol", "me"), got[0].ConversationID)
	assert.Equal(t, "m2", got[0].LastMessage.ID)
	assert.Equal(t, 1, got[0].UnreadCount)

	assert.Equal(t, conversation.ID("bob", "me"), got[1].ConversationID)
	assert.Equal(t, "m3", got[1].LastMessage.ID)
	assert.Equal(t, 1, got[1].UnreadCount, "own unread outgoing message must not count")
	assert.Equal(t, 2, got[1].MessageCount)
	assert.Equal(t, [2]string{"bob", "me"}, got[1].Participants)
}

func TestAggregate_ReadMessagesAreNotCounted(t *testing.T) {
	messages := []models.ChatMessage{
		msg("m1", "bob", "me", time.Minute, true),
		msg("m2", "bob", "me", 2*time.Minute, true),
	}
	got := conversation.Aggregate(messages, "me")
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].UnreadCount)
	assert.Equal(t, 0, conversation.UnreadTotal(got))
}

func TestAggregate_InputOrderDoesNotMatter(t *testing.T) {
	a := []models.ChatMessage{
		msg("m1", "bob", "me", time.Minute, false),
		msg("m2", "bob", "me", 2*time.Minute, false),
		msg("m3", "me", "bob", 3*time.Minute, false),
	}
	b := []models.ChatMessage{a[2], a[0], a[1]}

	ga := conversation.Aggregate(a, "me")
	gb := conversation.Aggregate(b, "me")
	require.Len(t, gb, 1)
	assert.Equal(t, ga[0].LastMessage.ID, gb[0].LastMessage.ID)
	assert.Equal(t, ga[0].UnreadCount, gb[0].UnreadCount)
	assert.Equal(t, 2, gb[0].UnreadCount)
}

func TestAggregate_SameTimestampTieBreak(t *testing.T) {
	messages := []models.ChatMessage{
		msg("b", "bob", "me", time.Minute, false),
		msg("a", "me", "bob", time.Minute, false),
	}
	got := conversation.Aggregate(messages, "me")
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].LastMessage.ID)
}

func TestAggregate_Empty(t *testing.T) {
	got := conversation.Aggregate(nil, "me")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestVisible(t *testing.T) {
	m := msg("m1", "bob", "carol", 0, false)
	assert.True(t, conversation.Visible(&m, "bob", false))
	assert.True(t, conversation.Visible(&m, "carol", false))
	assert.False(t, conversation.Visible(&m, "dave", false))
	assert.True(t, conversation.Visible(&m, "dave", true))
}
