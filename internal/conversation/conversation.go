// Package conversation строит список диалогов из плоского журнала сообщений.
// Отдельной сущности "диалог" нет: диалог - это все сообщения с одним conversation_id.
package conversation

import (
	"sort"
	"strings"
	"time"

	"kandu_backend/internal/models"
)

const idSeparator = "_"

// ID - детерминированный идентификатор диалога двух пользователей.
// Не зависит от того, кто написал первым.
func ID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + idSeparator + b
}

// Participants разбирает conversation_id обратно на пару id
func Participants(conversationID string) (string, string, bool) {
	a, b, ok := strings.Cut(conversationID, idSeparator)
	if !ok || a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}

// Summary - сводка по одному диалогу для конкретного пользователя
type Summary struct {
	ConversationID string              `json:"conversation_id"`
	Participants   [2]string           `json:"participants"`
	LastMessage    *models.ChatMessage `json:"last_message"`
	UnreadCount    int                 `json:"unread_count"`
	MessageCount   int                 `json:"message_count"`
}

// LastMessageAt - время последнего сообщения
func (s Summary) LastMessageAt() time.Time {
	if s.LastMessage == nil {
		return time.Time{}
	}
	return s.LastMessage.CreatedAt
}

// Visible - может ли пользователь видеть сообщение.
// Администратор видит всё, остальные - только свою переписку.
func Visible(msg *models.ChatMessage, callerID string, isAdmin bool) bool {
	return isAdmin || msg.SenderID == callerID || msg.ReceiverID == callerID
}

// Aggregate группирует сообщения по conversation_id.
// Непрочитанные считаются только среди адресованных callerID.
// Результат отсортирован по времени последнего сообщения, новые сверху.
func Aggregate(messages []models.ChatMessage, callerID string) []Summary {
	byID := make(map[string]*Summary)
	order := make([]string, 0)

	for i := range messages {
		msg := &messages[i]
		s, ok := byID[msg.ConversationID]
		if !ok {
			s = &Summary{
				ConversationID: msg.ConversationID,
				Participants:   participantsOf(msg),
			}
			byID[msg.ConversationID] = s
			order = append(order, msg.ConversationID)
		}

		s.MessageCount++
		if isLater(msg, s.LastMessage) {
			s.LastMessage = msg
		}
		if !msg.IsRead && msg.ReceiverID == callerID {
			s.UnreadCount++
		}
	}

	result := make([]Summary, 0, len(order))
	for _, id := range order {
		result = append(result, *byID[id])
	}

	sort.SliceStable(result, func(i, j int) bool {
		ti, tj := result[i].LastMessageAt(), result[j].LastMessageAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return result[i].ConversationID < result[j].ConversationID
	})
	return result
}

// UnreadTotal - сколько всего непрочитанных адресовано пользователю
func UnreadTotal(summaries []Summary) int {
	total := 0
	for _, s := range summaries {
		total += s.UnreadCount
	}
	return total
}

// isLater: сообщения с одинаковым created_date упорядочиваются по id
func isLater(msg, current *models.ChatMessage) bool {
	if current == nil {
		return true
	}
	if msg.CreatedAt.Equal(current.CreatedAt) {
		return msg.ID > current.ID
	}
	return msg.CreatedAt.After(current.CreatedAt)
}

func participantsOf(msg *models.ChatMessage) [2]string {
	if a, b, ok := Participants(msg.ConversationID); ok {
		return [2]string{a, b}
	}
	a, b := msg.SenderID, msg.ReceiverID
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
