package handlers

import (
	"net/http"

	"kandu_backend/internal/middleware"
	"kandu_backend/internal/services"
	"kandu_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("/chat")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.POST("/messages", h.SendMessage)
		chat.GET("/conversations", h.ListConversations)
		chat.GET("/conversations/:conversationId", h.OpenConversation)
		chat.GET("/unread-count", h.UnreadCount)
	}
}

// SendMessage godoc
// @Summary Отправить сообщение
// @Description Переписка определяется парой участников. Нужен текст или вложение.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "Сообщение"
// @Success 201 {object} models.ChatMessage
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /chat/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.chatService.Send(c.Request.Context(), h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// ListConversations godoc
// @Summary Переписки пользователя
// @Description Последнее сообщение, число непрочитанных. Сначала самые свежие.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ConversationResponse
// @Router /chat/conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	conversations, err := h.chatService.ListConversations(h.GetDB(c), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations, "total": len(conversations)})
}

// OpenConversation отдаёт переписку и отмечает входящие прочитанными
func (h *ChatHandler) OpenConversation(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	detail, err := h.chatService.OpenConversation(h.GetDB(c), caller, c.Param("conversationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	count, err := h.chatService.UnreadCount(h.GetDB(c), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}
