package handlers

import (
	"net/http"

	"kandu_backend/internal/middleware"
	"kandu_backend/internal/models"
	"kandu_backend/internal/services"
	"kandu_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
	chatService  services.ChatService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService, chatService services.ChatService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
		chatService:  chatService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserTypeAdmin))
	{
		admin.POST("/wipe", h.Wipe)
		admin.GET("/users", h.ListUsers)
		admin.GET("/stats", h.Stats)
		admin.GET("/conversations", h.ListConversations)

		admin.GET("/blacklist", h.ListBlacklist)
		admin.POST("/blacklist", h.AddToBlacklist)
		admin.DELETE("/blacklist/:id", h.RemoveFromBlacklist)
	}
}

// Wipe godoc
// @Summary Очистить данные платформы
// @Description Удаляет заказы, отклики, сообщения, уведомления и оценки. Обнуляет рейтинг, опыт и портфолио пользователей. Одна транзакция.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} admin.WipeResult
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /admin/wipe [post]
func (h *AdminHandler) Wipe(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	result, err := h.adminService.Wipe(c.Request.Context(), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var query dto.AdminUserQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	page, limit := ParsePagination(c)

	response, err := h.adminService.ListUsers(h.GetDB(c), caller, &query, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	stats, err := h.adminService.Stats(h.GetDB(c), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListConversations - все переписки платформы, администратор видит каждую
func (h *AdminHandler) ListConversations(c *gin.Context) {
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

func (h *AdminHandler) ListBlacklist(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	entries, err := h.adminService.ListBlacklist(h.GetDB(c), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

func (h *AdminHandler) AddToBlacklist(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.BlacklistRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	entry, err := h.adminService.AddToBlacklist(c.Request.Context(), h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *AdminHandler) RemoveFromBlacklist(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	if err := h.adminService.RemoveFromBlacklist(c.Request.Context(), h.GetDB(c), caller, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
