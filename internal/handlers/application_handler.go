package handlers

import (
	"net/http"

	"kandu_backend/internal/middleware"
	"kandu_backend/internal/models"
	"kandu_backend/internal/services"
	"kandu_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	applications := r.Group("/applications")
	applications.Use(middleware.AuthMiddleware())
	{
		applications.GET("/my", h.ListMine)
		applications.POST("/:applicationId/accept", h.Accept)
		applications.POST("/:applicationId/reject", h.Reject)
	}
}

// ListMine - отклики текущего работника, опционально по статусу
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var query dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	apps, err := h.applicationService.ListMine(h.GetDB(c), caller, models.ApplicationStatus(query.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

// Accept godoc
// @Summary Принять отклик
// @Description Назначает работника на заказ. Для proposal цена заказа становится предложенной.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationId path string true "ID отклика"
// @Success 200 {object} models.Application
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Отклик уже рассмотрен"
// @Router /applications/{applicationId}/accept [post]
func (h *ApplicationHandler) Accept(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	app, err := h.applicationService.Accept(c.Request.Context(), h.GetDB(c), caller, c.Param("applicationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Reject(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	app, err := h.applicationService.Reject(c.Request.Context(), h.GetDB(c), caller, c.Param("applicationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
