package handlers

import (
	"net/http"

	"kandu_backend/internal/middleware"
	"kandu_backend/internal/services"
	"kandu_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService   services.UserService
	ratingService services.RatingService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, ratingService services.RatingService) *UserHandler {
	return &UserHandler{
		BaseHandler:   base,
		userService:   userService,
		ratingService: ratingService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.GetMe)
		users.PUT("/me", h.UpdateMe)
		users.PUT("/me/type", h.SetUserType)

		users.POST("/me/portfolio", h.AddPortfolioImage)
		users.DELETE("/me/portfolio", h.RemovePortfolioImage)
		users.POST("/me/documents", h.AddDocument)
		users.DELETE("/me/documents", h.RemoveDocument)

		users.GET("/:userId", h.GetProfile)
		users.GET("/:userId/ratings", h.GetRatings)
	}
}

// GetMe godoc
// @Summary Текущий пользователь
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	user, err := h.userService.GetMe(h.GetDB(c), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateMe(h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// SetUserType godoc
// @Summary Выбор типа аккаунта (онбординг)
// @Description Тип выбирается один раз. В ответе новый токен с выбранным типом.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SetUserTypeRequest true "Тип аккаунта"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /users/me/type [put]
func (h *UserHandler) SetUserType(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.SetUserTypeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.userService.SetUserType(c.Request.Context(), h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) AddPortfolioImage(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.PortfolioImageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.AddPortfolioImage(h.GetDB(c), caller, req.URL)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) RemovePortfolioImage(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.PortfolioImageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.RemovePortfolioImage(h.GetDB(c), caller, req.URL)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) AddDocument(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.AddDocumentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.AddDocument(h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) RemoveDocument(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.RemoveDocumentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.RemoveDocument(h.GetDB(c), caller, req.URL)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetProfile godoc
// @Summary Публичный профиль пользователя
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path string true "ID пользователя"
// @Success 200 {object} dto.PublicProfile
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /users/{userId} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetPublicProfile(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetRatings(c *gin.Context) {
	ratings, err := h.ratingService.ListForUser(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ratings": ratings, "total": len(ratings)})
}
