package handlers

import (
	"fmt"
	"strconv"
	"time"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/middleware"
	"kandu_backend/internal/validator"
	"kandu_backend/pkg/apperrors"
	"kandu_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// ============================================================================
// 2. DB из контекста запроса
// ============================================================================

// GetDB извлекает *gorm.DB из gin.Context.
// Ключ выставляет DBMiddleware, без него приложение собрано неверно.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db.WithContext(c.Request.Context())
}

// ============================================================================
// 3. Привязка и валидация
// ============================================================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// ============================================================================
// 4. Ошибки сервисов
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"code", appErr.Code,
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

// ============================================================================
// 5. Вызывающий пользователь
// ============================================================================

// GetCaller возвращает identity из JWT. При её отсутствии отвечает 401.
func (h *BaseHandler) GetCaller(c *gin.Context) (auth.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return auth.Caller{}, false
	}
	return caller, true
}

// ============================================================================
// 6. Парсинг query
// ============================================================================

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func ParseQueryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

// ParsePagination читает page и limit (page_size как синоним)
func ParsePagination(c *gin.Context) (page int, limit int) {
	const defaultPage = 1
	const defaultLimit = 20
	const maxLimit = 100

	page = ParseQueryInt(c, "page", defaultPage)
	if page <= 0 {
		page = defaultPage
	}

	limit = ParseQueryInt(c, "limit", ParseQueryInt(c, "page_size", defaultLimit))
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}

// parseQueryTime принимает RFC3339 или дату YYYY-MM-DD в поясе loc
func parseQueryTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}

// ParseQueryDateRange читает date_from, date_to и tz.
// По умолчанию окно defaultDays дней начиная с сегодняшнего.
// Дата без времени в date_to включает весь день.
func ParseQueryDateRange(c *gin.Context, defaultDays int) (time.Time, time.Time, *time.Location, error) {
	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, time.Time{}, nil, apperrors.NewBadRequestError("Invalid tz: " + tz)
		}
		loc = l
	}

	now := time.Now().In(loc)
	dateFrom := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dateTo := dateFrom.AddDate(0, 0, defaultDays)

	var err error
	if s := c.Query("date_from"); s != "" {
		dateFrom, err = parseQueryTime(s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, nil, apperrors.NewBadRequestError("Invalid date_from format. Use RFC3339 or YYYY-MM-DD")
		}
	}

	if s := c.Query("date_to"); s != "" {
		dateTo, err = parseQueryTime(s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, nil, apperrors.NewBadRequestError("Invalid date_to format. Use RFC3339 or YYYY-MM-DD")
		}
		if len(s) == len("2006-01-02") {
			dateTo = dateTo.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}

	if dateFrom.After(dateTo) {
		return time.Time{}, time.Time{}, nil, apperrors.NewBadRequestError("date_from cannot be after date_to")
	}

	return dateFrom, dateTo, loc, nil
}
