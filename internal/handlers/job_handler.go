package handlers

import (
	"net/http"

	"kandu_backend/internal/middleware"
	"kandu_backend/internal/models"
	"kandu_backend/internal/services"
	"kandu_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// calendarDefaultDays - окно календаря без date_from/date_to
const calendarDefaultDays = 31

type JobHandler struct {
	*BaseHandler
	jobService         services.JobService
	applicationService services.ApplicationService
	lifecycleService   services.LifecycleService
	ratingService      services.RatingService
}

func NewJobHandler(
	base *BaseHandler,
	jobService services.JobService,
	applicationService services.ApplicationService,
	lifecycleService services.LifecycleService,
	ratingService services.RatingService,
) *JobHandler {
	return &JobHandler{
		BaseHandler:        base,
		jobService:         jobService,
		applicationService: applicationService,
		lifecycleService:   lifecycleService,
		ratingService:      ratingService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.POST("", middleware.RoleMiddleware(models.UserTypeEmployer), h.CreateJob)
		jobs.GET("", h.ListJobs)
		jobs.GET("/calendar", h.Calendar)
		jobs.GET("/:jobId", h.GetJob)
		jobs.PUT("/:jobId", h.UpdateJob)

		jobs.POST("/:jobId/applications", middleware.RoleMiddleware(models.UserTypeWorker), h.Apply)
		jobs.GET("/:jobId/applications", h.ListApplications)

		// Оба пути ведут в один идемпотентный переход
		jobs.POST("/:jobId/start", h.StartJob)
		jobs.POST("/:jobId/qr-confirm", h.StartJob)

		jobs.POST("/:jobId/complete", h.CompleteJob)
		jobs.POST("/:jobId/confirm-completion", h.ConfirmCompletion)
		jobs.GET("/:jobId/ratings", h.ListRatings)
	}
}

// CreateJob godoc
// @Summary Создать заказ
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Заказ"
// @Success 201 {object} models.Job
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse "Только для заказчиков"
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// ListJobs godoc
// @Summary Список заказов
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param status query string false "open | in_progress | completed_by_employer | completed"
// @Param category query string false "Категория"
// @Param urgency query string false "low | medium | high"
// @Param employer_id query string false "Заказчик"
// @Param worker_id query string false "Исполнитель"
// @Param sort query string false "Поле сортировки, '-' для убывания"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} dto.JobListResponse
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	page, limit := ParsePagination(c)

	response, err := h.jobService.List(h.GetDB(c), &query, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Calendar godoc
// @Summary Календарь заказов пользователя
// @Description Заказы, где пользователь заказчик или исполнитель, сгруппированные по дню начала
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param date_from query string false "RFC3339 или YYYY-MM-DD"
// @Param date_to query string false "RFC3339 или YYYY-MM-DD"
// @Param tz query string false "IANA часовой пояс, по умолчанию UTC"
// @Success 200 {array} calendar.Day
// @Router /jobs/calendar [get]
func (h *JobHandler) Calendar(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	from, to, loc, err := ParseQueryDateRange(c, calendarDefaultDays)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	days, err := h.jobService.Calendar(h.GetDB(c), caller, from, to, loc)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), h.GetDB(c), caller, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), h.GetDB(c), caller, c.Param("jobId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// Apply godoc
// @Summary Откликнуться на заказ
// @Description direct - согласие на цену заказа, proposal - встречное предложение с proposed_price
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "ID заказа"
// @Param request body dto.ApplyRequest true "Отклик"
// @Success 201 {object} models.Application
// @Failure 409 {object} apperrors.ErrorResponse "Повторный отклик"
// @Router /jobs/{jobId}/applications [post]
func (h *JobHandler) Apply(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), h.GetDB(c), caller, c.Param("jobId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *JobHandler) ListApplications(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.ListForJob(h.GetDB(c), caller, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

// StartJob godoc
// @Summary Начать работу по заказу
// @Description Повторный вызов на уже начатом заказе возвращает заказ без изменений
// @Tags lifecycle
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "ID заказа"
// @Success 200 {object} models.Job
// @Failure 409 {object} apperrors.ErrorResponse "Недопустимый статус"
// @Router /jobs/{jobId}/start [post]
func (h *JobHandler) StartJob(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	job, err := h.lifecycleService.Start(c.Request.Context(), h.GetDB(c), caller, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// CompleteJob godoc
// @Summary Заказчик завершает заказ и оценивает работника
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "ID заказа"
// @Param request body dto.CompleteJobRequest true "Оценка"
// @Success 200 {object} dto.CompletionResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /jobs/{jobId}/complete [post]
func (h *JobHandler) CompleteJob(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.CompleteJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.lifecycleService.EmployerComplete(c.Request.Context(), h.GetDB(c), caller, c.Param("jobId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ConfirmCompletion godoc
// @Summary Работник подтверждает завершение и оценивает заказчика
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "ID заказа"
// @Param request body dto.CompleteJobRequest true "Оценка"
// @Success 200 {object} dto.CompletionResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /jobs/{jobId}/confirm-completion [post]
func (h *JobHandler) ConfirmCompletion(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.CompleteJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.lifecycleService.WorkerComplete(c.Request.Context(), h.GetDB(c), caller, c.Param("jobId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) ListRatings(c *gin.Context) {
	ratings, err := h.ratingService.ListForJob(h.GetDB(c), c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ratings": ratings, "total": len(ratings)})
}
