package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределённые ошибки бизнес-логики.
Переменные не мутируются: WithDetails / WithError возвращают копию.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidStatus - операция невозможна в текущем статусе (409)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// --- Users ---

var ErrUserNotFound = New(CodeNotFound, "user", "User not found", http.StatusNotFound)

// ErrUserTypeAlreadySet - тип аккаунта выбирается один раз при онбординге
var ErrUserTypeAlreadySet = New(
	CodeInvalidOperation,
	"user",
	"User type has already been chosen",
	http.StatusConflict,
)

// ErrInsufficientPermissions - роль пользователя не позволяет действие
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Jobs ---

var ErrJobNotFound = New(CodeNotFound, "job", "Job not found", http.StatusNotFound)

// ErrNotJobOwner - действие доступно только автору заказа
var ErrNotJobOwner = New(
	CodeForbidden,
	"job",
	"Only the job owner can perform this action",
	http.StatusForbidden,
)

// ErrNotAssignedWorker - действие доступно только назначенному исполнителю
var ErrNotAssignedWorker = New(
	CodeForbidden,
	"job",
	"Only the assigned worker can perform this action",
	http.StatusForbidden,
)

// ErrJobNotOpen - заказ больше не принимает отклики или правки
var ErrJobNotOpen = New(
	CodeInvalidStatus,
	"job",
	"Job is not open",
	http.StatusConflict,
)

// ErrInvalidJobStatus - переход невозможен из текущего статуса заказа
var ErrInvalidJobStatus = New(
	CodeInvalidStatus,
	"job",
	"Operation not allowed for the current job status",
	http.StatusConflict,
)

// ErrJobHasNoWorker - нельзя начать работу без исполнителя
var ErrJobHasNoWorker = New(
	CodeInvalidStatus,
	"job",
	"Job has no assigned worker",
	http.StatusConflict,
)

// --- Applications ---

var ErrApplicationNotFound = New(CodeNotFound, "application", "Application not found", http.StatusNotFound)

// ErrDuplicateApplication - у работника уже есть отклик на этот заказ
var ErrDuplicateApplication = New(
	CodeDuplicateApplication,
	"application",
	"You have already applied to this job",
	http.StatusConflict,
)

// ErrInvalidApplicationStatus - отклик уже рассмотрен
var ErrInvalidApplicationStatus = New(
	CodeInvalidStatus,
	"application",
	"Application has already been processed",
	http.StatusConflict,
)

// ErrCannotApplyToOwnJob - заказчик не может откликнуться на свой заказ
var ErrCannotApplyToOwnJob = New(
	CodeInvalidOperation,
	"application",
	"Cannot apply to your own job",
	http.StatusBadRequest,
)

// --- Ratings ---

// ErrDuplicateRating - оценка за этот заказ уже выставлена
var ErrDuplicateRating = New(
	CodeDuplicateRating,
	"rating",
	"Rating for this job has already been submitted",
	http.StatusConflict,
)

// --- Chat ---

// ErrConversationAccessDenied - пользователь не участник диалога
var ErrConversationAccessDenied = New(
	CodeForbidden,
	"chat",
	"Access to conversation denied",
	http.StatusForbidden,
)

// ErrEmptyMessage - нет ни текста, ни вложения
var ErrEmptyMessage = New(
	CodeValidationFailed,
	"validation",
	"Message text or attachment is required",
	http.StatusBadRequest,
)

// ErrMessageToSelf - нельзя писать самому себе
var ErrMessageToSelf = New(
	CodeInvalidOperation,
	"chat",
	"Cannot send a message to yourself",
	http.StatusBadRequest,
)

// --- Notifications ---

var ErrNotificationNotFound = New(CodeNotFound, "notification", "Notification not found", http.StatusNotFound)

// --- Uploads & Files ---

// ErrFileTooLarge - файл превышает максимальный размер
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - MIME-тип файла не разрешён
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// ErrInvalidUploadUsage - неизвестное назначение файла
var ErrInvalidUploadUsage = New(
	CodeValidationFailed,
	"validation",
	"Invalid 'usage' parameter",
	http.StatusBadRequest,
)

var ErrFileNotFound = New(CodeNotFound, "file", "File not found", http.StatusNotFound)

// --- Auth ---

// ErrWeakPassword - пароль слишком короткий
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

// ErrEmailAlreadyExists - email уже используется
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrInvalidCredentials - неверный email или пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrUserSuspended - аккаунт временно заблокирован
var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"Your account has been suspended",
	http.StatusForbidden,
)

// ErrUserBanned - аккаунт забанен
var ErrUserBanned = New(
	CodeForbidden,
	"auth",
	"Your account has been banned",
	http.StatusForbidden,
)

// ErrAdminOnly - операция только для администратора
var ErrAdminOnly = New(
	CodeForbidden,
	"admin",
	"Administrator access required",
	http.StatusForbidden,
)
