package models

// --- Пользователи ---

type UserType string

const (
	UserTypeUnset    UserType = ""
	UserTypeWorker   UserType = "worker"
	UserTypeEmployer UserType = "employer"
	UserTypeAdmin    UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

// --- Заказы ---

type JobStatus string

const (
	JobStatusOpen                JobStatus = "open"
	JobStatusInProgress          JobStatus = "in_progress"
	JobStatusCompletedByEmployer JobStatus = "completed_by_employer"
	JobStatusCompleted           JobStatus = "completed"
	JobStatusCancelled           JobStatus = "cancelled"
)

type PriceType string

const (
	PriceTypeFixed  PriceType = "fixed"
	PriceTypeHourly PriceType = "hourly"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// --- Отклики ---

type ApplicationType string

const (
	ApplicationTypeApplication ApplicationType = "application"
	ApplicationTypeProposal    ApplicationType = "proposal"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// --- Чат ---

type AttachmentType string

const (
	AttachmentTypeImage    AttachmentType = "image"
	AttachmentTypeDocument AttachmentType = "document"
)

// --- Уведомления ---

type NotificationType string

const (
	NotificationNewApplication    NotificationType = "new_application"
	NotificationNewProposal       NotificationType = "new_proposal"
	NotificationJobAccepted       NotificationType = "job_accepted"
	NotificationJobRejected       NotificationType = "job_rejected"
	NotificationJobStarted        NotificationType = "job_started"
	NotificationJobReadyForReview NotificationType = "job_ready_for_review"
	NotificationJobCompleted      NotificationType = "job_completed"
	NotificationNewMessage        NotificationType = "new_message"
)
