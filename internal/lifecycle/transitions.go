// Package lifecycle описывает граф статусов заказа.
//
//	open ──► in_progress ──► completed_by_employer ──► completed
//
// Движение только вперёд. completed и cancelled - терминальные статусы;
// в cancelled не ведёт ни один реализованный переход.
package lifecycle

import (
	"fmt"

	"kandu_backend/internal/models"
)

// Action - действие участника, переводящее заказ в новый статус
type Action string

const (
	ActionAccept           Action = "accept"
	ActionStart            Action = "start"
	ActionEmployerComplete Action = "employer_complete"
	ActionWorkerComplete   Action = "worker_complete"
)

var validTransitions = map[models.JobStatus][]models.JobStatus{
	models.JobStatusOpen:                {models.JobStatusInProgress},
	models.JobStatusInProgress:          {models.JobStatusCompletedByEmployer},
	models.JobStatusCompletedByEmployer: {models.JobStatusCompleted},
}

// preconditions - из каких статусов допустимо каждое действие
var preconditions = map[Action][]models.JobStatus{
	ActionAccept:           {models.JobStatusOpen, models.JobStatusInProgress},
	ActionStart:            {models.JobStatusOpen, models.JobStatusInProgress},
	ActionEmployerComplete: {models.JobStatusInProgress},
	ActionWorkerComplete:   {models.JobStatusCompletedByEmployer},
}

// ParseStatus приводит строку к статусу заказа
func ParseStatus(s string) (models.JobStatus, error) {
	st := models.JobStatus(s)
	switch st {
	case models.JobStatusOpen, models.JobStatusInProgress, models.JobStatusCompletedByEmployer,
		models.JobStatusCompleted, models.JobStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// IsTransitionAllowed - разрешён ли переход from → to
func IsTransitionAllowed(from, to models.JobStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal - у статуса нет исходящих переходов
func IsTerminal(s models.JobStatus) bool {
	return len(validTransitions[s]) == 0
}

// CanPerform - допустимо ли действие при текущем статусе заказа
func CanPerform(a Action, current models.JobStatus) bool {
	for _, s := range preconditions[a] {
		if s == current {
			return true
		}
	}
	return false
}

// Target - статус, в который действие переводит заказ
func Target(a Action) models.JobStatus {
	switch a {
	case ActionAccept, ActionStart:
		return models.JobStatusInProgress
	case ActionEmployerComplete:
		return models.JobStatusCompletedByEmployer
	case ActionWorkerComplete:
		return models.JobStatusCompleted
	}
	return ""
}

// Advance проверяет действие и возвращает новый статус.
// Повторный перевод в тот же статус (например, повторный start) не считается ошибкой.
func Advance(a Action, current models.JobStatus) (models.JobStatus, error) {
	if !CanPerform(a, current) {
		return current, fmt.Errorf("action %s is not allowed in status %s", a, current)
	}
	next := Target(a)
	if next != current && !IsTransitionAllowed(current, next) {
		return current, fmt.Errorf("transition %s -> %s is not allowed", current, next)
	}
	return next, nil
}
