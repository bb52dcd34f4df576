package services

import (
	"errors"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/repositories"
	"kandu_backend/pkg/apperrors"
)

// handleRepoError переводит ошибки репозитория в ошибки API.
// notFound - доменная ошибка для ErrNotFound.
func handleRepoError(err error, notFound *apperrors.AppError) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		if notFound != nil {
			return notFound
		}
		return apperrors.ErrNotFound(err)
	case errors.Is(err, repositories.ErrUnknownField):
		return apperrors.ValidationError(err.Error())
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.ErrAlreadyExists(err)
	default:
		return apperrors.InternalError(err)
	}
}

// requireUser - запрос должен идти от аутентифицированного пользователя
func requireUser(caller auth.Caller) error {
	if caller.UserID == "" {
		return apperrors.NewUnauthorizedError("Authentication required")
	}
	return nil
}

func requireAdmin(caller auth.Caller) error {
	if err := requireUser(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return apperrors.ErrAdminOnly
	}
	return nil
}

// normalizePage - страница с 1, лимит в пределах [1, 100]
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
