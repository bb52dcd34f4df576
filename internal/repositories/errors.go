package repositories

import "errors"

var (
	// ErrNotFound - запись с таким id (или по такому фильтру) не найдена
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate - нарушено ограничение уникальности, ничего не записано
	ErrDuplicate = errors.New("duplicate record")
	// ErrUnknownField - поле фильтра/сортировки/обновления не входит в белый список
	ErrUnknownField = errors.New("unknown field")
)
