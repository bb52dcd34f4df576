package repositories

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortSpec - поле сортировки в API-имени; префикс "-" означает убывание.
// Пример: "-created_date".
type SortSpec string

// In - условие принадлежности множеству ($in)
type In []any

// Filter - поле → точное значение или In{...}. nil означает IS NULL.
type Filter map[string]any

// Fields - частичное обновление: поле → новое значение
type Fields map[string]any

// EntityStore - общий CRUD/фильтр над таблицей записей типа T.
// Имена полей приходят в API-формате и переводятся в колонки по белому списку.
type EntityStore[T any] struct {
	columns     map[string]string
	defaultSort SortSpec
}

// NewEntityStore создаёт хранилище. id и created_date доступны всегда.
func NewEntityStore[T any](columns map[string]string, defaultSort SortSpec) EntityStore[T] {
	all := map[string]string{
		"id":           "id",
		"created_date": "created_at",
		"updated_date": "updated_at",
	}
	for k, v := range columns {
		all[k] = v
	}
	return EntityStore[T]{columns: all, defaultSort: defaultSort}
}

// Column переводит API-имя поля в имя колонки
func (s EntityStore[T]) Column(field string) (string, error) {
	col, ok := s.columns[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return col, nil
}

// List - все записи в порядке sort (или порядке по умолчанию)
func (s EntityStore[T]) List(db *gorm.DB, sort SortSpec) ([]T, error) {
	return s.Filter(db, nil, sort)
}

// Filter - записи, подходящие под все условия фильтра
func (s EntityStore[T]) Filter(db *gorm.DB, filter Filter, sort SortSpec) ([]T, error) {
	q, err := s.Query(db, filter, sort)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FilterPage - как Filter, но с limit/offset (limit <= 0 - без ограничения)
func (s EntityStore[T]) FilterPage(db *gorm.DB, filter Filter, sort SortSpec, limit, offset int) ([]T, int64, error) {
	q, err := s.where(db.Model(new(T)), filter)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q, err = s.Query(db, filter, sort)
	if err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	out := make([]T, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Count - число записей под фильтром
func (s EntityStore[T]) Count(db *gorm.DB, filter Filter) (int64, error) {
	q, err := s.where(db.Model(new(T)), filter)
	if err != nil {
		return 0, err
	}
	var n int64
	return n, q.Count(&n).Error
}

// Query собирает запрос с условиями и сортировкой, не выполняя его
func (s EntityStore[T]) Query(db *gorm.DB, filter Filter, sort SortSpec) (*gorm.DB, error) {
	q, err := s.where(db.Model(new(T)), filter)
	if err != nil {
		return nil, err
	}
	return s.order(q, sort)
}

// Get - запись по id
func (s EntityStore[T]) Get(db *gorm.DB, id string) (*T, error) {
	var rec T
	if err := db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// GetForUpdate - запись по id с блокировкой строки до конца транзакции
func (s EntityStore[T]) GetForUpdate(db *gorm.DB, id string) (*T, error) {
	return s.Get(forUpdate(db), id)
}

// Create - id и created_date проставляются при вставке
func (s EntityStore[T]) Create(db *gorm.DB, rec *T) error {
	if err := db.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// CreateIfAbsent - атомарная вставка: при конфликте по conflictColumns
// ничего не пишет и возвращает false.
func (s EntityStore[T]) CreateIfAbsent(db *gorm.DB, rec *T, conflictColumns ...string) (bool, error) {
	cols := make([]clause.Column, 0, len(conflictColumns))
	for _, c := range conflictColumns {
		cols = append(cols, clause.Column{Name: c})
	}
	res := db.Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).Create(rec)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Update - частичное обновление по id, возвращает свежую запись
func (s EntityStore[T]) Update(db *gorm.DB, id string, fields Fields) (*T, error) {
	if len(fields) == 0 {
		return s.Get(db, id)
	}
	values := make(map[string]any, len(fields))
	for field, v := range fields {
		col, err := s.Column(field)
		if err != nil {
			return nil, err
		}
		values[col] = v
	}

	res := db.Model(new(T)).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(db, id)
}

// Delete - удаление по id
func (s EntityStore[T]) Delete(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s EntityStore[T]) where(q *gorm.DB, filter Filter) (*gorm.DB, error) {
	// детерминированный порядок условий - проще читать логи SQL
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, field := range keys {
		col, err := s.Column(field)
		if err != nil {
			return nil, err
		}
		column := clause.Column{Table: clause.CurrentTable, Name: col}
		switch v := filter[field].(type) {
		case In:
			if len(v) == 0 {
				// пустое множество ничего не матчит
				q = q.Where("1 = 0")
				continue
			}
			q = q.Where(clause.IN{Column: column, Values: []any(v)})
		default:
			q = q.Where(clause.Eq{Column: column, Value: v})
		}
	}
	return q, nil
}

func (s EntityStore[T]) order(q *gorm.DB, spec SortSpec) (*gorm.DB, error) {
	if spec == "" {
		spec = s.defaultSort
	}
	if spec == "" {
		return q, nil
	}
	field, desc := strings.TrimPrefix(string(spec), "-"), strings.HasPrefix(string(spec), "-")
	col, err := s.Column(field)
	if err != nil {
		return nil, err
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: col}, Desc: desc})
	if col != "id" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Desc: desc})
	}
	return q, nil
}

// forUpdate - SELECT ... FOR UPDATE там, где диалект это поддерживает
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
