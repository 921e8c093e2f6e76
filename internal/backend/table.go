package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studioworks/internal/metrics"
	apperrors "studioworks/pkg/errors"
)

// Keyed is a row addressable by its numeric primary key.
type Keyed interface {
	PrimaryKey() uint
}

// Query narrows a Select. Zero values mean "no constraint".
type Query struct {
	OrderBy string
	Desc    bool
	Where   map[string]any
	Limit   int
}

// Table is a typed handle on one named table.
type Table[T Keyed] struct {
	db   *gorm.DB
	name string
}

// NewTable returns a handle on the named table.
func NewTable[T Keyed](db *gorm.DB, name string) *Table[T] {
	return &Table[T]{db: db, name: name}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

func (t *Table[T]) session(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Table(t.name)
}

// Select fetches rows matching q.
func (t *Table[T]) Select(ctx context.Context, q Query) ([]T, error) {
	start := time.Now()
	tx := t.session(ctx)
	if len(q.Where) > 0 {
		tx = tx.Where(q.Where)
	}
	orderBy := q.OrderBy
	desc := q.Desc
	if orderBy == "" {
		orderBy, desc = "id", true
	}
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: desc})
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []T
	err := tx.Find(&rows).Error
	metrics.RecordDBQuery(t.name, "select", time.Since(start), err)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, fmt.Sprintf("failed to load %s", t.name), err)
	}
	return rows, nil
}

// Get fetches one row by id.
func (t *Table[T]) Get(ctx context.Context, id uint) (*T, error) {
	start := time.Now()
	var row T
	err := t.session(ctx).First(&row, id).Error
	metrics.RecordDBQuery(t.name, "get", time.Since(start), ignoreNotFound(err))
	if err != nil {
		return nil, t.wrap("load", id, err)
	}
	return &row, nil
}

// Insert creates row and fills in its generated fields.
func (t *Table[T]) Insert(ctx context.Context, row *T) error {
	start := time.Now()
	err := t.session(ctx).Create(row).Error
	metrics.RecordDBQuery(t.name, "insert", time.Since(start), err)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternalError, fmt.Sprintf("failed to create %s record", t.name), err)
	}
	return nil
}

// Update writes every column of row. The row must already exist.
func (t *Table[T]) Update(ctx context.Context, row *T) error {
	id := (*row).PrimaryKey()
	if id == 0 {
		return apperrors.New(apperrors.ErrCodeBadRequest, "record has no id")
	}
	start := time.Now()
	var existing T
	err := t.session(ctx).Select("id").First(&existing, id).Error
	if err == nil {
		err = t.session(ctx).Save(row).Error
	}
	metrics.RecordDBQuery(t.name, "update", time.Since(start), ignoreNotFound(err))
	if err != nil {
		return t.wrap("update", id, err)
	}
	return nil
}

// Delete removes the row with id.
func (t *Table[T]) Delete(ctx context.Context, id uint) error {
	start := time.Now()
	result := t.session(ctx).Delete(new(T), id)
	metrics.RecordDBQuery(t.name, "delete", time.Since(start), result.Error)
	if result.Error != nil {
		return t.wrap("delete", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return t.wrap("delete", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Count returns the number of rows matching where.
func (t *Table[T]) Count(ctx context.Context, where map[string]any) (int64, error) {
	start := time.Now()
	tx := t.session(ctx)
	if len(where) > 0 {
		tx = tx.Where(where)
	}
	var n int64
	err := tx.Count(&n).Error
	metrics.RecordDBQuery(t.name, "count", time.Since(start), err)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInternalError, fmt.Sprintf("failed to count %s", t.name), err)
	}
	return n, nil
}

func (t *Table[T]) wrap(op string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.ErrCodeNotFound, fmt.Sprintf("%s record %d not found", t.name, id), err)
	}
	return apperrors.Wrap(apperrors.ErrCodeInternalError, fmt.Sprintf("failed to %s %s record %d", op, t.name, id), err)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
