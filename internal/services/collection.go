package services

import (
	"context"
	"io"

	"go.uber.org/zap"

	"studioworks/internal/backend"
	"studioworks/internal/domain"
)

// Upload is an optional file attached to an admin form.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Collection is the shared admin screen pattern: list, validate-then-insert,
// update, delete, and single-flag toggles against one table.
type Collection[T domain.Record] struct {
	table  *backend.Table[T]
	bucket backend.Bucket
	prefix string
	order  backend.Query
	log    *zap.Logger
}

// NewCollection binds a collection to a table. Uploaded images go under prefix in the client's bucket.
func NewCollection[T domain.Record](client *backend.Client, table, prefix string, order backend.Query, log *zap.Logger) *Collection[T] {
	return &Collection[T]{
		table:  backend.From[T](client, table),
		bucket: client.Storage,
		prefix: prefix,
		order:  order,
		log:    log,
	}
}

// List fetches every record in display order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return c.table.Select(ctx, c.order)
}

// Select fetches records with an explicit query.
func (c *Collection[T]) Select(ctx context.Context, q backend.Query) ([]T, error) {
	return c.table.Select(ctx, q)
}

func (c *Collection[T]) Get(ctx context.Context, id uint) (*T, error) {
	return c.table.Get(ctx, id)
}

func (c *Collection[T]) Count(ctx context.Context) (int64, error) {
	return c.table.Count(ctx, nil)
}

// Create validates rec, stores the optional upload, then inserts.
// Nothing is written when validation fails.
func (c *Collection[T]) Create(ctx context.Context, rec *T, upload *Upload) error {
	if err := (*rec).Validate(); err != nil {
		return err
	}
	if err := c.attach(ctx, rec, upload); err != nil {
		return err
	}
	if err := c.table.Insert(ctx, rec); err != nil {
		c.log.Error("create failed", zap.String("table", c.table.Name()), zap.Error(err))
		return err
	}
	c.log.Info("record created", zap.String("table", c.table.Name()), zap.Uint("id", (*rec).PrimaryKey()))
	return nil
}

// Update loads the record, applies mutate, validates, stores the optional upload, and saves.
func (c *Collection[T]) Update(ctx context.Context, id uint, mutate func(*T) error, upload *Upload) (*T, error) {
	rec, err := c.table.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		if err := mutate(rec); err != nil {
			return nil, err
		}
	}
	if err := (*rec).Validate(); err != nil {
		return nil, err
	}
	if err := c.attach(ctx, rec, upload); err != nil {
		return nil, err
	}
	if err := c.table.Update(ctx, rec); err != nil {
		c.log.Error("update failed", zap.String("table", c.table.Name()), zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	c.log.Info("record updated", zap.String("table", c.table.Name()), zap.Uint("id", id))
	return rec, nil
}

// Toggle applies flip to one record and saves it.
func (c *Collection[T]) Toggle(ctx context.Context, id uint, flip func(*T)) (*T, error) {
	rec, err := c.table.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	flip(rec)
	if err := c.table.Update(ctx, rec); err != nil {
		return nil, err
	}
	c.log.Info("record toggled", zap.String("table", c.table.Name()), zap.Uint("id", id))
	return rec, nil
}

// Delete removes exactly the record with id.
func (c *Collection[T]) Delete(ctx context.Context, id uint) error {
	if err := c.table.Delete(ctx, id); err != nil {
		return err
	}
	c.log.Info("record deleted", zap.String("table", c.table.Name()), zap.Uint("id", id))
	return nil
}

func (c *Collection[T]) attach(ctx context.Context, rec *T, upload *Upload) error {
	if upload == nil || upload.Body == nil || upload.Filename == "" {
		return nil
	}
	holder, ok := any(rec).(domain.ImageHolder)
	if !ok || c.bucket == nil {
		return nil
	}
	key, err := c.bucket.Upload(ctx, c.prefix, upload.Filename, upload.Body)
	if err != nil {
		c.log.Warn("upload failed", zap.String("table", c.table.Name()), zap.String("file", upload.Filename), zap.Error(err))
		return err
	}
	holder.SetImageURL(c.bucket.PublicURL(key))
	return nil
}
