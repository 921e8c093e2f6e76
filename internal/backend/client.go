// Package backend is the hosted backend client: auth, named tables, and a public object bucket.
package backend

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studioworks/internal/database"
	"studioworks/internal/logging"
	"studioworks/internal/util"
)

// Client bundles the backend capabilities the screens consume.
type Client struct {
	Auth    *Auth
	Storage Bucket
	db      *gorm.DB
}

// NewClient wires a client over db and bucket.
func NewClient(db *gorm.DB, tokens *util.TokenIssuer, bucket Bucket, log *zap.Logger) *Client {
	log = logging.OrNop(log)
	return &Client{
		Auth:    NewAuth(db, tokens, log.Named("auth")),
		Storage: bucket,
		db:      db,
	}
}

// From returns a typed handle on a named table.
func From[T Keyed](c *Client, table string) *Table[T] {
	return NewTable[T](c.db, table)
}

// Ping checks the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return database.Ping(ctx, c.db)
}

// DB exposes the underlying handle for pool statistics.
func (c *Client) DB() *gorm.DB {
	return c.db
}
