// Package storage provides the local key-value persistence layer. The store
// keeps whole documents (JSON arrays and scalar settings) under well-known
// keys; a SQLite-backed implementation is used in production and an
// in-memory one in tests and development.
package storage

import "context"

// Well-known persistence keys.
const (
	KeyCurrency            = "currency"
	KeyTransactions        = "transactions"
	KeyCustomCategories    = "custom_categories"
	KeyMonthlyResetEnabled = "monthly_reset_enabled"
	KeyLastResetStamp      = "last_reset_stamp"
	KeyLanguage            = "language"
	KeyTheme               = "theme"
	KeySyncEnabled         = "sync_enabled"
	KeySyncUserID          = "sync_user_id"
	KeyLastSyncTimestamp   = "last_sync_timestamp"
)

// KV is the port the transaction store persists through. Get returns
// ("", false, nil) when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
