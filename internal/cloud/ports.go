// Package cloud synchronizes the local snapshot with a remote copy keyed
// by user id. Conflicts resolve in favor of the remote copy.
package cloud

import (
	"context"
	"errors"
	"time"

	"masarif/internal/core"
)

// ErrSyncInProgress is returned when a sync is requested while another
// one is still running.
var ErrSyncInProgress = errors.New("sync already in progress")

type (
	// Snapshot is the full replicated state.
	Snapshot struct {
		Transactions        []core.Transaction    `json:"transactions"`
		CustomCategories    []core.CustomCategory `json:"customCategories"`
		Currency            core.Currency         `json:"currency"`
		MonthlyResetEnabled bool                  `json:"monthlyResetEnabled"`
		LastSyncTimestamp   int64                 `json:"lastSyncTimestamp"`
	}

	// SyncStatus is the externally visible sync state.
	SyncStatus struct {
		Enabled      bool       `json:"isEnabled"`
		Syncing      bool       `json:"isSyncing"`
		LastSyncTime *time.Time `json:"lastSyncTime"`
		Error        string     `json:"error,omitempty"`
	}

	// RemoteStore is the outbound port to the cloud copy. Download returns
	// nil when the user has no remote snapshot yet.
	RemoteStore interface {
		Upload(ctx context.Context, userID string, snap Snapshot) error
		Download(ctx context.Context, userID string) (*Snapshot, error)
	}
)
