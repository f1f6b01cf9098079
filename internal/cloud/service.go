package cloud

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"masarif/internal/log"
	"masarif/internal/storage"
)

// Service drives synchronization against a RemoteStore and persists the
// sync settings (enabled flag, user id, last sync time) in the KV store.
type Service struct {
	mu       sync.Mutex
	kv       storage.KV
	remote   RemoteStore
	logger   *log.Logger
	enabled  bool
	userID   string
	lastSync time.Time
	syncing  bool
	lastErr  string
	now      func() time.Time
}

func NewService(kv storage.KV, remote RemoteStore, logger *log.Logger) *Service {
	return &Service{
		kv:     kv,
		remote: remote,
		logger: logger.WithComponent(log.ComponentSync),
		now:    time.Now,
	}
}

// Load restores persisted sync settings. Missing or malformed values
// leave the defaults in place.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok, err := s.kv.Get(ctx, storage.KeySyncEnabled); err != nil {
		return fmt.Errorf("load sync enabled: %w", err)
	} else if ok {
		s.enabled = v == "true"
	}
	if v, ok, err := s.kv.Get(ctx, storage.KeySyncUserID); err != nil {
		return fmt.Errorf("load sync user id: %w", err)
	} else if ok {
		s.userID = v
	}
	if v, ok, err := s.kv.Get(ctx, storage.KeyLastSyncTimestamp); err != nil {
		return fmt.Errorf("load last sync: %w", err)
	} else if ok {
		if millis, perr := strconv.ParseInt(v, 10, 64); perr == nil && millis > 0 {
			s.lastSync = time.UnixMilli(millis)
		} else if perr != nil {
			s.logger.WarnContext(ctx, "ignoring malformed last sync timestamp", log.FieldKey, storage.KeyLastSyncTimestamp, log.FieldError, perr)
		}
	}
	return nil
}

// Enable turns sync on, assigning a user id on first enable. The id is
// stable across enable/disable cycles.
func (s *Service) Enable(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" {
		s.userID = "user_" + uuid.NewString()
		if err := s.kv.Set(ctx, storage.KeySyncUserID, s.userID); err != nil {
			s.userID = ""
			return "", fmt.Errorf("persist sync user id: %w", err)
		}
	}
	s.enabled = true
	if err := s.kv.Set(ctx, storage.KeySyncEnabled, "true"); err != nil {
		return "", fmt.Errorf("persist sync enabled: %w", err)
	}
	s.logger.InfoContext(ctx, "sync enabled", log.FieldUserID, s.userID)
	return s.userID, nil
}

func (s *Service) Disable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enabled = false
	if err := s.kv.Set(ctx, storage.KeySyncEnabled, "false"); err != nil {
		return fmt.Errorf("persist sync enabled: %w", err)
	}
	s.logger.InfoContext(ctx, "sync disabled", log.FieldUserID, s.userID)
	return nil
}

// Status reports the current sync state. Error holds the message of the
// last failed sync and clears on the next successful one.
func (s *Service) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SyncStatus{
		Enabled: s.enabled,
		Syncing: s.syncing,
		Error:   s.lastErr,
	}
	if !s.lastSync.IsZero() {
		t := s.lastSync
		status.LastSyncTime = &t
	}
	return status
}

func (s *Service) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Sync reconciles the local snapshot with the remote copy and returns the
// snapshot the caller should adopt. When sync is disabled the local
// snapshot comes back unchanged. The first sync for a user uploads the
// local snapshot as-is.
func (s *Service) Sync(ctx context.Context, local Snapshot) (Snapshot, error) {
	s.mu.Lock()
	if !s.enabled || s.userID == "" {
		s.mu.Unlock()
		return local, nil
	}
	if s.syncing {
		s.mu.Unlock()
		return local, ErrSyncInProgress
	}
	s.syncing = true
	userID := s.userID
	s.mu.Unlock()

	result, err := s.sync(ctx, userID, local)

	s.mu.Lock()
	s.syncing = false
	if err != nil {
		s.lastErr = err.Error()
	} else {
		s.lastErr = ""
		s.lastSync = time.UnixMilli(result.LastSyncTimestamp)
		if kerr := s.kv.Set(ctx, storage.KeyLastSyncTimestamp, strconv.FormatInt(result.LastSyncTimestamp, 10)); kerr != nil {
			s.logger.WarnContext(ctx, "failed to persist last sync timestamp", log.FieldError, kerr)
		}
	}
	s.mu.Unlock()

	if err != nil {
		return local, err
	}
	return result, nil
}

func (s *Service) sync(ctx context.Context, userID string, local Snapshot) (Snapshot, error) {
	remote, err := s.remote.Download(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "download failed", log.FieldOperation, log.OpDownload, log.FieldUserID, userID, log.FieldError, err)
		return Snapshot{}, fmt.Errorf("download snapshot: %w", err)
	}

	now := s.now()
	if remote == nil {
		local.LastSyncTimestamp = now.UnixMilli()
		if err := s.remote.Upload(ctx, userID, local); err != nil {
			s.logger.ErrorContext(ctx, "initial upload failed", log.FieldOperation, log.OpUpload, log.FieldUserID, userID, log.FieldError, err)
			return Snapshot{}, fmt.Errorf("upload snapshot: %w", err)
		}
		s.logger.InfoContext(ctx, "initial snapshot uploaded", log.FieldUserID, userID)
		return local, nil
	}

	merged := Merge(local, *remote, now)
	if err := s.remote.Upload(ctx, userID, merged); err != nil {
		s.logger.ErrorContext(ctx, "upload failed", log.FieldOperation, log.OpUpload, log.FieldUserID, userID, log.FieldError, err)
		return Snapshot{}, fmt.Errorf("upload snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "snapshot merged",
		log.FieldUserID, userID,
		"transactions", len(merged.Transactions),
		"custom_categories", len(merged.CustomCategories))
	return merged, nil
}
