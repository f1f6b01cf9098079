// Package worker runs background synchronization of the local transaction
// store against the remote copy.
package worker

import (
	"context"
	"errors"
	"fmt"

	"masarif/internal/amqp"
	"masarif/internal/cloud"
	"masarif/internal/log"
	"masarif/internal/store"
)

// SyncWorker merges the local store with the remote snapshot, either on
// demand (AMQP sync requests) or on a schedule.
type SyncWorker struct {
	store   *store.Store
	syncSvc *cloud.Service
	logger  *log.Logger
}

func NewSyncWorker(st *store.Store, syncSvc *cloud.Service, logger *log.Logger) *SyncWorker {
	return &SyncWorker{
		store:   st,
		syncSvc: syncSvc,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSyncRequest processes one sync request message. Requests for a
// different user id are dropped: they belong to a previous enable/disable
// cycle and replaying them would merge into the wrong remote row.
func (w *SyncWorker) HandleSyncRequest(ctx context.Context, msg *amqp.SyncRequestMessage) error {
	status := w.syncSvc.Status()
	if !status.Enabled {
		w.logger.DebugContext(ctx, "Ignoring sync request, sync disabled", "reason", msg.Reason)
		return nil
	}
	if msg.UserID != "" && msg.UserID != w.syncSvc.UserID() {
		w.logger.WarnContext(ctx, "Dropping sync request for stale user id",
			"message_user_id", msg.UserID, "reason", msg.Reason)
		return nil
	}
	return w.Sync(ctx, msg.Reason)
}

// Sync performs one merge cycle: snapshot the store, reconcile with the
// remote copy, adopt the merged result locally. A sync already in flight
// is not an error; the running one covers this request.
func (w *SyncWorker) Sync(ctx context.Context, reason string) error {
	local := cloud.Snapshot{
		Transactions:        w.store.Transactions(),
		CustomCategories:    w.store.CustomCategories(),
		Currency:            w.store.Currency(),
		MonthlyResetEnabled: w.store.MonthlyResetEnabled(),
	}

	merged, err := w.syncSvc.Sync(ctx, local)
	if err != nil {
		if errors.Is(err, cloud.ErrSyncInProgress) {
			w.logger.DebugContext(ctx, "Sync already in progress, skipping", "reason", reason)
			return nil
		}
		return fmt.Errorf("sync (%s): %w", reason, err)
	}

	w.store.Restore(ctx, merged.Transactions, merged.CustomCategories, merged.Currency, merged.MonthlyResetEnabled)
	w.logger.InfoContext(ctx, "Sync completed",
		log.FieldOperation, log.OpSync,
		"reason", reason,
		"transactions", len(merged.Transactions),
		"categories", len(merged.CustomCategories))
	return nil
}
