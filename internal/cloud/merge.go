package cloud

import (
	"sort"
	"time"

	"masarif/internal/core"
)

// Merge combines a local and a remote snapshot. Rows are unioned by id
// with the remote version winning on conflict; transactions come back
// sorted newest first. Remote scalars win when present.
func Merge(local, remote Snapshot, now time.Time) Snapshot {
	merged := Snapshot{
		Transactions:        mergeTransactions(local.Transactions, remote.Transactions),
		CustomCategories:    mergeCategories(local.CustomCategories, remote.CustomCategories),
		Currency:            local.Currency,
		MonthlyResetEnabled: remote.MonthlyResetEnabled,
		LastSyncTimestamp:   now.UnixMilli(),
	}
	if remote.Currency != "" {
		merged.Currency = remote.Currency
	}
	return merged
}

func mergeTransactions(local, remote []core.Transaction) []core.Transaction {
	byID := make(map[string]core.Transaction, len(local)+len(remote))
	order := make([]string, 0, len(local)+len(remote))

	for _, tx := range local {
		if _, seen := byID[tx.ID]; !seen {
			order = append(order, tx.ID)
		}
		byID[tx.ID] = tx
	}
	for _, tx := range remote {
		if _, seen := byID[tx.ID]; !seen {
			order = append(order, tx.ID)
		}
		byID[tx.ID] = tx
	}

	out := make([]core.Transaction, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func mergeCategories(local, remote []core.CustomCategory) []core.CustomCategory {
	byID := make(map[string]core.CustomCategory, len(local)+len(remote))
	order := make([]string, 0, len(local)+len(remote))

	for _, c := range local {
		if _, seen := byID[c.ID]; !seen {
			order = append(order, c.ID)
		}
		byID[c.ID] = c
	}
	for _, c := range remote {
		if _, seen := byID[c.ID]; !seen {
			order = append(order, c.ID)
		}
		byID[c.ID] = c
	}

	out := make([]core.CustomCategory, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}
