// Package store owns the transaction list and custom categories. All state
// is kept in memory and persisted as whole JSON documents through the
// storage.KV layer on every mutation; persistence failures are logged and
// the in-memory state is retained until the next successful write.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"masarif/internal/core"
	"masarif/internal/log"
	"masarif/internal/storage"
)

// Store is the single source of truth for a local user's data. There is one
// logical writer, but HTTP handlers and the sync worker share the instance,
// so mutations are serialized with a mutex.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	logger *log.Logger

	transactions        []core.Transaction // newest first
	customCategories    []core.CustomCategory
	currency            core.Currency
	monthlyResetEnabled bool

	now func() time.Time
}

// AddInput is a transaction before the store assigns id and timestamp.
type AddInput struct {
	Type        core.TransactionType `json:"type"`
	Amount      core.Money           `json:"amount"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Currency    core.Currency        `json:"currency,omitempty"`
}

func New(kv storage.KV) *Store {
	return &Store{
		kv:       kv,
		logger:   log.New(log.DefaultConfig()).WithComponent(log.ComponentStore),
		currency: core.SAR,
		now:      time.Now,
	}
}

// Load reads persisted state. Read failures are logged and defaults kept.
// Loading is side-effecting: when monthly reset is enabled and the calendar
// month has changed since the last reset stamp, the transaction list is
// wiped once and the stamp advanced. A failed stamp write just repeats the
// check on the next load.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.getLogged(ctx, storage.KeyCurrency); ok {
		if c := core.Currency(v); c.Valid() {
			s.currency = c
		}
	}

	if v, ok := s.getLogged(ctx, storage.KeyCustomCategories); ok {
		var cats []core.CustomCategory
		if err := json.Unmarshal([]byte(v), &cats); err != nil {
			s.logger.ErrorContext(ctx, "Failed to decode custom categories, keeping defaults",
				log.FieldError, err, log.FieldOperation, log.OpLoad)
		} else {
			s.customCategories = cats
		}
	}

	if v, ok := s.getLogged(ctx, storage.KeyTransactions); ok {
		var txs []core.Transaction
		if err := json.Unmarshal([]byte(v), &txs); err != nil {
			s.logger.ErrorContext(ctx, "Failed to decode transactions, keeping empty list",
				log.FieldError, err, log.FieldOperation, log.OpLoad)
		} else {
			s.transactions = txs
		}
	}

	if v, ok := s.getLogged(ctx, storage.KeyMonthlyResetEnabled); ok {
		s.monthlyResetEnabled = v == "true"
	}

	s.applyMonthlyResetLocked(ctx)
}

// Add assigns a unique id and the current timestamp, defaults the currency
// to the store's active currency, prepends and persists. The store does not
// validate the input beyond id assignment; callers enforce positive amounts
// and non-empty fields before handing the transaction over.
func (s *Store) Add(ctx context.Context, in AddInput) core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	currency := in.Currency
	if currency == "" {
		currency = s.currency
	}

	id := core.NewTransactionID(now)
	for s.hasIDLocked(id) {
		now = now.Add(time.Millisecond)
		id = core.NewTransactionID(now)
	}

	tx := core.Transaction{
		ID:          id,
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        now,
		Currency:    currency,
	}

	s.transactions = append([]core.Transaction{tx}, s.transactions...)
	s.persistTransactionsLocked(ctx)

	s.logger.InfoContext(ctx, "Transaction added",
		log.FieldTransactionID, tx.ID,
		log.FieldAmountCents, tx.Amount.Cents,
		log.FieldCategory, tx.Category,
		log.FieldCurrency, string(tx.Currency),
		log.FieldOperation, log.OpAdd)

	return tx
}

// Delete removes the transaction with the given id; no-op when absent.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.transactions[:0:0]
	for _, tx := range s.transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	if len(kept) == len(s.transactions) {
		return
	}
	s.transactions = kept
	s.persistTransactionsLocked(ctx)

	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldTransactionID, id, log.FieldOperation, log.OpDelete)
}

// ClearAll empties the transaction list.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = nil
	s.persistTransactionsLocked(ctx)

	s.logger.InfoContext(ctx, "All transactions cleared", log.FieldOperation, log.OpClear)
}

// Transactions returns a copy of the list, newest first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...)
}

// Totals recomputes income, expenses and balance on every call.
func (s *Store) Totals() core.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.ComputeTotals(s.transactions)
}

// Currency returns the active currency new transactions default to.
func (s *Store) Currency() core.Currency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

func (s *Store) SetCurrency(ctx context.Context, c core.Currency) error {
	if !c.Valid() {
		return core.ErrUnknownCurrency
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = c
	s.setLogged(ctx, storage.KeyCurrency, string(c))
	return nil
}

// AddCustomCategory rejects duplicate (name, type) pairs.
func (s *Store) AddCustomCategory(ctx context.Context, name string, typ core.TransactionType, color string) (core.CustomCategory, error) {
	cat := core.CustomCategory{
		ID:    uuid.NewString(),
		Name:  name,
		Type:  typ,
		Color: color,
	}
	if err := cat.Validate(); err != nil {
		return core.CustomCategory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.customCategories {
		if existing.Name == name && existing.Type == typ {
			return core.CustomCategory{}, fmt.Errorf("%w: %s (%s)", core.ErrDuplicateCategory, name, typ)
		}
	}
	s.customCategories = append(s.customCategories, cat)
	s.persistCategoriesLocked(ctx)
	return cat, nil
}

func (s *Store) DeleteCustomCategory(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.customCategories[:0:0]
	for _, cat := range s.customCategories {
		if cat.ID != id {
			kept = append(kept, cat)
		}
	}
	if len(kept) == len(s.customCategories) {
		return
	}
	s.customCategories = kept
	s.persistCategoriesLocked(ctx)
}

func (s *Store) CustomCategories() []core.CustomCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CustomCategory(nil), s.customCategories...)
}

// Categories returns the built-in taxonomy for the given type followed by
// matching custom categories.
func (s *Store) Categories(typ core.TransactionType) []string {
	base := core.DefaultExpenseCategories
	if typ == core.Income {
		base = core.DefaultIncomeCategories
	}
	out := append([]string(nil), base...)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cat := range s.customCategories {
		if cat.Type == typ {
			out = append(out, cat.Name)
		}
	}
	return out
}

func (s *Store) MonthlyResetEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monthlyResetEnabled
}

// SetMonthlyReset persists the flag and, on enablement, runs the reset
// check immediately.
func (s *Store) SetMonthlyReset(ctx context.Context, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monthlyResetEnabled = enabled
	if enabled {
		s.setLogged(ctx, storage.KeyMonthlyResetEnabled, "true")
		s.applyMonthlyResetLocked(ctx)
	} else {
		s.setLogged(ctx, storage.KeyMonthlyResetEnabled, "false")
	}
}

// Restore replaces the full state wholesale, e.g. after a cloud sync merge.
func (s *Store) Restore(ctx context.Context, txs []core.Transaction, cats []core.CustomCategory, currency core.Currency, monthlyReset bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append([]core.Transaction(nil), txs...)
	s.customCategories = append([]core.CustomCategory(nil), cats...)
	if currency.Valid() {
		s.currency = currency
	}
	s.monthlyResetEnabled = monthlyReset

	s.persistTransactionsLocked(ctx)
	s.persistCategoriesLocked(ctx)
	s.setLogged(ctx, storage.KeyCurrency, string(s.currency))
	if monthlyReset {
		s.setLogged(ctx, storage.KeyMonthlyResetEnabled, "true")
	} else {
		s.setLogged(ctx, storage.KeyMonthlyResetEnabled, "false")
	}
}

func (s *Store) hasIDLocked(id string) bool {
	for _, tx := range s.transactions {
		if tx.ID == id {
			return true
		}
	}
	return false
}

// applyMonthlyResetLocked wipes the list when the current (month, year)
// differs from the persisted stamp. The stamp is advanced even when the
// feature just got enabled so the wipe happens at most once per month.
func (s *Store) applyMonthlyResetLocked(ctx context.Context) {
	if !s.monthlyResetEnabled {
		return
	}

	now := s.now()
	current := fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))

	stamp, ok := s.getLogged(ctx, storage.KeyLastResetStamp)
	if !ok {
		// First enablement: record the stamp without wiping.
		s.setLogged(ctx, storage.KeyLastResetStamp, current)
		return
	}
	if stamp == current {
		return
	}

	s.transactions = nil
	s.persistTransactionsLocked(ctx)
	s.setLogged(ctx, storage.KeyLastResetStamp, current)

	s.logger.InfoContext(ctx, "Monthly reset applied",
		"previous_stamp", stamp, "current_stamp", current,
		log.FieldOperation, log.OpReset)
}

func (s *Store) persistTransactionsLocked(ctx context.Context) {
	data, err := json.Marshal(s.transactions)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode transactions",
			log.FieldError, err, log.FieldOperation, log.OpPersist)
		return
	}
	s.setLogged(ctx, storage.KeyTransactions, string(data))
}

func (s *Store) persistCategoriesLocked(ctx context.Context) {
	data, err := json.Marshal(s.customCategories)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode custom categories",
			log.FieldError, err, log.FieldOperation, log.OpPersist)
		return
	}
	s.setLogged(ctx, storage.KeyCustomCategories, string(data))
}

// getLogged reads a key, logging failures and treating them as absent.
func (s *Store) getLogged(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "Persistence read failed, using default",
			log.FieldError, err, log.FieldKey, key, log.FieldOperation, log.OpLoad)
		return "", false
	}
	return v, ok
}

// setLogged writes a key. Failures are logged and not retried; in-memory
// state stays authoritative until the next successful write.
func (s *Store) setLogged(ctx context.Context, key, value string) {
	if err := s.kv.Set(ctx, key, value); err != nil {
		s.logger.ErrorContext(ctx, "Persistence write failed, state retained in memory",
			log.FieldError, err, log.FieldKey, key, log.FieldOperation, log.OpPersist)
	}
}
