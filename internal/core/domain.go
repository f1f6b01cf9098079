package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

type (
	TransactionType string

	// Transaction is a single recorded expense or income event. Amounts keep
	// the currency that was active when the transaction was added; totals sum
	// raw amounts without conversion.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      Money           `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        time.Time       `json:"date"`
		Currency    Currency        `json:"currency,omitempty"`
	}

	// CustomCategory is a user-defined category label. (Name, Type) pairs are
	// unique among custom categories.
	CustomCategory struct {
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Type  TransactionType `json:"type"`
		Color string          `json:"color"`
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyDescription  = errors.New("empty description")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrUnknownCurrency   = errors.New("unknown currency")
)

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Currency != "" && !t.Currency.Valid() {
		return ErrUnknownCurrency
	}
	return nil
}

func (c CustomCategory) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// NewTransactionID derives an id from the given instant. Ids sort in
// creation order; callers resolve same-millisecond collisions.
func NewTransactionID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// DefaultExpenseCategories is the built-in expense taxonomy, in display order.
var DefaultExpenseCategories = []string{
	"طعام",
	"مواصلات",
	"ترفيه",
	"صحة",
	"ملابس",
	"فواتير",
	"تسوق",
	"أخرى",
}

// DefaultIncomeCategories is the built-in income taxonomy, in display order.
var DefaultIncomeCategories = []string{
	"راتب",
	"عمل حر",
	"استثمار",
	"هدية",
	"مكافأة",
	"أخرى",
}
