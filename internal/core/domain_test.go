package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "1",
		Type:        Expense,
		Amount:      Money{Cents: 100},
		Category:    "طعام",
		Description: "غداء",
		Date:        time.Now(),
		Currency:    SAR,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "transfer", Amount: Money{Cents: 1}, Category: "c", Description: "d"},
		{Type: Expense, Amount: Money{Cents: 0}, Category: "c", Description: "d"},
		{Type: Expense, Amount: Money{Cents: -50}, Category: "c", Description: "d"},
		{Type: Expense, Amount: Money{Cents: 1}, Category: "", Description: "d"},
		{Type: Expense, Amount: Money{Cents: 1}, Category: "c", Description: ""},
		{Type: Income, Amount: Money{Cents: 1}, Category: "c", Description: "d", Currency: "EUR"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCustomCategoryValidate(t *testing.T) {
	if err := (CustomCategory{Name: "قهوة", Type: Expense}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (CustomCategory{Name: "", Type: Expense}).Validate(); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := (CustomCategory{Name: "x", Type: "both"}).Validate(); err == nil {
		t.Fatalf("expected error for bad type")
	}
}

func TestNewTransactionIDSortsByCreation(t *testing.T) {
	earlier := NewTransactionID(time.UnixMilli(1700000000000))
	later := NewTransactionID(time.UnixMilli(1700000000001))
	if !(earlier < later) {
		t.Fatalf("ids must sort in creation order: %s >= %s", earlier, later)
	}
}
