// Package export renders a transaction snapshot to CSV, JSON or a
// human-readable text report, and hands the result to a Sharer.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"masarif/internal/core"
)

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

type (
	Format string

	// Document is a rendered export ready to share.
	Document struct {
		Content  string
		Title    string
		MIMEType string
	}

	// Sharer delivers a rendered document to its destination (share sheet,
	// file, HTTP response body).
	Sharer interface {
		Share(ctx context.Context, doc Document) error
	}
)

func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatJSON || f == FormatText
}

// ToCSV renders one quoted row per transaction under a fixed header.
// Transactions without a currency inherit the store currency. An empty
// list yields the header line only.
func ToCSV(transactions []core.Transaction, currency core.Currency) string {
	var b strings.Builder
	b.WriteString("Date,Type,Amount,Category,Description,Currency")

	for _, tx := range transactions {
		cur := tx.Currency
		if cur == "" {
			cur = currency
		}
		fields := []string{
			tx.Date.UTC().Format("2006-01-02T15:04:05.000Z"),
			string(tx.Type),
			strconv.FormatFloat(tx.Amount.Float(), 'f', -1, 64),
			tx.Category,
			tx.Description,
			string(cur),
		}
		b.WriteByte('\n')
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}

// ToJSON renders the transaction list as a pretty-printed JSON array.
func ToJSON(transactions []core.Transaction) (string, error) {
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	data, err := json.MarshalIndent(transactions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal transactions: %w", err)
	}
	return string(data), nil
}

// ToText renders a localized report: totals, a separator block and one
// numbered entry per transaction.
func ToText(
	transactions []core.Transaction,
	currency core.Currency,
	totals core.Totals,
	language string,
) string {
	arabic := language != "en"
	sep := strings.Repeat("=", 50)

	var b strings.Builder
	if arabic {
		b.WriteString("ملخص المعاملات المالية\n\n")
		b.WriteString("الإحصائيات:\n")
		b.WriteString("إجمالي المدخلات: " + core.FormatAmount(totals.Income, currency) + "\n")
		b.WriteString("إجمالي المصروفات: " + core.FormatAmount(totals.Expenses, currency) + "\n")
		b.WriteString("الرصيد: " + core.FormatAmount(totals.Balance, currency) + "\n")
		b.WriteString(fmt.Sprintf("عدد المعاملات: %d\n\n", len(transactions)))
		b.WriteString(sep + "\n")
		b.WriteString("تفاصيل المعاملات:\n")
		b.WriteString(sep + "\n\n")
	} else {
		b.WriteString("Financial Transactions Summary\n\n")
		b.WriteString("Statistics:\n")
		b.WriteString("Total Income: " + core.FormatAmount(totals.Income, currency) + "\n")
		b.WriteString("Total Expenses: " + core.FormatAmount(totals.Expenses, currency) + "\n")
		b.WriteString("Balance: " + core.FormatAmount(totals.Balance, currency) + "\n")
		b.WriteString(fmt.Sprintf("Total Transactions: %d\n\n", len(transactions)))
		b.WriteString(sep + "\n")
		b.WriteString("Transaction Details:\n")
		b.WriteString(sep + "\n\n")
	}

	if len(transactions) == 0 {
		if arabic {
			b.WriteString("لا توجد معاملات\n")
		} else {
			b.WriteString("No transactions\n")
		}
		return b.String()
	}

	for i, tx := range transactions {
		cur := tx.Currency
		if cur == "" {
			cur = currency
		}
		amount := core.FormatAmount(tx.Amount, cur)
		date := tx.Date.Format("January 2, 2006 15:04")

		if arabic {
			typeText := "مدخل"
			if tx.Type == core.Expense {
				typeText = "مصروف"
			}
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, typeText))
			b.WriteString("   المبلغ: " + amount + "\n")
			b.WriteString("   الفئة: " + tx.Category + "\n")
			b.WriteString("   الوصف: " + tx.Description + "\n")
			b.WriteString("   التاريخ: " + date + "\n\n")
		} else {
			typeText := "Income"
			if tx.Type == core.Expense {
				typeText = "Expense"
			}
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, typeText))
			b.WriteString("   Amount: " + amount + "\n")
			b.WriteString("   Category: " + tx.Category + "\n")
			b.WriteString("   Description: " + tx.Description + "\n")
			b.WriteString("   Date: " + date + "\n\n")
		}
	}
	return b.String()
}

// Render produces the document for the requested format. An unknown
// format falls back to text.
func Render(
	transactions []core.Transaction,
	currency core.Currency,
	totals core.Totals,
	language string,
	format Format,
) (Document, error) {
	arabic := language != "en"

	switch format {
	case FormatCSV:
		title := "Financial Transactions.csv"
		if arabic {
			title = "المعاملات المالية.csv"
		}
		return Document{
			Content:  ToCSV(transactions, currency),
			Title:    title,
			MIMEType: "text/csv",
		}, nil
	case FormatJSON:
		content, err := ToJSON(transactions)
		if err != nil {
			return Document{}, err
		}
		title := "Financial Transactions.json"
		if arabic {
			title = "المعاملات المالية.json"
		}
		return Document{
			Content:  content,
			Title:    title,
			MIMEType: "application/json",
		}, nil
	default:
		title := "Financial Transactions Summary"
		if arabic {
			title = "ملخص المعاملات المالية"
		}
		return Document{
			Content:  ToText(transactions, currency, totals, language),
			Title:    title,
			MIMEType: "text/plain",
		}, nil
	}
}
