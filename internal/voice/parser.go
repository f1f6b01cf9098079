// Package voice extracts transaction details from dictated Arabic text
// using fixed keyword tables. Speech capture itself happens outside; this
// package only sees the transcript.
package voice

import (
	"regexp"
	"strings"

	"masarif/internal/core"
)

// ParsedTransaction is a transaction candidate extracted from a
// transcript. Callers still validate and confirm before storing.
type ParsedTransaction struct {
	Amount      core.Money           `json:"amount"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Type        core.TransactionType `json:"type"`
}

// FallbackCategory is assigned when no keyword matches.
const FallbackCategory = "أخرى"

// Table order matters: the first category whose keyword appears wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"طعام", []string{"طعام", "أكل", "مطعم", "غذاء", "وجبة", "سوبرماركت", "سوق", "مقهى", "قهوة", "مشروب"}},
	{"مواصلات", []string{"مواصلات", "سيارة", "تاكسي", "أوبر", "باص", "مترو", "بنزين", "وقود", "نقل"}},
	{"ترفيه", []string{"ترفيه", "سينما", "فيلم", "لعبة", "حديقة", "نزهة", "تسلية", "ملهى"}},
	{"صحة", []string{"صحة", "طبيب", "مستشفى", "دواء", "صيدلية", "علاج", "فحص", "جيم", "نادي"}},
	{"ملابس", []string{"ملابس", "ثوب", "قميص", "بنطلون", "حذاء", "أزياء", "تسوق ملابس"}},
	{"فواتير", []string{"فاتورة", "كهرباء", "ماء", "إنترنت", "هاتف", "جوال", "فاتورة كهرباء", "فاتورة ماء"}},
	{"تسوق", []string{"تسوق", "شراء", "سوق", "مول", "متجر", "مشتريات"}},
	{"راتب", []string{"راتب", "مرتب", "دخل", "راتب شهري"}},
	{"عمل حر", []string{"عمل حر", "مشروع", "عمل", "عقد"}},
	{"استثمار", []string{"استثمار", "سهم", "سند", "استثمارات"}},
	{"هدية", []string{"هدية", "عطية"}},
	{"مكافأة", []string{"مكافأة", "مكافآت", "بونص"}},
}

var incomeKeywords = []string{"راتب", "مرتب", "دخل", "عمل حر", "استثمار", "هدية", "مكافأة"}

// Checked before the number-word table; table order decides ties among
// words (e.g. "خمسة" inside "خمسة عشر" is accepted as 5).
var numberWords = []struct {
	word  string
	value float64
}{
	{"واحد", 1}, {"اثنين", 2}, {"ثلاثة", 3}, {"أربعة", 4}, {"خمسة", 5},
	{"ستة", 6}, {"سبعة", 7}, {"ثمانية", 8}, {"تسعة", 9}, {"عشرة", 10},
	{"عشرين", 20}, {"ثلاثين", 30}, {"أربعين", 40}, {"خمسين", 50},
	{"ستين", 60}, {"سبعين", 70}, {"ثمانين", 80}, {"تسعين", 90},
	{"مئة", 100}, {"مائة", 100}, {"ألف", 1000},
}

var digitPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Parse extracts amount, category and type from a transcript. It returns
// nil when the text is blank or no positive amount can be found; the
// trimmed transcript becomes the description.
func Parse(text string) *ParsedTransaction {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	amount, ok := extractAmount(text)
	if !ok {
		return nil
	}

	return &ParsedTransaction{
		Amount:      amount,
		Description: trimmed,
		Category:    extractCategory(text),
		Type:        determineType(text),
	}
}

// extractAmount prefers digits over number words. A digit match that does
// not parse to a positive amount fails the whole extraction; the word
// table is only a fallback for transcripts with no digits at all.
func extractAmount(text string) (core.Money, bool) {
	if match := digitPattern.FindString(text); match != "" {
		cents, err := core.ParseDecimalToCents(match)
		if err != nil {
			return core.Money{}, false
		}
		return core.Money{Cents: cents}, true
	}
	for _, nw := range numberWords {
		if strings.Contains(text, nw.word) {
			return core.FromFloat(nw.value), true
		}
	}
	return core.Money{}, false
}

func extractCategory(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return FallbackCategory
}

func determineType(text string) core.TransactionType {
	lower := strings.ToLower(text)
	for _, kw := range incomeKeywords {
		if strings.Contains(lower, kw) {
			return core.Income
		}
	}
	return core.Expense
}
