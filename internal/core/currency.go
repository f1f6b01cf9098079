package core

import "fmt"

const (
	SAR Currency = "SAR"
	USD Currency = "USD"
	EGP Currency = "EGP"
)

type (
	Currency string

	CurrencyInfo struct {
		Code   Currency `json:"code"`
		Name   string   `json:"name"`
		Symbol string   `json:"symbol"`
	}
)

// Currencies is the closed set of supported currencies.
var Currencies = map[Currency]CurrencyInfo{
	SAR: {Code: SAR, Name: "ريال سعودي", Symbol: "ريال"},
	USD: {Code: USD, Name: "دولار أمريكي", Symbol: "$"},
	EGP: {Code: EGP, Name: "جنيه مصري", Symbol: "ج.م"},
}

func (c Currency) Valid() bool {
	_, ok := Currencies[c]
	return ok
}

// FormatAmount renders an amount with the currency's symbol placement rule:
// symbol before the number for USD, after it for SAR and EGP. Two decimals,
// no grouping separators, no conversion between currencies.
func FormatAmount(amount Money, code Currency) string {
	info, ok := Currencies[code]
	if !ok {
		info = Currencies[SAR]
	}
	formatted := fmt.Sprintf("%.2f", amount.Float())
	if info.Code == USD {
		return info.Symbol + formatted
	}
	return formatted + " " + info.Symbol
}
