// Package format renders monetary amounts for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyInfo describes a display currency. Amounts are never converted
// between currencies; only the symbol and precision change.
type CurrencyInfo struct {
	Symbol string `json:"symbol"`
	Code   string `json:"code"`
	Digits int    `json:"digits"`
}

var currencyTable = []struct {
	symbol string
	unit   currency.Unit
}{
	{"$", currency.USD},
	{"€", currency.EUR},
	{"₹", currency.INR},
	{"¥", currency.JPY},
}

func newCurrencyInfo(symbol string, unit currency.Unit) CurrencyInfo {
	scale, _ := currency.Standard.Rounding(unit)
	return CurrencyInfo{Symbol: symbol, Code: unit.String(), Digits: scale}
}

// Currencies returns every supported currency in display order.
func Currencies() []CurrencyInfo {
	list := make([]CurrencyInfo, 0, len(currencyTable))
	for _, c := range currencyTable {
		list = append(list, newCurrencyInfo(c.symbol, c.unit))
	}
	return list
}

// LookupCurrency finds a currency by symbol ("€") or ISO code ("eur").
func LookupCurrency(symbolOrCode string) (CurrencyInfo, bool) {
	key := strings.TrimSpace(symbolOrCode)
	for _, c := range currencyTable {
		if key == c.symbol || strings.EqualFold(key, c.unit.String()) {
			return newCurrencyInfo(c.symbol, c.unit), true
		}
	}
	return CurrencyInfo{}, false
}

// DefaultCurrency returns the currency used when none is configured.
func DefaultCurrency() CurrencyInfo {
	cur, _ := LookupCurrency(constants.DefaultCurrency)
	return cur
}

// Currency returns an amount with the currency symbol and English thousands
// separators, e.g. "-$1,234.56" or "¥1,235".
func Currency(amount float64, cur CurrencyInfo) string {
	formatted := groupedNumber(amount, cur.Digits)
	if strings.HasPrefix(formatted, "-") {
		return "-" + cur.Symbol + formatted[1:]
	}
	return cur.Symbol + formatted
}

// NumericCurrency returns the amount with separators but without a symbol.
func NumericCurrency(amount float64, cur CurrencyInfo) string {
	return groupedNumber(amount, cur.Digits)
}

func groupedNumber(amount float64, digits int) string {
	scale := math.Pow(10, float64(digits))
	rounded := math.Round(math.Abs(amount)*scale) / scale

	p := message.NewPrinter(language.English)
	formatted := p.Sprintf(fmt.Sprintf("%%.%df", digits), rounded)
	if amount < 0 && rounded != 0 {
		return "-" + formatted
	}
	return formatted
}
