package render

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// currencySymbol is followed by a no-break space, as id-ID locale formatting does.
const currencySymbol = "Rp\u00a0"

var monthsID = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatCurrency renders an amount as Indonesian Rupiah with no decimal
// digits, e.g. "Rp 1.250.000" with a no-break space after the symbol.
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	p := message.NewPrinter(language.Indonesian)
	s := currencySymbol + p.Sprintf("%d", rounded.Abs().IntPart())
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}

// FormatLongDate renders t in the long Indonesian form, e.g. "17 Oktober 2026".
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthsID[t.Month()-1], t.Year())
}
