package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const defaultDisplayDecimals = 2

// Values below one display unit fall back to full precision instead of
// showing a bare "0".
var smallValueEdge = decimal.New(1, -2)

type FormatOptions struct {
	// Decimals is the configured precision of the formatted value. Zero
	// means the default display precision.
	Decimals int32

	// IgnoreZeroTruncate disables the full-precision fallback for values
	// below one display unit.
	IgnoreZeroTruncate bool
}

// Formatter renders Amounts for display. All truncation is toward zero, so a
// displayed amount is never overstated relative to the stored balance.
type Formatter struct {
	decimalSeparator string
	groupSeparator   string
}

func NewFormatter(decimalSeparator, groupSeparator string) *Formatter {
	return &Formatter{
		decimalSeparator: decimalSeparator,
		groupSeparator:   groupSeparator,
	}
}

func (f *Formatter) Format(amount Amount, opts FormatOptions) string {
	value := amount.RelativeAmount()

	prefix := ""
	if value.IsNegative() {
		value = value.Abs()
		prefix = "− "
	}

	decimals := opts.Decimals
	if decimals <= 0 {
		decimals = amount.Asset().Decimals
	}
	if decimals <= 0 {
		decimals = defaultDisplayDecimals
	}

	var plain string
	if !opts.IgnoreZeroTruncate && value.LessThan(smallValueEdge) {
		plain = value.Truncate(decimals).String()
	} else {
		shown := decimals
		if shown > defaultDisplayDecimals {
			shown = defaultDisplayDecimals
		}
		plain = value.Truncate(shown).StringFixed(shown)
	}

	return prefix + f.localize(plain)
}

// FormatWithSymbol appends the asset symbol to the formatted value.
func (f *Formatter) FormatWithSymbol(amount Amount, opts FormatOptions) string {
	return f.Format(amount, opts) + " " + amount.Asset().Symbol
}

func (f *Formatter) localize(plain string) string {
	whole, frac, hasFrac := strings.Cut(plain, ".")

	grouped := whole
	if len(whole) > 3 {
		var b strings.Builder
		lead := len(whole) % 3
		if lead > 0 {
			b.WriteString(whole[:lead])
		}
		for i := lead; i < len(whole); i += 3 {
			if b.Len() > 0 {
				b.WriteString(f.groupSeparator)
			}
			b.WriteString(whole[i : i+3])
		}
		grouped = b.String()
	}

	if !hasFrac {
		return grouped
	}
	return grouped + f.decimalSeparator + frac
}
