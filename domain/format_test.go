package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTruncatesTowardZero(t *testing.T) {
	formatter := NewFormatter(".", ",")

	tests := []struct {
		name string
		wei  int64
		want string
	}{
		{"Never rounds up", 1_999_999_999, "1.99"},
		{"Whole value", 5_000_000_000, "5.00"},
		{"Exact cents", 1_230_000_000, "1.23"},
		{"Ignores third decimal", 1_239_000_000, "1.23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := NewAmountFromInt64(TonAsset, tt.wei)
			got := formatter.Format(amount, FormatOptions{Decimals: 9})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSmallValueFallback(t *testing.T) {
	formatter := NewFormatter(".", ",")
	amount := NewAmountFromInt64(TonAsset, 123_000) // 0.000123 TON

	// Below one cent the full precision shows, so the value never displays
	// as a bare zero.
	got := formatter.Format(amount, FormatOptions{Decimals: 9})
	assert.Equal(t, "0.000123", got)

	got = formatter.Format(amount, FormatOptions{Decimals: 9, IgnoreZeroTruncate: true})
	assert.Equal(t, "0.00", got)
}

func TestFormatNegativePrefix(t *testing.T) {
	formatter := NewFormatter(".", ",")
	amount := NewAmountFromInt64(TonAsset, -1_500_000_000)

	got := formatter.Format(amount, FormatOptions{Decimals: 9})
	assert.Equal(t, "− 1.50", got)
}

func TestFormatGrouping(t *testing.T) {
	formatter := NewFormatter(".", ",")
	amount := NewAmountFromInt64(TonAsset, 1_234_567_890_120_000_000)

	got := formatter.Format(amount, FormatOptions{Decimals: 9})
	assert.Equal(t, "1,234,567,890.12", got)
}

func TestFormatLocalizedSeparators(t *testing.T) {
	formatter := NewFormatter(",", " ")
	amount := NewAmountFromInt64(TonAsset, 1_234_560_000_000)

	got := formatter.Format(amount, FormatOptions{Decimals: 9})
	assert.Equal(t, "1 234,56", got)
}

func TestFormatWithSymbol(t *testing.T) {
	formatter := NewFormatter(".", ",")
	amount := NewAmountFromInt64(TonAsset, 2_500_000_000)

	got := formatter.FormatWithSymbol(amount, FormatOptions{Decimals: 9})
	assert.Equal(t, "2.50 TON", got)
}

func TestFormatDefaultsToAssetDecimals(t *testing.T) {
	formatter := NewFormatter(".", ",")
	amount := NewAmountFromInt64(TonAsset, 123_000)

	// Without an explicit precision the asset's own precision applies to
	// the small-value fallback.
	got := formatter.Format(amount, FormatOptions{})
	assert.Equal(t, "0.000123", got)
}
