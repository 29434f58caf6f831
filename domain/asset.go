package domain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/tonkeeper/tongo"
)

type AssetKind int

const (
	AssetNative AssetKind = iota
	AssetJetton
	AssetForeign
)

// Asset identifies a fungible value unit. Assets are compared by identity
// (kind plus jetton master contract), never by symbol.
type Asset struct {
	Kind     AssetKind
	Master   tongo.AccountID // jetton master contract, zero for the native coin
	Decimals int32
	Symbol   string
}

var TonAsset = Asset{Kind: AssetNative, Decimals: 9, Symbol: "TON"}

func JettonAsset(master tongo.AccountID, decimals int32, symbol string) Asset {
	return Asset{Kind: AssetJetton, Master: master, Decimals: decimals, Symbol: symbol}
}

func (a Asset) Equals(other Asset) bool {
	if a.Kind != other.Kind {
		return false
	}
	if a.Kind == AssetJetton {
		return a.Master == other.Master
	}
	return true
}

func (a Asset) IsNative() bool {
	return a.Kind == AssetNative
}

// Amount pairs an Asset with an exact integer count of base units. The
// base-unit integer is the source of truth; the relative (decimal-shifted)
// value is always derived from it.
type Amount struct {
	asset Asset
	wei   *big.Int
}

func NewAmount(asset Asset, wei *big.Int) Amount {
	value := new(big.Int)
	if wei != nil {
		value.Set(wei)
	}
	return Amount{asset: asset, wei: value}
}

func NewAmountFromInt64(asset Asset, wei int64) Amount {
	return Amount{asset: asset, wei: big.NewInt(wei)}
}

// AmountFromDecimalString builds an Amount from a human decimal string,
// scaled by 10^decimals. Extra fractional digits are truncated toward zero,
// never rounded up.
func AmountFromDecimalString(asset Asset, value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %v", ErrorInvalidAmount, err)
	}
	wei := d.Truncate(asset.Decimals).Shift(asset.Decimals).BigInt()
	return Amount{asset: asset, wei: wei}, nil
}

func (a Amount) Asset() Asset {
	return a.asset
}

// WeiAmount returns a copy of the exact base-unit integer.
func (a Amount) WeiAmount() *big.Int {
	return new(big.Int).Set(a.weiOrZero())
}

// RelativeAmount is the derived decimal value, weiAmount / 10^decimals.
func (a Amount) RelativeAmount() decimal.Decimal {
	return decimal.NewFromBigInt(a.weiOrZero(), -a.asset.Decimals)
}

func (a Amount) Sign() int {
	return a.weiOrZero().Sign()
}

func (a Amount) Add(other Amount) (Amount, error) {
	if !a.asset.Equals(other.asset) {
		return Amount{}, ErrorAssetMismatch
	}
	return Amount{asset: a.asset, wei: new(big.Int).Add(a.weiOrZero(), other.weiOrZero())}, nil
}

func (a Amount) Sub(other Amount) (Amount, error) {
	if !a.asset.Equals(other.asset) {
		return Amount{}, ErrorAssetMismatch
	}
	return Amount{asset: a.asset, wei: new(big.Int).Sub(a.weiOrZero(), other.weiOrZero())}, nil
}

// Cmp compares two Amounts of the same Asset. Comparing across assets is an
// error, not a silent false.
func (a Amount) Cmp(other Amount) (int, error) {
	if !a.asset.Equals(other.asset) {
		return 0, ErrorAssetMismatch
	}
	return a.weiOrZero().Cmp(other.weiOrZero()), nil
}

func (a Amount) IsGTE(other Amount) (bool, error) {
	cmp, err := a.Cmp(other)
	return cmp >= 0, err
}

func (a Amount) IsGT(other Amount) (bool, error) {
	cmp, err := a.Cmp(other)
	return cmp > 0, err
}

func (a Amount) IsEQ(other Amount) (bool, error) {
	cmp, err := a.Cmp(other)
	return cmp == 0, err
}

func (a Amount) IsLTE(other Amount) (bool, error) {
	cmp, err := a.Cmp(other)
	return cmp <= 0, err
}

func (a Amount) IsLT(other Amount) (bool, error) {
	cmp, err := a.Cmp(other)
	return cmp < 0, err
}

func (a Amount) String() string {
	return a.RelativeAmount().String() + " " + a.asset.Symbol
}

func (a Amount) weiOrZero() *big.Int {
	if a.wei == nil {
		return big.NewInt(0)
	}
	return a.wei
}
