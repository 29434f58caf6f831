package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const fiatDisplayDecimals = 2

var numericRE = regexp.MustCompile(`^[0-9]+(\.[0-9]*)?$`)

// AmountState models the transfer amount input: the selected token, the raw
// typed value, the derived coin and fiat values, and the coin/fiat toggle.
// Transitions are pure; no UI framework is involved.
type AmountState struct {
	Token      Asset
	InputValue string
	CoinValue  decimal.Decimal
	FiatValue  decimal.Decimal
	HasFiat    bool
	InFiat     bool
	IsMax      bool
}

func InitialAmountState(token Asset) AmountState {
	return AmountState{
		Token:      token,
		InputValue: "0",
	}
}

type AmountAction interface {
	isAmountAction()
}

// SelectAction switches the token and resets the input.
type SelectAction struct {
	Token Asset
}

// MaxAction toggles "send max" with the given available coin value.
type MaxAction struct {
	Value    decimal.Decimal
	Price    decimal.Decimal
	HasPrice bool
}

// InputAction applies a typed value in the active unit (coin or fiat).
type InputAction struct {
	Value    string
	Price    decimal.Decimal
	HasPrice bool
}

// PriceAction refreshes the fiat value after a price update.
type PriceAction struct {
	Price decimal.Decimal
}

// ToggleAction switches between coin and fiat input.
type ToggleAction struct{}

func (SelectAction) isAmountAction() {}
func (MaxAction) isAmountAction()    {}
func (InputAction) isAmountAction()  {}
func (PriceAction) isAmountAction()  {}
func (ToggleAction) isAmountAction() {}

func ReduceAmountState(state AmountState, action AmountAction) AmountState {
	switch a := action.(type) {
	case SelectAction:
		return InitialAmountState(a.Token)

	case MaxAction:
		state.CoinValue = a.Value
		state.IsMax = !state.IsMax
		if a.HasPrice {
			state.FiatValue = a.Value.Mul(a.Price).RoundFloor(fiatDisplayDecimals)
			state.HasFiat = true
		}
		if state.InFiat && state.HasFiat {
			state.InputValue = state.FiatValue.String()
		} else {
			state.InputValue = a.Value.String()
		}
		return state

	case InputAction:
		decimals := state.Token.Decimals
		if state.InFiat {
			decimals = fiatDisplayDecimals
		}

		input := strings.TrimSpace(a.Value)
		if !inputValueValid(input, decimals) {
			input = state.InputValue
		}
		state.InputValue = input
		state.IsMax = false

		typed, err := decimal.NewFromString(input)
		if err != nil {
			typed = decimal.Zero
		}

		if state.InFiat {
			state.FiatValue = typed
			state.HasFiat = true
			state.CoinValue = decimal.Zero
			if a.HasPrice && !a.Price.IsZero() {
				state.CoinValue = typed.Div(a.Price)
			}
		} else {
			state.CoinValue = typed
			if a.HasPrice {
				state.FiatValue = typed.Mul(a.Price)
				state.HasFiat = true
			}
		}
		return state

	case PriceAction:
		if a.Price.IsZero() {
			return state
		}
		state.FiatValue = state.CoinValue.Mul(a.Price).RoundFloor(fiatDisplayDecimals)
		state.HasFiat = true
		return state

	case ToggleAction:
		if state.InFiat {
			state.InputValue = state.CoinValue.RoundFloor(state.Token.Decimals).String()
		} else if state.HasFiat {
			state.InputValue = state.FiatValue.RoundFloor(fiatDisplayDecimals).String()
		} else {
			state.InputValue = "0"
		}
		state.InFiat = !state.InFiat
		return state
	}

	return state
}

// inputValueValid limits typed values to plain decimal numbers with at most
// the token's precision.
func inputValueValid(value string, decimals int32) bool {
	if value == "" || !numericRE.MatchString(value) {
		return false
	}
	if _, frac, ok := strings.Cut(value, "."); ok && int32(len(frac)) > decimals {
		return false
	}
	return true
}
