package usecase

import (
	"fmt"
	"sender/domain"
)

// GuardInteractor validates that an account can cover a transfer before
// anything is signed.
type GuardInteractor struct{}

func NewGuardInteractor() *GuardInteractor {
	return &GuardInteractor{}
}

// AssertSendable fails when required exceeds available. A balance exactly
// equal to the requirement is sendable. Both Amounts must share one Asset.
func (interactor *GuardInteractor) AssertSendable(required domain.Amount, balance domain.Amount) error {
	sendable, err := required.IsLTE(balance)
	if err != nil {
		return err
	}
	if !sendable {
		return fmt.Errorf("%w: need %v, have %v", domain.ErrorInsufficientFunds, required, balance)
	}
	return nil
}

// AssertJettonSendable checks a token transfer on both sides: the token
// balance must cover the transferred amount, and the native balance must
// cover the attached gas plus the projected fee. The fee is always
// denominated in the native coin, never in the token.
func (interactor *GuardInteractor) AssertJettonSendable(amount domain.Amount, tokenBalance domain.Amount,
	nativeRequired domain.Amount, nativeBalance domain.Amount) error {

	if err := interactor.AssertSendable(amount, tokenBalance); err != nil {
		return err
	}
	return interactor.AssertSendable(nativeRequired, nativeBalance)
}
