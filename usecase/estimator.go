package usecase

import (
	"context"
	"fmt"
	"sender/domain"
	"time"
)

// EstimatorInteractor obtains projected fees through dry-run emulation.
type EstimatorInteractor struct {
	oracle    TimeOracle
	emulator  Emulator
	tolerance time.Duration
	now       func() time.Time
}

func NewEstimatorInteractor(oracle TimeOracle, emulator Emulator, tolerance time.Duration) *EstimatorInteractor {
	return &EstimatorInteractor{
		oracle:    oracle,
		emulator:  emulator,
		tolerance: tolerance,
		now:       time.Now,
	}
}

// CheckServiceTime fails fast when the chain service clock drifts beyond the
// tolerance: an estimate computed against a skewed clock is misleading.
func (interactor *EstimatorInteractor) CheckServiceTime(ctx context.Context) error {
	serviceTime, err := interactor.oracle.GetServiceTime(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrorServiceUnavailable, err)
	}

	skew := interactor.now().Unix() - serviceTime
	if skew < 0 {
		skew = -skew
	}
	if time.Duration(skew)*time.Second > interactor.tolerance {
		return fmt.Errorf("%w: service clock is off by %vs", domain.ErrorServiceUnavailable, skew)
	}

	return nil
}

// AssertPositiveBalance rejects estimation for an empty account. It is not
// applied to "send max" transfers.
func (interactor *EstimatorInteractor) AssertPositiveBalance(snapshot domain.AccountSnapshot) error {
	if snapshot.Balance.Sign() <= 0 {
		return fmt.Errorf("%w: account %v holds no balance", domain.ErrorInsufficientFunds, snapshot.ID.ToRaw())
	}
	return nil
}

// Estimate dry-runs an unsigned envelope. Failures propagate; there is no
// zero-fee or cached-fee fallback.
func (interactor *EstimatorInteractor) Estimate(ctx context.Context, envelope domain.TransferEnvelope) (domain.FeeEstimate, error) {
	estimate, err := interactor.emulator.EmulateMessage(ctx, envelope.Boc)
	if err != nil {
		return domain.FeeEstimate{}, fmt.Errorf("%w: %v", domain.ErrorNetwork, err)
	}
	return estimate, nil
}
