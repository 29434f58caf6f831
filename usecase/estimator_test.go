package usecase

import (
	"context"
	"fmt"
	"sender/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckServiceTime(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name        string
		serviceTime int64
		wantErr     bool
	}{
		{"In sync", now.Unix(), false},
		{"Slightly behind", now.Unix() - 10, false},
		{"Slightly ahead", now.Unix() + 10, false},
		{"At the edge", now.Unix() + 30, false},
		{"Too far behind", now.Unix() - 31, true},
		{"Too far ahead", now.Unix() + 31, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := &fakeChain{serviceTime: tt.serviceTime}
			estimator := NewEstimatorInteractor(chain, chain, 30*time.Second)
			estimator.now = func() time.Time { return now }

			err := estimator.CheckServiceTime(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrorServiceUnavailable)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckServiceTimeOracleFailure(t *testing.T) {
	chain := &fakeChain{timeErr: fmt.Errorf("gateway down")}
	estimator := NewEstimatorInteractor(chain, chain, 30*time.Second)

	err := estimator.CheckServiceTime(context.Background())
	assert.ErrorIs(t, err, domain.ErrorServiceUnavailable)
}

func TestAssertPositiveBalance(t *testing.T) {
	estimator := NewEstimatorInteractor(nil, nil, 30*time.Second)

	err := estimator.AssertPositiveBalance(domain.AccountSnapshot{Balance: tonAmount(1)})
	assert.NoError(t, err)

	err = estimator.AssertPositiveBalance(domain.AccountSnapshot{Balance: tonAmount(0)})
	assert.ErrorIs(t, err, domain.ErrorInsufficientFunds)
}

func TestEstimate(t *testing.T) {
	chain := &fakeChain{extra: -5_000_000}
	estimator := NewEstimatorInteractor(chain, chain, 30*time.Second)

	estimate, err := estimator.Estimate(context.Background(), domain.TransferEnvelope{Boc: "te6cc"})
	require.NoError(t, err)

	// The fee is the negated emulated balance delta.
	assert.Equal(t, int64(5_000_000), estimate.Fee.WeiAmount().Int64())
}

func TestEstimateFailurePropagates(t *testing.T) {
	chain := &fakeChain{emulateErr: fmt.Errorf("emulation rejected")}
	estimator := NewEstimatorInteractor(chain, chain, 30*time.Second)

	_, err := estimator.Estimate(context.Background(), domain.TransferEnvelope{Boc: "te6cc"})
	assert.ErrorIs(t, err, domain.ErrorNetwork)
}
