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

func testPipeline(chain *fakeChain, keys CredentialStore, recorder ReceiptRecorder) *PipelineInteractor {
	estimator := NewEstimatorInteractor(chain, chain, 30*time.Second)
	estimator.now = func() time.Time { return time.Unix(chain.serviceTime, 0) }
	accounts := NewAccountInteractor(chain)
	builder := NewBuilderInteractor(5 * time.Minute)
	guard := NewGuardInteractor()
	return NewPipelineInteractor(estimator, accounts, builder, guard, keys, chain, recorder)
}

func testSendRequest(required int64) SendRequest {
	return SendRequest{
		Wallet:        testWallet(),
		Messages:      testMessages(1),
		Mode:          3,
		Required:      tonAmount(required),
		Passphrase:    "hunter2",
		DestAddress:   testAccountId(10).ToRaw(),
		DisplayAmount: "1 TON",
	}
}

func TestPipelineHappyPath(t *testing.T) {
	chain := &fakeChain{balance: 3_000_000_000, seqno: 5, serviceTime: 1_700_000_000}
	recorder := &fakeRecorder{}
	pipeline := testPipeline(chain, newFakeKeystore("hunter2"), recorder)

	envelopeBoc, err := pipeline.Run(context.Background(), testSendRequest(1_100_000_000))
	require.NoError(t, err)

	assert.NotEmpty(t, envelopeBoc)
	assert.Equal(t, 1, chain.broadcastCalls)
	assert.Equal(t, envelopeBoc, chain.broadcastBoc)

	require.Len(t, recorder.receipts, 1)
	assert.Equal(t, testAccountId(10).ToRaw(), recorder.receipts[0].Address)
	assert.Equal(t, "1 TON", recorder.receipts[0].Amount)
}

func TestPipelineClockSkewAbortsBeforeUnlock(t *testing.T) {
	chain := &fakeChain{balance: 3_000_000_000, serviceTime: 1_700_000_000}
	pipeline := testPipeline(chain, newFakeKeystore("hunter2"), nil)
	pipeline.estimator.now = func() time.Time { return time.Unix(1_700_000_000+120, 0) }

	_, err := pipeline.Run(context.Background(), testSendRequest(1_100_000_000))
	assert.ErrorIs(t, err, domain.ErrorServiceUnavailable)
	assert.Equal(t, 0, chain.broadcastCalls)
}

func TestPipelineWrongPassphrase(t *testing.T) {
	chain := &fakeChain{balance: 3_000_000_000, serviceTime: 1_700_000_000}
	pipeline := testPipeline(chain, newFakeKeystore("hunter2"), nil)

	request := testSendRequest(1_100_000_000)
	request.Passphrase = "wrong"

	_, err := pipeline.Run(context.Background(), request)
	assert.ErrorIs(t, err, domain.ErrorAuthenticationFailed)
	assert.Equal(t, 0, chain.broadcastCalls, "nothing is broadcast after a failed unlock")
}

func TestPipelineInsufficientFunds(t *testing.T) {
	chain := &fakeChain{balance: 1_000_000_000, serviceTime: 1_700_000_000}
	pipeline := testPipeline(chain, newFakeKeystore("hunter2"), nil)

	_, err := pipeline.Run(context.Background(), testSendRequest(1_100_000_000))
	assert.ErrorIs(t, err, domain.ErrorInsufficientFunds)
	assert.Equal(t, 0, chain.broadcastCalls)
}

func TestPipelineSendMaxBypassesGuard(t *testing.T) {
	chain := &fakeChain{balance: 1_000_000_000, serviceTime: 1_700_000_000}
	pipeline := testPipeline(chain, newFakeKeystore("hunter2"), nil)

	request := testSendRequest(9_000_000_000)
	request.IsMax = true

	_, err := pipeline.Run(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, 1, chain.broadcastCalls)
}

func TestPipelineUsesFreshSeqno(t *testing.T) {
	chain := &fakeChain{balance: 3_000_000_000, seqno: 41, serviceTime: 1_700_000_000}
	pipeline := testPipeline(chain, newFakeKeystore("hunter2"), nil)

	_, err := pipeline.Run(context.Background(), testSendRequest(1_100_000_000))
	require.NoError(t, err)
	assert.Equal(t, 1, chain.seqnoCalls, "the send fetches its own sequence number")
}

func TestPipelineBroadcastRejection(t *testing.T) {
	chain := &fakeChain{
		balance:      3_000_000_000,
		serviceTime:  1_700_000_000,
		broadcastErr: fmt.Errorf("exitcode 33"), // stale sequence number
	}
	pipeline := testPipeline(chain, newFakeKeystore("hunter2"), nil)

	_, err := pipeline.Run(context.Background(), testSendRequest(1_100_000_000))
	assert.ErrorIs(t, err, domain.ErrorBroadcastRejected)
	assert.Equal(t, 1, chain.broadcastCalls, "a rejected broadcast is not retried")
}

func TestPipelineExtraAssertion(t *testing.T) {
	chain := &fakeChain{balance: 3_000_000_000, serviceTime: 1_700_000_000}
	pipeline := testPipeline(chain, newFakeKeystore("hunter2"), nil)

	request := testSendRequest(1_100_000_000)
	request.AssertExtra = func(ctx context.Context) error {
		return fmt.Errorf("%w: token balance changed", domain.ErrorInsufficientFunds)
	}

	_, err := pipeline.Run(context.Background(), request)
	assert.ErrorIs(t, err, domain.ErrorInsufficientFunds)
	assert.Equal(t, 0, chain.broadcastCalls)
}

func TestPipelineRecorderFailureDoesNotFailSend(t *testing.T) {
	chain := &fakeChain{balance: 3_000_000_000, serviceTime: 1_700_000_000}
	recorder := &fakeRecorder{err: fmt.Errorf("database down")}
	pipeline := testPipeline(chain, newFakeKeystore("hunter2"), recorder)

	envelopeBoc, err := pipeline.Run(context.Background(), testSendRequest(1_100_000_000))
	require.NoError(t, err)
	assert.NotEmpty(t, envelopeBoc)
}

func TestPipelineNetworkFailure(t *testing.T) {
	chain := &fakeChain{balance: 3_000_000_000, serviceTime: 1_700_000_000}
	chain.accountErr = fmt.Errorf("connection refused")
	pipeline := testPipeline(chain, newFakeKeystore("hunter2"), nil)

	_, err := pipeline.Run(context.Background(), testSendRequest(1_100_000_000))
	assert.ErrorIs(t, err, domain.ErrorNetwork)
}
