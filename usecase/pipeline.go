package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sender/domain"
	"sender/interface/exporter"
	"time"
)

// SendRequest is one fully resolved transfer ready for the send pipeline.
type SendRequest struct {
	Wallet     domain.Wallet
	Messages   []domain.TransferMessage
	Mode       uint8
	IsMax      bool
	Required   domain.Amount // native amount plus prior fee estimate; ignored when IsMax
	Passphrase string

	// AssertExtra runs additional balance checks during the BalanceAssert
	// stage, e.g. the token-side check of a jetton transfer.
	AssertExtra func(ctx context.Context) error

	// Receipt display fields.
	DestAddress   string
	DisplayAmount string
}

// PipelineInteractor walks a send through its stages. Every stage is
// terminal on failure: a new attempt always restarts from the time check,
// which forces a fresh snapshot and therefore a fresh sequence number. The
// broadcast stage is never retried automatically; resubmitting a signed
// envelope against a stale sequence number is rejected by the network and
// that rejection must surface, not be masked as success.
type PipelineInteractor struct {
	estimator   *EstimatorInteractor
	accounts    *AccountInteractor
	builder     *BuilderInteractor
	guard       *GuardInteractor
	credentials CredentialStore
	broadcaster Broadcaster
	recorder    ReceiptRecorder
}

func NewPipelineInteractor(estimator *EstimatorInteractor,
	accounts *AccountInteractor,
	builder *BuilderInteractor,
	guard *GuardInteractor,
	credentials CredentialStore,
	broadcaster Broadcaster,
	recorder ReceiptRecorder) *PipelineInteractor {
	interactor := &PipelineInteractor{
		estimator:   estimator,
		accounts:    accounts,
		builder:     builder,
		guard:       guard,
		credentials: credentials,
		broadcaster: broadcaster,
		recorder:    recorder,
	}
	return interactor
}

// Run executes the stages in order and returns the broadcast envelope in its
// wire form as a receipt for the caller to track.
func (interactor *PipelineInteractor) Run(ctx context.Context, request SendRequest) (string, error) {

	// TimeCheck
	if err := interactor.estimator.CheckServiceTime(ctx); err != nil {
		return "", err
	}

	// CredentialUnlock
	secretKey, err := interactor.credentials.Unlock(request.Wallet.PublicKey, request.Passphrase)
	if err != nil {
		if errors.Is(err, domain.ErrorAuthenticationFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrorAuthenticationFailed, err)
	}

	// SnapshotFetch: never reuse the snapshot taken at estimate time.
	snapshot, err := interactor.accounts.GetSnapshot(ctx, request.Wallet.AccountID)
	if err != nil {
		return "", err
	}

	// BalanceAssert: skipped for "send max", which by definition consumes
	// exactly what is available net of fee.
	if !request.IsMax {
		if err := interactor.guard.AssertSendable(request.Required, snapshot.Balance); err != nil {
			return "", err
		}
	}
	if request.AssertExtra != nil {
		if err := request.AssertExtra(ctx); err != nil {
			return "", err
		}
	}

	// Build+Sign with the real key and the freshly fetched sequence number.
	envelope, err := interactor.builder.BuildTransfer(request.Wallet, snapshot.Seqno, request.Mode,
		request.Messages, secretKey)
	if err != nil {
		return "", err
	}

	// Broadcast: terminal, no automatic retry.
	if err := interactor.broadcaster.SendMessage(ctx, envelope.Boc); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrorBroadcastRejected, err)
	}

	exporter.IncSentCount()
	interactor.record(request, envelope)

	return envelope.Boc, nil
}

// record keeps a trace of the broadcast. Failing to record never fails the
// send; the funds are already on the wire.
func (interactor *PipelineInteractor) record(request SendRequest, envelope domain.TransferEnvelope) {
	if interactor.recorder == nil {
		return
	}

	receipt := domain.Receipt{
		Address:    request.DestAddress,
		Amount:     request.DisplayAmount,
		Boc:        envelope.Boc,
		CreateTime: time.Now(),
	}
	if err := interactor.recorder.Record(receipt); err != nil {
		log.Printf("🟡 recording receipt [dest: %v] - %v\n", request.DestAddress, err.Error())
	}
}
