package usecase

import (
	"context"
	"fmt"
	"sender/domain"

	"github.com/tonkeeper/tongo"
)

type AccountInteractor struct {
	reader ChainReader
}

func NewAccountInteractor(reader ChainReader) *AccountInteractor {
	return &AccountInteractor{
		reader: reader,
	}
}

// GetSnapshot fetches fresh account state. Callers must not reuse a snapshot
// across the estimate/send boundary; both steps fetch their own.
func (interactor *AccountInteractor) GetSnapshot(ctx context.Context, id tongo.AccountID) (domain.AccountSnapshot, error) {
	snapshot, err := interactor.reader.GetAccount(ctx, id)
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("%w: %v", domain.ErrorNetwork, err)
	}

	seqno, err := interactor.reader.GetSeqno(ctx, id)
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("%w: %v", domain.ErrorNetwork, err)
	}
	snapshot.Seqno = seqno

	return snapshot, nil
}

// ResolveRecipient parses a destination address and looks up its on-chain
// status for the bounce decision.
func (interactor *AccountInteractor) ResolveRecipient(ctx context.Context, address string, comment string) (domain.RecipientData, error) {
	target, err := domain.ParseTransferAddress(address)
	if err != nil {
		return domain.RecipientData{}, err
	}

	account, err := interactor.reader.GetAccount(ctx, target.ID)
	if err != nil {
		return domain.RecipientData{}, fmt.Errorf("%w: %v", domain.ErrorNetwork, err)
	}

	return domain.RecipientData{
		Address: target,
		Status:  account.Status,
		Comment: comment,
	}, nil
}

// GetAccountsMap resolves every destination of a requested multi-message
// transfer to its snapshot, keyed by raw address.
func (interactor *AccountInteractor) GetAccountsMap(ctx context.Context, payload domain.ConnectPayload) (map[string]domain.AccountSnapshot, error) {
	accounts := make(map[string]domain.AccountSnapshot, len(payload.Messages))

	for _, message := range payload.Messages {
		target, err := domain.ParseTransferAddress(message.Address)
		if err != nil {
			return nil, err
		}

		account, err := interactor.reader.GetAccount(ctx, target.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrorNetwork, err)
		}
		accounts[target.ID.ToRaw()] = account
	}

	return accounts, nil
}
