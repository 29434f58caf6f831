package usecase

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"math/big"
	"sender/domain"

	"github.com/tonkeeper/tongo"
)

func testAccountId(lastByte byte) tongo.AccountID {
	var bits tongo.Bits256
	bits[31] = lastByte
	return *tongo.NewAccountId(0, bits)
}

func testWallet() domain.Wallet {
	return domain.Wallet{
		AccountID:   testAccountId(1),
		PublicKey:   "f61cf0bc8e891ad7636e0cd35229d579323aa2da827eb85d8071407464dc2fa3",
		SubwalletID: 698983191,
	}
}

func tonAmount(wei int64) domain.Amount {
	return domain.NewAmountFromInt64(domain.TonAsset, wei)
}

// fakeChain implements every chain-facing port with canned state.
type fakeChain struct {
	balance      int64
	status       string
	seqno        uint32
	serviceTime  int64
	extra        int64
	jettonHeld   *big.Int
	jettonWallet tongo.AccountID

	accountErr   error
	seqnoErr     error
	timeErr      error
	emulateErr   error
	broadcastErr error
	jettonErr    error

	seqnoCalls     int
	broadcastCalls int
	broadcastBoc   string
}

func (f *fakeChain) GetAccount(ctx context.Context, id tongo.AccountID) (domain.AccountSnapshot, error) {
	if f.accountErr != nil {
		return domain.AccountSnapshot{}, f.accountErr
	}
	status := f.status
	if status == "" {
		status = domain.AccountStatusActive
	}
	return domain.AccountSnapshot{
		ID:      id,
		Balance: tonAmount(f.balance),
		Status:  status,
	}, nil
}

func (f *fakeChain) GetSeqno(ctx context.Context, id tongo.AccountID) (uint32, error) {
	f.seqnoCalls++
	if f.seqnoErr != nil {
		return 0, f.seqnoErr
	}
	return f.seqno, nil
}

func (f *fakeChain) GetJettonBalance(ctx context.Context, owner tongo.AccountID,
	master tongo.AccountID) (*big.Int, tongo.AccountID, error) {
	if f.jettonErr != nil {
		return nil, tongo.AccountID{}, f.jettonErr
	}
	return new(big.Int).Set(f.jettonHeld), f.jettonWallet, nil
}

func (f *fakeChain) GetServiceTime(ctx context.Context) (int64, error) {
	if f.timeErr != nil {
		return 0, f.timeErr
	}
	return f.serviceTime, nil
}

func (f *fakeChain) EmulateMessage(ctx context.Context, envelopeBoc string) (domain.FeeEstimate, error) {
	if f.emulateErr != nil {
		return domain.FeeEstimate{}, f.emulateErr
	}
	return domain.FeeEstimate{
		Fee:   tonAmount(-f.extra),
		Extra: f.extra,
	}, nil
}

func (f *fakeChain) SendMessage(ctx context.Context, envelopeBoc string) error {
	f.broadcastCalls++
	f.broadcastBoc = envelopeBoc
	return f.broadcastErr
}

// fakeKeystore accepts one passphrase and hands out a throwaway key.
type fakeKeystore struct {
	passphrase string
	key        ed25519.PrivateKey
}

func newFakeKeystore(passphrase string) *fakeKeystore {
	_, key, _ := ed25519.GenerateKey(nil)
	return &fakeKeystore{passphrase: passphrase, key: key}
}

func (f *fakeKeystore) Unlock(publicKey string, passphrase string) (ed25519.PrivateKey, error) {
	if passphrase != f.passphrase {
		return nil, fmt.Errorf("%w: wrong passphrase", domain.ErrorAuthenticationFailed)
	}
	return f.key, nil
}

// fakeRecorder collects receipts in memory.
type fakeRecorder struct {
	receipts []domain.Receipt
	err      error
}

func (f *fakeRecorder) Record(receipt domain.Receipt) error {
	if f.err != nil {
		return f.err
	}
	f.receipts = append(f.receipts, receipt)
	return nil
}
