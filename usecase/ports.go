package usecase

import (
	"context"
	"crypto/ed25519"
	"math/big"
	"sender/domain"

	"github.com/tonkeeper/tongo"
)

// ChainReader is the read-only chain API.
type ChainReader interface {
	GetAccount(ctx context.Context, id tongo.AccountID) (domain.AccountSnapshot, error)
	GetSeqno(ctx context.Context, id tongo.AccountID) (uint32, error)
	GetJettonBalance(ctx context.Context, owner tongo.AccountID, master tongo.AccountID) (*big.Int, tongo.AccountID, error)
}

// TimeOracle reports the chain service clock, used to fail fast on skew.
type TimeOracle interface {
	GetServiceTime(ctx context.Context) (int64, error)
}

// Emulator dry-runs a serialized envelope against current chain state
// without mutating it and without requiring a valid signature.
type Emulator interface {
	EmulateMessage(ctx context.Context, envelopeBoc string) (domain.FeeEstimate, error)
}

// Broadcaster submits a signed envelope to the network.
type Broadcaster interface {
	SendMessage(ctx context.Context, envelopeBoc string) error
}

// CredentialStore releases signing key material gated by a passphrase.
type CredentialStore interface {
	Unlock(publicKey string, passphrase string) (ed25519.PrivateKey, error)
}

// ReceiptRecorder keeps track of successful broadcasts.
type ReceiptRecorder interface {
	Record(receipt domain.Receipt) error
}
