package domain

import "github.com/tonkeeper/tongo"

// Wallet is the explicit account handle every pipeline call takes. There is
// no ambient "current wallet"; callers always pass one.
type Wallet struct {
	AccountID   tongo.AccountID
	PublicKey   string // hex encoded, used as the credential store lookup key
	SubwalletID uint32
}
