package domain

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/boc"
)

// Send modes of the outbound message action.
const (
	SendModeCarryAllRemainingBalance = uint8(128)
	SendModePayGasSeparately         = uint8(1)
	SendModeIgnoreErrors             = uint8(2)
)

// On-chain account statuses as reported by the chain API.
const (
	AccountStatusActive   = "active"
	AccountStatusUninit   = "uninit"
	AccountStatusFrozen   = "frozen"
	AccountStatusNonexist = "nonexist"
)

// AccountSnapshot is point-in-time account state. It is fetched fresh before
// both the estimate step and the send step and never cached across that
// boundary: balance and sequence number may change between the two calls.
type AccountSnapshot struct {
	ID      tongo.AccountID
	Balance Amount
	Status  string
	Seqno   uint32
}

func (s AccountSnapshot) IsActive() bool {
	return s.Status == AccountStatusActive
}

// StateInit is contract-initialization data, decoded from its compact
// transport encoding into the two structural parts.
type StateInit struct {
	Code *boc.Cell
	Data *boc.Cell
}

// RecipientData describes a resolved destination. Payload and Init are
// opaque requester-supplied blobs; the pipeline forwards them verbatim and
// never inspects them.
type RecipientData struct {
	Address TransferAddress
	Status  string
	Comment string
	Payload *boc.Cell
	Init    *StateInit
}

// TransferMessage is a single internal transfer directive.
type TransferMessage struct {
	Dest   tongo.AccountID
	Bounce bool
	Value  *big.Int // attached nanotons
	Body   *boc.Cell
	Init   *StateInit
}

// TransferEnvelope is an assembled, not-yet-broadcast external message bound
// to one sequence number. A signed envelope is single-use; resubmitting it
// after a successful broadcast is rejected by the network.
type TransferEnvelope struct {
	Seqno    uint32
	Mode     uint8
	Messages []TransferMessage
	Boc      string // serialized external message, base64
	Signed   bool
}

// FeeEstimate is the result of a dry run. Fee is the projected total in the
// native coin; it is used for display and validation only and is never
// trusted as the final charged fee.
type FeeEstimate struct {
	Fee   Amount
	Extra int64           // raw emulated balance delta beyond the transferred value
	Event json.RawMessage // predicted consequences, display only
}

// ConnectMessage is one transfer requested by a third-party application
// through the connect protocol. Amount is a base-unit decimal string.
type ConnectMessage struct {
	Address   string `json:"address"`
	Amount    string `json:"amount"`
	Payload   string `json:"payload,omitempty"`
	StateInit string `json:"stateInit,omitempty"`
}

type ConnectPayload struct {
	ValidUntil int64            `json:"valid_until"`
	Messages   []ConnectMessage `json:"messages"`
}

// Receipt records a successful broadcast for tracking.
type Receipt struct {
	Address    string    `json:"address"`
	Amount     string    `json:"amount"`
	Boc        string    `json:"boc"`
	CreateTime time.Time `json:"create_time"`
}
