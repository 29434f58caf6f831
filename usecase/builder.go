package usecase

import (
	"crypto/ed25519"
	"fmt"
	"math/big"
	"sender/domain"
	"time"

	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/boc"
)

const (
	maxMessagesPerEnvelope = 4

	// Simple-send opcode of the wallet v4 contract.
	walletOpTransfer = 0

	opcodeJettonTransfer = uint64(0x0f8a7ea5)
)

var ErrorTooManyMessages = fmt.Errorf("an envelope carries at most %v messages", maxMessagesPerEnvelope)

// placeholderKey stands in for the real secret key while estimating; the
// emulation endpoint does not verify signatures.
var placeholderKey = make(ed25519.PrivateKey, 64)

// BuilderInteractor assembles wallet v4 external messages.
type BuilderInteractor struct {
	lifetime time.Duration
	now      func() time.Time
}

func NewBuilderInteractor(lifetime time.Duration) *BuilderInteractor {
	return &BuilderInteractor{
		lifetime: lifetime,
		now:      time.Now,
	}
}

// BuildTransfer wraps the given transfer directives into a signed external
// message bound to the given sequence number. A nil secret key produces an
// estimation-only envelope signed with the placeholder key.
func (interactor *BuilderInteractor) BuildTransfer(wallet domain.Wallet, seqno uint32, mode uint8,
	messages []domain.TransferMessage, secretKey ed25519.PrivateKey) (domain.TransferEnvelope, error) {

	if len(messages) == 0 {
		return domain.TransferEnvelope{}, fmt.Errorf("%w: no messages", domain.ErrorInvalidPayload)
	}
	if len(messages) > maxMessagesPerEnvelope {
		return domain.TransferEnvelope{}, ErrorTooManyMessages
	}

	signed := secretKey != nil
	if secretKey == nil {
		secretKey = placeholderKey
	}

	validUntil := uint32(interactor.now().Add(interactor.lifetime).Unix())

	payload := boc.NewCell()
	if err := writeSigningPayload(payload, wallet.SubwalletID, validUntil, seqno, mode, messages); err != nil {
		return domain.TransferEnvelope{}, err
	}

	hash, err := payload.Hash()
	if err != nil {
		return domain.TransferEnvelope{}, err
	}
	signature := ed25519.Sign(secretKey, hash)

	body := boc.NewCell()
	w := newCellWriter(body)
	w.bytes(signature)
	if w.err != nil {
		return domain.TransferEnvelope{}, w.err
	}
	if err := writeSigningPayload(body, wallet.SubwalletID, validUntil, seqno, mode, messages); err != nil {
		return domain.TransferEnvelope{}, err
	}

	external := boc.NewCell()
	w = newCellWriter(external)
	w.uint(2, 2) // ext_in_msg_info$10
	w.uint(0, 2) // src: addr_none
	w.address(wallet.AccountID)
	w.uint(0, 4)  // import fee
	w.bit(false)  // no state init: the wallet must already be deployed
	w.bit(true)   // body in reference
	w.ref(body)
	if w.err != nil {
		return domain.TransferEnvelope{}, w.err
	}

	serialized, err := external.ToBocBase64()
	if err != nil {
		return domain.TransferEnvelope{}, err
	}

	return domain.TransferEnvelope{
		Seqno:    seqno,
		Mode:     mode,
		Messages: messages,
		Boc:      serialized,
		Signed:   signed,
	}, nil
}

func writeSigningPayload(cell *boc.Cell, subwalletId uint32, validUntil uint32, seqno uint32,
	mode uint8, messages []domain.TransferMessage) error {

	w := newCellWriter(cell)
	w.uint(uint64(subwalletId), 32)
	w.uint(uint64(validUntil), 32)
	w.uint(uint64(seqno), 32)
	w.uint(walletOpTransfer, 8)

	for _, message := range messages {
		w.uint(uint64(mode), 8)
		inner, err := buildInternalMessage(message)
		if err != nil {
			return err
		}
		w.ref(inner)
	}

	return w.err
}

func buildInternalMessage(message domain.TransferMessage) (*boc.Cell, error) {
	cell := boc.NewCell()
	w := newCellWriter(cell)

	w.bit(false) // int_msg_info$0
	w.bit(true)  // ihr_disabled
	w.bit(message.Bounce)
	w.bit(false) // bounced
	w.uint(0, 2) // src: addr_none
	w.address(message.Dest)
	w.grams(message.Value)
	w.bit(false)  // no extra currencies
	w.uint(0, 4)  // ihr fee
	w.uint(0, 4)  // fwd fee
	w.uint(0, 64) // created lt
	w.uint(0, 32) // created at

	if message.Init != nil {
		w.bit(true) // state init present
		w.bit(true) // in reference
		init, err := buildStateInit(message.Init)
		if err != nil {
			return nil, err
		}
		w.ref(init)
	} else {
		w.bit(false)
	}

	if message.Body != nil {
		w.bit(true) // body in reference
		w.ref(message.Body)
	} else {
		w.bit(false)
	}

	return cell, w.err
}

func buildStateInit(init *domain.StateInit) (*boc.Cell, error) {
	cell := boc.NewCell()
	w := newCellWriter(cell)

	w.uint(0, 2) // no split depth, not special
	w.bit(init.Code != nil)
	if init.Code != nil {
		w.ref(init.Code)
	}
	w.bit(init.Data != nil)
	if init.Data != nil {
		w.ref(init.Data)
	}
	w.bit(false) // empty library

	return cell, w.err
}

// CommentBody encodes a text comment as a simple-transfer body, chaining
// into references when the text exceeds one cell.
func CommentBody(comment string) (*boc.Cell, error) {
	root := boc.NewCell()
	w := newCellWriter(root)
	w.uint(0, 32)
	if w.err != nil {
		return nil, w.err
	}

	cell := root
	rest := []byte(comment)
	for len(rest) > 0 {
		room := cell.BitsAvailableForWrite() / 8
		if room == 0 {
			next := boc.NewCell()
			if err := cell.AddRef(next); err != nil {
				return nil, err
			}
			cell = next
			continue
		}
		if room > len(rest) {
			room = len(rest)
		}
		if err := cell.WriteBytes(rest[:room]); err != nil {
			return nil, err
		}
		rest = rest[room:]
	}

	return root, nil
}

// JettonTransferBody encodes a token transfer notification to the sender's
// jetton wallet contract.
func JettonTransferBody(queryId uint64, amount *big.Int, destination tongo.AccountID,
	responseDestination tongo.AccountID, comment string) (*boc.Cell, error) {

	cell := boc.NewCell()
	w := newCellWriter(cell)

	w.uint(opcodeJettonTransfer, 32)
	w.uint(queryId, 64)
	w.grams(amount)
	w.address(destination)
	w.address(responseDestination)
	w.bit(false)               // no custom payload
	w.grams(big.NewInt(1))     // forward one nanoton with the notification
	if comment != "" {
		w.bit(true) // forward payload in reference
		body, err := CommentBody(comment)
		if err != nil {
			return nil, err
		}
		w.ref(body)
	} else {
		w.bit(false)
	}

	return cell, w.err
}

// PayloadFromBase64 decodes a verbatim requester-supplied payload cell.
func PayloadFromBase64(payload string) (*boc.Cell, error) {
	cells, err := boc.DeserializeBocBase64(payload)
	if err != nil || len(cells) != 1 {
		return nil, fmt.Errorf("%w: bad payload cell", domain.ErrorInvalidPayload)
	}
	return cells[0], nil
}

// StateInitFromBase64 decodes contract-initialization data from its compact
// transport encoding into the executable code and the initial state.
func StateInitFromBase64(stateInit string) (*domain.StateInit, error) {
	cells, err := boc.DeserializeBocBase64(stateInit)
	if err != nil || len(cells) != 1 {
		return nil, fmt.Errorf("%w: bad state init", domain.ErrorInvalidPayload)
	}

	code, err := cells[0].NextRef()
	if err != nil {
		return nil, fmt.Errorf("%w: state init misses code", domain.ErrorInvalidPayload)
	}
	data, err := cells[0].NextRef()
	if err != nil {
		return nil, fmt.Errorf("%w: state init misses data", domain.ErrorInvalidPayload)
	}

	return &domain.StateInit{Code: code, Data: data}, nil
}

//---------------------------------

// cellWriter keeps the first write error and lets the layout read linearly.
type cellWriter struct {
	cell *boc.Cell
	err  error
}

func newCellWriter(cell *boc.Cell) *cellWriter {
	return &cellWriter{cell: cell}
}

func (w *cellWriter) uint(value uint64, bits int) {
	if w.err == nil {
		w.err = w.cell.WriteUint(value, bits)
	}
}

func (w *cellWriter) bit(value bool) {
	if w.err == nil {
		w.err = w.cell.WriteBit(value)
	}
}

func (w *cellWriter) bytes(value []byte) {
	if w.err == nil {
		w.err = w.cell.WriteBytes(value)
	}
}

func (w *cellWriter) ref(cell *boc.Cell) {
	if w.err == nil {
		w.err = w.cell.AddRef(cell)
	}
}

// address writes an addr_std without anycast.
func (w *cellWriter) address(id tongo.AccountID) {
	w.uint(2, 2) // addr_std$10
	w.bit(false) // no anycast
	if w.err == nil {
		w.err = w.cell.WriteInt(int64(id.Workchain), 8)
	}
	w.bytes(id.Address[:])
}

// grams writes a coin value as a length-prefixed big-endian integer.
func (w *cellWriter) grams(value *big.Int) {
	if w.err != nil {
		return
	}
	if value == nil || value.Sign() == 0 {
		w.uint(0, 4)
		return
	}
	if value.Sign() < 0 {
		w.err = fmt.Errorf("%w: negative coin value", domain.ErrorInvalidAmount)
		return
	}

	size := (value.BitLen() + 7) / 8
	if size > 15 {
		w.err = fmt.Errorf("%w: coin value out of range", domain.ErrorInvalidAmount)
		return
	}

	w.uint(uint64(size), 4)
	buf := make([]byte, size)
	value.FillBytes(buf)
	w.bytes(buf)
}
