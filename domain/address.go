package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/snksoft/crc"
	"github.com/tonkeeper/tongo"
)

// Friendly address tag bytes.
const (
	tagBounceable    = 0x11
	tagNonBounceable = 0x51
	tagTestOnly      = 0x80
)

var base64Variants = strings.NewReplacer("-", "+", "_", "/")

// TransferAddress is a destination address together with the
// bounceable/non-bounceable encoding it carries.
type TransferAddress struct {
	ID         tongo.AccountID
	Bounceable bool
	TestOnly   bool
}

// ParseTransferAddress accepts both the raw form ("0:<hex>") and the
// user-friendly base64 form. Raw addresses are bounceable by default; the
// friendly form carries its own bounce tag.
func ParseTransferAddress(address string) (TransferAddress, error) {
	address = strings.TrimSpace(address)

	if strings.Contains(address, ":") {
		return parseRawAddress(address)
	}

	data, err := base64.StdEncoding.DecodeString(base64Variants.Replace(address))
	if err != nil || len(data) != 36 {
		return TransferAddress{}, fmt.Errorf("%w: %v", ErrorInvalidAddress, address)
	}

	checksum := uint16(crc.CalculateCRC(crc.XMODEM, data[:34]))
	if checksum != uint16(data[34])<<8|uint16(data[35]) {
		return TransferAddress{}, fmt.Errorf("%w: bad checksum in %v", ErrorInvalidAddress, address)
	}

	tag := data[0]
	testOnly := tag&tagTestOnly != 0
	tag &^= tagTestOnly

	var bounceable bool
	switch tag {
	case tagBounceable:
		bounceable = true
	case tagNonBounceable:
		bounceable = false
	default:
		return TransferAddress{}, fmt.Errorf("%w: unknown tag in %v", ErrorInvalidAddress, address)
	}

	var bits tongo.Bits256
	copy(bits[:], data[2:34])

	return TransferAddress{
		ID:         *tongo.NewAccountId(int32(int8(data[1])), bits),
		Bounceable: bounceable,
		TestOnly:   testOnly,
	}, nil
}

func parseRawAddress(address string) (TransferAddress, error) {
	parts := strings.SplitN(address, ":", 2)
	workchain, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return TransferAddress{}, fmt.Errorf("%w: %v", ErrorInvalidAddress, address)
	}

	var bits tongo.Bits256
	if err := bits.FromHex(parts[1]); err != nil {
		return TransferAddress{}, fmt.Errorf("%w: %v", ErrorInvalidAddress, address)
	}

	return TransferAddress{
		ID:         *tongo.NewAccountId(int32(workchain), bits),
		Bounceable: true,
	}, nil
}
