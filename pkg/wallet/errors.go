package wallet

import (
	"errors"
	"strconv"

	"github.com/go-btchip/btchip/pkg/apdu"
)

var (
	ErrInvalidArgument          = errors.New("wallet: invalid argument")
	ErrWalletNotInitialized     = errors.New("wallet: not initialized")
	ErrWalletAlreadyInitialized = errors.New("wallet: already initialized")
	ErrPinNotVerified           = errors.New("wallet: pin not verified")
	ErrUnsupportedPinLength     = errors.New("wallet: unsupported pin length")
	ErrPinBlocked               = errors.New("wallet: pin blocked, wallet wiped")
	ErrConfirmationExpired      = errors.New("wallet: signature confirmation expired")
)

// StatusError reports an unexpected status word for which no more
// specific condition exists.
type StatusError struct {
	Ins apdu.Instruction
	SW  uint16
}

func newStatusError(ins apdu.Instruction, sw uint16) *StatusError {
	return &StatusError{Ins: ins, SW: sw}
}

func (e *StatusError) Error() string {
	return "wallet: " + e.Ins.String() + " failed (sw=0x" + strconv.FormatUint(uint64(e.SW), 16) + ")"
}

// PinRetryError reports a failed PIN verification together with the
// number of attempts remaining before the device wipes itself.
type PinRetryError struct {
	TriesLeft int
}

func (e *PinRetryError) Error() string {
	return "wallet: invalid pin, " + strconv.Itoa(e.TriesLeft) + " tries left"
}
