package wallet

import "github.com/go-btchip/btchip/pkg/apdu"

// opKind disambiguates status words whose meaning depends on the
// operation that produced them.
type opKind int

const (
	opGeneric opKind = iota
	opSetup
	opVerifyPin
	opFinalize
)

// classify maps a status word to a domain condition. A nil return means
// success. A verify-PIN rejection comes back as ErrPinNotVerified; the
// caller upgrades it to PinRetryError via the tries-remaining follow-up.
func classify(op opKind, ins apdu.Instruction, sw uint16) error {
	switch sw {
	case apdu.SWOK:
		return nil
	case apdu.SWInsNotSupported:
		if op == opSetup {
			return ErrWalletAlreadyInitialized
		}
		return ErrWalletNotInitialized
	case apdu.SWSecurityStatus:
		return ErrPinNotVerified
	case apdu.SWWrongLength:
		return ErrUnsupportedPinLength
	case apdu.SWBlocked:
		return ErrPinBlocked
	case apdu.SWConditionNotSatisfied:
		if op == opFinalize {
			return ErrConfirmationExpired
		}
	}

	return newStatusError(ins, sw)
}
