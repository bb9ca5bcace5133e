package apdu

// ClassProprietary is the instruction class shared by every command in
// the wallet's proprietary command set.
const ClassProprietary byte = 0x80

// Instruction represents a wallet command instruction code.
type Instruction byte

const (
	InsGetWalletInfo Instruction = 0xC4
	InsGetRandom     Instruction = 0xC0
	InsGetRandomID   Instruction = 0xE2
	InsSetup         Instruction = 0x20
	InsWipe          Instruction = 0xF0
	InsVerifyPin     Instruction = 0x22
	InsGetPublicKey  Instruction = 0x40
	InsSignData      Instruction = 0xF2
)

func (i Instruction) String() string {
	switch i {
	case InsGetWalletInfo:
		return "GET_WALLET_INFO"
	case InsGetRandom:
		return "GET_RANDOM"
	case InsGetRandomID:
		return "GET_RANDOM_ID"
	case InsSetup:
		return "SETUP"
	case InsWipe:
		return "WIPE"
	case InsVerifyPin:
		return "VERIFY_PIN"
	case InsGetPublicKey:
		return "GET_PUBLIC_KEY"
	case InsSignData:
		return "SIGN_DATA"
	default:
		return "UNKNOWN"
	}
}

// P1 values for InsVerifyPin.
const (
	VerifyPinCheck     byte = 0x00
	VerifyPinTriesLeft byte = 0x80
)

// P1 values tagging the role of an InsSignData frame.
const (
	SignStart    byte = 0x00
	SignContinue byte = 0x01
	SignFinish   byte = 0x02
)

// Status words returned in the trailing two bytes of a response frame.
const (
	SWOK                    uint16 = 0x9000
	SWConditionNotSatisfied uint16 = 0x6401
	SWWrongLength           uint16 = 0x6700
	SWSecurityStatus        uint16 = 0x6982
	SWBlocked               uint16 = 0x6983
	SWInsNotSupported       uint16 = 0x6D00

	// SWCounterBase is the 0x63Cn family: the low nibble carries the
	// number of PIN tries remaining.
	SWCounterBase uint16 = 0x63C0
	SWCounterMask uint16 = 0xFFF0
)

// MaxPayload is the largest payload a single command frame can carry,
// bounded by the one-byte length field.
const MaxPayload = 255
