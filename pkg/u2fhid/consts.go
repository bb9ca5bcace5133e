package u2fhid

// Command represents a U2F HID transport command.
type Command byte

const (
	U2FHID_PING  Command = 0x01
	U2FHID_MSG   Command = 0x03
	U2FHID_LOCK  Command = 0x04
	U2FHID_INIT  Command = 0x06
	U2FHID_WINK  Command = 0x08
	U2FHID_SYNC  Command = 0x3C
	U2FHID_ERROR Command = 0x3F
)

// Error is a U2FHID_ERROR response code.
type Error byte

const (
	ERR_INVALID_CMD  Error = 0x01
	ERR_INVALID_PAR  Error = 0x02
	ERR_INVALID_LEN  Error = 0x03
	ERR_INVALID_SEQ  Error = 0x04
	ERR_MSG_TIMEOUT  Error = 0x05
	ERR_CHANNEL_BUSY Error = 0x06
	ERR_OTHER        Error = 0x7F
)

func (e Error) String() string {
	switch e {
	case ERR_INVALID_CMD:
		return "invalid command"
	case ERR_INVALID_PAR:
		return "invalid parameter"
	case ERR_INVALID_LEN:
		return "invalid length"
	case ERR_INVALID_SEQ:
		return "invalid sequence"
	case ERR_MSG_TIMEOUT:
		return "message timeout"
	case ERR_CHANNEL_BUSY:
		return "channel busy"
	default:
		return "other error"
	}
}

const INIT_PACKET_BIT byte = 0x80

const (
	packetSize = 64
	// An init packet carries 57 data bytes, each continuation 59; with a
	// one-byte sequence counter that caps a message at 7609 bytes.
	maxMessageSize = 7609
)

// FIDO HID usage identifiers used to recognize U2F devices.
const (
	fidoUsagePage uint16 = 0xF1D0
	fidoUsage     uint16 = 0x01
)

// U2F raw message constants for the AUTHENTICATE command carrying the
// tunneled key handle.
const (
	u2fInsAuthenticate      byte   = 0x02
	u2fAuthEnforcePresence  byte   = 0x03
	u2fSWNoError            uint16 = 0x9000
	u2fSWConditionsNotMet   uint16 = 0x6985
	u2fSWWrongData          uint16 = 0x6A80
	presencePollingInterval        = 200
)
