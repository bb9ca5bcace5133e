// Package apdu implements the command/response frame codec spoken by
// BTChip-style hardware wallets: short APDU command frames with a
// one-byte length field, and response frames trailed by a two-byte
// status word.
package apdu

import (
	"encoding/binary"

	"github.com/samber/mo"
)

// Command is a single command frame before serialization.
//
// When Data is empty, Le may carry an expected response length; it then
// occupies the length byte of the serialized frame with no payload
// following, as GetRandom-style commands require. Callers are
// responsible for keeping Data within MaxPayload; the operations layer
// validates sizes before a frame is ever built.
type Command struct {
	Ins Instruction
	P1  byte
	P2  byte
	// Data is the command payload, at most MaxPayload bytes.
	Data []byte
	// Le is the expected response length for payload-less commands.
	Le byte
}

// New builds a command frame with the given payload.
func New(ins Instruction, p1, p2 byte, data []byte) Command {
	return Command{Ins: ins, P1: p1, P2: p2, Data: data}
}

// Bytes serializes the frame as CLA INS P1 P2 LEN DATA.
func (c Command) Bytes() []byte {
	length := byte(len(c.Data))
	if len(c.Data) == 0 {
		length = c.Le
	}

	b := make([]byte, 0, 5+len(c.Data))
	b = append(b, ClassProprietary, byte(c.Ins), c.P1, c.P2, length)
	b = append(b, c.Data...)

	return b
}

// Response is a raw response frame: payload bytes followed by SW1 SW2.
type Response []byte

// SW returns the 16-bit status word from the trailing two bytes.
func (r Response) SW() uint16 {
	return binary.BigEndian.Uint16(r[len(r)-2:])
}

// Payload returns the response bytes preceding the status word.
func (r Response) Payload() []byte {
	return r[:len(r)-2]
}

// ParseResponse validates a raw response frame. A frame must carry at
// least a status word; when expected is present the payload length must
// match it exactly.
func ParseResponse(raw []byte, expected mo.Option[int]) (Response, error) {
	if len(raw) < 2 {
		return nil, ErrMalformedResponse
	}

	r := Response(raw)
	if want, ok := expected.Get(); ok && len(r.Payload()) != want {
		return nil, ErrMalformedResponse
	}

	return r, nil
}

// TriesLeft extracts the retry counter from a 0x63Cn status word.
// The boolean reports whether sw belongs to that family at all.
func TriesLeft(sw uint16) (int, bool) {
	if sw&SWCounterMask != SWCounterBase {
		return 0, false
	}
	return int(sw & 0x000F), true
}
