package u2fhid

import (
	"bytes"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCID = ChannelID{0x46, 0x2F, 0xEF, 0x4D}

// stripReportIDs drops the leading HID report ID byte from each written
// 65-byte report so the stream can be read back.
func stripReportIDs(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, report := range lo.Chunk(b, packetSize+1) {
		out = append(out, report[1:]...)
	}
	return out
}

func TestMessage_RoundTrip_SinglePacket(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}

	msg, err := NewMessage(testCID, U2FHID_MSG, payload)
	require.NoError(t, err)
	require.Len(t, msg, 1)

	buf := bytes.NewBuffer(nil)
	_, err = msg.WriteTo(buf)
	require.NoError(t, err)

	read := new(Message)
	_, err = read.ReadFrom(bytes.NewReader(stripReportIDs(buf.Bytes())))
	require.NoError(t, err)

	assert.Equal(t, U2FHID_MSG, read.Command())
	assert.Equal(t, payload, read.Data())
}

func TestMessage_RoundTrip_Continuations(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 200)

	msg, err := NewMessage(testCID, U2FHID_MSG, payload)
	require.NoError(t, err)
	// 57 bytes in the init packet, 59 per continuation.
	require.Len(t, msg, 4)

	buf := bytes.NewBuffer(nil)
	_, err = msg.WriteTo(buf)
	require.NoError(t, err)

	read := new(Message)
	_, err = read.ReadFrom(bytes.NewReader(stripReportIDs(buf.Bytes())))
	require.NoError(t, err)

	assert.Equal(t, payload, read.Data())
}

func TestNewMessage_TooLarge(t *testing.T) {
	_, err := NewMessage(testCID, U2FHID_MSG, make([]byte, maxMessageSize+1))
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestMessage_ReadFrom_InitPacketLayout(t *testing.T) {
	report := make([]byte, packetSize)
	copy(report, testCID[:])
	report[4] = byte(U2FHID_MSG) | INIT_PACKET_BIT
	report[5], report[6] = 0x00, 0x02
	report[7], report[8] = 0x90, 0x00

	msg := new(Message)
	n, err := msg.ReadFrom(bytes.NewReader(report))
	require.NoError(t, err)

	assert.Equal(t, int64(packetSize), n)
	assert.Equal(t, []byte{0x90, 0x00}, msg.Data())
}

func TestMessage_ReadFrom_ContinuationFirst(t *testing.T) {
	report := make([]byte, packetSize)
	copy(report, testCID[:])
	report[4] = 0x00 // sequence byte, not an init packet

	msg := new(Message)
	_, err := msg.ReadFrom(bytes.NewReader(report))
	assert.ErrorIs(t, err, ErrInvalidResponseMessage)
}

func TestParseInitResponse(t *testing.T) {
	data := []byte{
		1, 2, 3, 4, 5, 6, 7, 8, // nonce
		0x00, 0x11, 0x22, 0x33, // cid
		2,       // protocol version
		1, 0, 3, // device version
		0x01, // capabilities
	}

	r, err := parseInitResponse(data)
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, r.Nonce)
	assert.Equal(t, ChannelID{0x00, 0x11, 0x22, 0x33}, r.CID)
	assert.Equal(t, byte(2), r.ProtocolVersion)

	_, err = parseInitResponse(data[:16])
	assert.ErrorIs(t, err, ErrInvalidResponseMessage)
}

func TestAuthenticateMessage(t *testing.T) {
	keyHandle := bytes.Repeat([]byte{0x7E}, 13)

	msg := authenticateMessage(make([]byte, 32), "https://localhost", keyHandle)

	require.Len(t, msg, 7+32+32+1+13)
	assert.Equal(t, []byte{0x00, 0x02, 0x03, 0x00, 0x00}, msg[:5])
	assert.Equal(t, []byte{0x00, 32 + 32 + 1 + 13}, msg[5:7])
	assert.Equal(t, byte(13), msg[7+64])
	assert.Equal(t, keyHandle, msg[7+65:])
}
