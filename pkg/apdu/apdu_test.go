package apdu

import (
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Bytes(t *testing.T) {
	cmd := New(InsVerifyPin, 0x00, 0x00, []byte("1234"))

	assert.Equal(t, []byte{0x80, 0x22, 0x00, 0x00, 0x04, '1', '2', '3', '4'}, cmd.Bytes())
}

func TestCommand_Bytes_Le(t *testing.T) {
	// Payload-less frame asking for 16 response bytes.
	cmd := Command{Ins: InsGetRandom, Le: 16}

	assert.Equal(t, []byte{0x80, 0xC0, 0x00, 0x00, 0x10}, cmd.Bytes())
}

func TestParseResponse(t *testing.T) {
	raw := []byte{0xAA, 0xBB, 0x90, 0x00}

	resp, err := ParseResponse(raw, mo.Some(2))
	require.NoError(t, err)

	assert.Equal(t, uint16(SWOK), resp.SW())
	assert.Equal(t, []byte{0xAA, 0xBB}, resp.Payload())
}

func TestParseResponse_TooShort(t *testing.T) {
	_, err := ParseResponse([]byte{0x90}, mo.None[int]())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseResponse_WrongPayloadLength(t *testing.T) {
	_, err := ParseResponse([]byte{0xAA, 0x90, 0x00}, mo.Some(2))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseResponse_RoundTrip(t *testing.T) {
	// A built frame answered by a synthetic success response of the
	// expected length never yields a malformed-response error.
	cmd := New(InsGetWalletInfo, 0x00, 0x00, nil)
	require.Len(t, cmd.Bytes(), 5)

	synthetic := append(make([]byte, 10), 0x90, 0x00)
	resp, err := ParseResponse(synthetic, mo.Some(10))
	require.NoError(t, err)
	assert.Equal(t, uint16(SWOK), resp.SW())
}

func TestTriesLeft(t *testing.T) {
	n, ok := TriesLeft(0x63C2)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = TriesLeft(SWInsNotSupported)
	assert.False(t, ok)
}
