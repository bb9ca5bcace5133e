package wallet

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-btchip/btchip/pkg/tunnel"
)

func TestSign_ChunkSequence(t *testing.T) {
	// 256 bytes: exactly two full chunks plus the finalize frame.
	data := bytes.Repeat([]byte{0xEE}, 256)
	signature := []byte{0x30, 0x44, 0x02, 0x20}

	cl, st := newTestClient(t, ok(), ok(), ok(signature...))

	got, err := cl.Sign(hex.EncodeToString(data))
	require.NoError(t, err)
	assert.Equal(t, signature, got)

	require.Len(t, st.frames, 3)

	first, second, finalize := st.frames[0], st.frames[1], st.frames[2]
	assert.Equal(t, []byte{0x80, 0xF2, 0x00, 0x00, 128}, first[:5])
	assert.Equal(t, data[:128], first[5:])
	assert.Equal(t, []byte{0x80, 0xF2, 0x01, 0x00, 128}, second[:5])
	assert.Equal(t, data[128:], second[5:])
	assert.Equal(t, []byte{0x80, 0xF2, 0x02, 0x00, 0x00}, finalize)
}

func TestSign_RemainderChunk(t *testing.T) {
	data := bytes.Repeat([]byte{0xEE}, 130)

	cl, st := newTestClient(t, ok(), ok(), ok(0x30))

	_, err := cl.Sign(hex.EncodeToString(data))
	require.NoError(t, err)

	require.Len(t, st.frames, 3)
	assert.Equal(t, byte(128), st.frames[0][4])
	assert.Equal(t, byte(2), st.frames[1][4])
}

func TestSign_SingleChunk(t *testing.T) {
	cl, st := newTestClient(t, ok(), ok(0x30))

	_, err := cl.Sign("aabb")
	require.NoError(t, err)

	require.Len(t, st.frames, 2)
	assert.Equal(t, []byte{0x80, 0xF2, 0x00, 0x00, 0x02, 0xAA, 0xBB}, st.frames[0])
	assert.Equal(t, []byte{0x80, 0xF2, 0x02, 0x00, 0x00}, st.frames[1])
}

func TestSign_ChunkTimeoutAbortsTransfer(t *testing.T) {
	data := bytes.Repeat([]byte{0xEE}, 256)

	cl, st := newTestClient(t, ok(), step{err: errTimeout})

	_, err := cl.Sign(hex.EncodeToString(data))
	assert.ErrorIs(t, err, tunnel.ErrTransport)
	assert.ErrorIs(t, err, errTimeout)

	// No frame follows the failed chunk.
	assert.Len(t, st.frames, 2)
}

func TestSign_ChunkRejectionAbortsTransfer(t *testing.T) {
	data := bytes.Repeat([]byte{0xEE}, 256)

	cl, st := newTestClient(t, ok(), sw(0x69, 0x82))

	_, err := cl.Sign(hex.EncodeToString(data))
	assert.ErrorIs(t, err, ErrPinNotVerified)
	assert.Len(t, st.frames, 2)
}

func TestSign_ConfirmationExpired(t *testing.T) {
	cl, _ := newTestClient(t, ok(), sw(0x64, 0x01))

	_, err := cl.Sign("aabb")
	assert.ErrorIs(t, err, ErrConfirmationExpired)
}

func TestSign_InvalidInput(t *testing.T) {
	for _, in := range []string{"", "zz"} {
		cl, st := newTestClient(t)

		_, err := cl.Sign(in)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Empty(t, st.frames)
	}
}
