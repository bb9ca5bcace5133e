package u2f

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeField_URLSafe(t *testing.T) {
	// 0xFB 0xEF hits both substituted alphabet characters.
	s := EncodeField([]byte{0xFB, 0xEF, 0xBE})

	assert.NotContains(t, s, "+")
	assert.NotContains(t, s, "/")
	assert.NotContains(t, s, "=")
}

func TestDecodeField_PaddingTolerated(t *testing.T) {
	b, err := DecodeField("kA==")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x90}, b)

	b, err = DecodeField("kA")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x90}, b)
}
