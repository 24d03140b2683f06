package media_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"acecoach/internal/media"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xff, 0xfe, 0x7f, 0x80, 0x42}

	payload := media.Encode(raw)
	require.NotEmpty(t, payload.Data)
	require.NotEmpty(t, payload.MimeType)

	decoded, err := media.Decode(payload.Data)
	require.NoError(t, err)
	require.Equal(t, raw, decoded)
}

func TestEncodeSniffsMediaType(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d}

	payload := media.Encode(png)
	require.Equal(t, "image/png", payload.MimeType)
}

func TestDecodeRejectsInvalidBase64(t *testing.T) {
	_, err := media.Decode("not base64!!")
	require.Error(t, err)
}
