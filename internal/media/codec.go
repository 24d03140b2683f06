package media

import (
	"encoding/base64"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"acecoach/internal/model"
)

// Encode converts a raw attachment into its transport encoding, sniffing the
// media type from the bytes themselves.
func Encode(raw []byte) model.MediaPayload {
	return model.MediaPayload{
		Data:     base64.StdEncoding.EncodeToString(raw),
		MimeType: mimetype.Detect(raw).String(),
	}
}

// Decode reverses Encode.
func Decode(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode media data: %w", err)
	}
	return raw, nil
}
