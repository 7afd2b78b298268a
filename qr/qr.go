package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ImageSize is the rendered bitmap edge length in pixels.
const ImageSize = 300

// RenderPNG encodes the payload as a 300x300 PNG with error-correction
// level H. The output is a deterministic function of the payload, so
// re-rendering for the same village always yields the same bytes.
func RenderPNG(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.High, ImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr payload: %w", err)
	}
	return png, nil
}

// ResolveURL builds the public lookup URL embedded in a village's QR
// code.
func ResolveURL(baseURL, uniqueID string) string {
	return fmt.Sprintf("%s/villages/qr/%s", strings.TrimRight(baseURL, "/"), uniqueID)
}
