package imagepkg

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	MinQRSize = 64
	MaxQRSize = 2048
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text. The size is
// clamped to [MinQRSize, MaxQRSize] pixels.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty qr text")
	}
	size = min(max(size, MinQRSize), MaxQRSize)
	return qrcode.Encode(text, qrcode.Medium, size)
}
