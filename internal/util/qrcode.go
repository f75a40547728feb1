package util

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// PNG bytes of a QR code pointing at link. 256 is enough to be scanned from a screen.
func GenerateQRCodePNG(link string, size int) ([]byte, error) {
	if link == "" {
		return nil, fmt.Errorf("failed to generate QR code: link is empty")
	}

	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
