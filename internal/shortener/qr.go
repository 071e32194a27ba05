package shortener

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 256
	MinQRSize     = 64
	MaxQRSize     = 1024

	qrDataURLPrefix = "data:image/png;base64,"
)

// QRCodePNG encodes content as a PNG QR code of size x size pixels.
func QRCodePNG(content string, size int) ([]byte, error) {
	if size < MinQRSize || size > MaxQRSize {
		return nil, fmt.Errorf("qr size must be between %d and %d", MinQRSize, MaxQRSize)
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// QRCodeDataURL returns the QR code of content as a PNG data URL.
func QRCodeDataURL(content string) (string, error) {
	png, err := QRCodePNG(content, DefaultQRSize)
	if err != nil {
		return "", err
	}
	return qrDataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
