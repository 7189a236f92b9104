package utils

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// VerifyURL builds the public link encoded into a result sheet's QR code.
func VerifyURL(baseURL, admissionNumber, term, session string) string {
	q := url.Values{}
	q.Set("term", term)
	q.Set("session", session)
	return fmt.Sprintf("%s/api/v1/verify/%s?%s", baseURL, url.PathEscape(admissionNumber), q.Encode())
}

// GenerateQRCodePNG renders content as a PNG QR code of the given pixel size.
func GenerateQRCodePNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
