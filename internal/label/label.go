package label

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

// VerifyURL returns the public link a customer opens to check a product
func VerifyURL(publicURL, transactionID, signature string) (string, error) {
	base, err := url.Parse(strings.TrimRight(publicURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("invalid public url %q", publicURL)
	}

	base.Path += "/verify"
	base.RawQuery = url.Values{
		"tx":        {transactionID},
		"signature": {signature},
	}.Encode()
	return base.String(), nil
}

// PNG renders link as a QR code image of size x size pixels
func PNG(link string, size int) ([]byte, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("size must be between %d and %d", MinSize, MaxSize)
	}
	if link == "" {
		return nil, errors.New("empty link")
	}

	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}

// Base64PNG is PNG encoded for embedding in JSON or data URIs
func Base64PNG(link string, size int) (string, error) {
	png, err := PNG(link, size)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
