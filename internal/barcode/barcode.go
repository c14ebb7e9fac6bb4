// Package barcode renders product barcodes as PNG images.
package barcode

import (
	"bytes"
	"fmt"
	"image/png"
	"math/rand"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// Renderer produces a barcode image for a product code. It is injected into
// the screens that need it so availability is known up front.
type Renderer interface {
	PNG(code string, width, height int) ([]byte, error)
}

// Code128Renderer renders Code 128 barcodes.
type Code128Renderer struct{}

// PNG encodes the code as a Code 128 barcode scaled to the given size.
func (Code128Renderer) PNG(code string, width, height int) ([]byte, error) {
	if code == "" {
		return nil, fmt.Errorf("barcode: empty code")
	}
	encoded, err := code128.Encode(code)
	if err != nil {
		return nil, fmt.Errorf("barcode: encode %q: %w", code, err)
	}
	scaled, err := barcode.Scale(encoded, width, height)
	if err != nil {
		return nil, fmt.Errorf("barcode: scale: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("barcode: png: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateCode returns a fresh 12-digit numeric code: the last eight digits
// of the current unix-millisecond clock plus four random digits.
func GenerateCode() string {
	millis := time.Now().UnixMilli()
	return fmt.Sprintf("%08d%04d", millis%100000000, rand.Intn(10000))
}
