package barcode_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/inventorypro/inventorypro-web/internal/barcode"
	_ "github.com/inventorypro/inventorypro-web/testing"
)

func TestCode128PNG(t *testing.T) {
	renderer := barcode.Code128Renderer{}
	img, err := renderer.PNG("123456789012", 280, 90)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != 280 || bounds.Dy() != 90 {
		t.Fatalf("unexpected dimensions %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCode128PNGEmptyCode(t *testing.T) {
	renderer := barcode.Code128Renderer{}
	if _, err := renderer.PNG("", 280, 90); err == nil {
		t.Fatalf("expected error for empty code")
	}
}

func TestGenerateCode(t *testing.T) {
	code := barcode.GenerateCode()
	if len(code) != 12 {
		t.Fatalf("expected 12 digits, got %d (%q)", len(code), code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit in code %q", code)
		}
	}
	if barcode.GenerateCode() == code && barcode.GenerateCode() == code {
		t.Fatalf("codes should vary")
	}
}
