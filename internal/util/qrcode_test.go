package util

import (
	"bytes"
	"testing"
)

func TestGenerateQRCodePNG(t *testing.T) {
	png, err := GenerateQRCodePNG("https://sign.example.com/sign/c1?signer=s1", 128)
	if err != nil {
		t.Fatalf("GenerateQRCodePNG() error = %v", err)
	}

	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("expected PNG signature, got % x", png[:8])
	}

	if _, err := GenerateQRCodePNG("", 128); err == nil {
		t.Errorf("expected error for empty link")
	}
}
