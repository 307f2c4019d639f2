package audio

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestDecode_RawBase64(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04}
	data, err := Decode(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Errorf("expected %v, got %v", raw, data)
	}
}

func TestDecode_DataURL(t *testing.T) {
	raw := []byte("hello audio")
	payload := "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(raw)
	data, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Errorf("expected %q, got %q", raw, data)
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode(""); err == nil {
		t.Error("expected error for empty payload")
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode("not-base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	encoded := Encode(raw)
	if !strings.HasPrefix(encoded, "data:audio/mp3;base64,") {
		t.Fatalf("expected data URL prefix, got %q", encoded)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Errorf("expected %v, got %v", raw, decoded)
	}
}
