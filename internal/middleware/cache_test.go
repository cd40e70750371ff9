package middleware

import (
	"net/http"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("X-Custom", "abc")
	body := []byte(`{"success":true}`)

	encoded, err := encodePayload(201, hdr, body)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(encoded)
	if !ok {
		t.Fatal("decode rejected its own encoding")
	}
	if status != 201 {
		t.Fatalf("status = %d, want 201", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" || gotHdr.Get("X-Custom") != "abc" {
		t.Fatalf("headers lost: %+v", gotHdr)
	}
	if string(gotBody) != string(body) {
		t.Fatalf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayloadGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 8)} {
		if _, _, _, ok := decodePayload(bs); ok && len(bs) < 8 {
			t.Fatalf("accepted %d-byte payload", len(bs))
		}
	}
	// header length pointing past the buffer
	bad := make([]byte, 12)
	bad[7] = 200
	if _, _, _, ok := decodePayload(bad); ok {
		t.Fatal("accepted payload with out-of-range header length")
	}
}
