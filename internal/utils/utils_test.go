package utils

import (
	"strings"
	"testing"
)

func TestNewRefShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref := NewRef("cl")
		if !strings.HasPrefix(ref, "cl") {
			t.Fatalf("missing prefix: %q", ref)
		}
		if len(ref) != 13 {
			t.Fatalf("expected prefix+11 chars, got %q (len %d)", ref, len(ref))
		}
		if ref != strings.ToLower(ref) {
			t.Fatalf("expected lowercase: %q", ref)
		}
		if seen[ref] {
			t.Fatalf("duplicate ref generated: %q", ref)
		}
		seen[ref] = true
	}
}

func TestNewCodeRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewCode()
		if code < 100000 || code > 999999 {
			t.Fatalf("code out of range: %d", code)
		}
	}
}

func TestValidPhoneNumber(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"08012345678", true},
		{"12345678901", true},
		{"0801234567", false},   // 10 digits
		{"080123456789", false}, // 12 digits
		{"0801234567a", false},
		{"+2348012345", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidPhoneNumber(tc.in); got != tc.ok {
			t.Errorf("ValidPhoneNumber(%q) = %v, want %v", tc.in, got, tc.ok)
		}
		if got := ValidIdentityNumber(tc.in); got != tc.ok {
			t.Errorf("ValidIdentityNumber(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("topsecret", "08012345678", "usabc123", 15)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := ParseAccessToken("topsecret", tok.Token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Username != "08012345678" || claims.Subject != "usabc123" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("topsecret", "08012345678", "usabc123", 15)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := ParseAccessToken("othersecret", tok.Token); err == nil {
		t.Fatal("token verified with wrong secret")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken("topsecret", "08012345678", "usabc123", -1)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := ParseAccessToken("topsecret", tok.Token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestAccessTokenGarbage(t *testing.T) {
	if _, err := ParseAccessToken("topsecret", "not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
