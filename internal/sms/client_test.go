package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeRecipient(t *testing.T) {
	cases := []struct{ in, want string }{
		{"08012345678", "2348012345678"},
		{"2348012345678", "2348012345678"},
		{"18012345678", "18012345678"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeRecipient(tc.in); got != tc.want {
			t.Errorf("NormalizeRecipient(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSendBuildsGatewayQuery(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"api_token": q.Get("api_token"),
			"from":      q.Get("from"),
			"to":        q.Get("to"),
			"body":      q.Get("body"),
			"dnd":       q.Get("dnd"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok123", "FleetLease")
	if err := c.Send(context.Background(), "08012345678", "hello there"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if got["api_token"] != "tok123" || got["from"] != "FleetLease" || got["dnd"] != "2" {
		t.Fatalf("unexpected query: %+v", got)
	}
	if got["to"] != "2348012345678" {
		t.Fatalf("recipient not normalized: %q", got["to"])
	}
	if got["body"] != "hello there" {
		t.Fatalf("body mangled: %q", got["body"])
	}
}

func TestSendGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", "FleetLease")
	if err := c.Send(context.Background(), "08012345678", "hi"); err == nil {
		t.Fatal("expected error on gateway rejection")
	}
}
