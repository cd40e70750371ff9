package queue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingSender struct {
	to, body string
	calls    int
}

func (r *recordingSender) Send(_ context.Context, to, body string) error {
	r.to, r.body = to, body
	r.calls++
	return nil
}

func TestHandleMessage(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	ev := PaymentRecordedEvent{
		PaymentID:      "payabc123def4",
		PaymentRef:     "REF-7",
		ContractID:     "concurrent001",
		ClientName:     "John Lessee",
		ClientPhone:    "2348022222222",
		VehiclePlate:   "ABC-123",
		Amount:         "400.00",
		Balance:        "600.00",
		ContractStatus: "ACTIVE",
		RecordedBy:     "Test Admin",
		RecordedAt:     "2026-08-28T10:00:00Z",
	}
	body, _ := json.Marshal(ev)

	sender := &recordingSender{}
	if err := handleMessage(body, sender); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	logged, err := os.ReadFile(filepath.Join(dir, "logs", "payment.log"))
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	line := string(logged)
	for _, want := range []string{"payabc123def4", "REF-7", "400.00", "600.00", "ACTIVE"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line missing %q: %s", want, line)
		}
	}

	if sender.calls != 1 || sender.to != "2348022222222" {
		t.Fatalf("receipt not sent: %+v", sender)
	}
	if !strings.Contains(sender.body, "400.00") || !strings.Contains(sender.body, "ABC-123") {
		t.Fatalf("receipt body = %q", sender.body)
	}
}

func TestHandleMessageSkipsReceiptWithoutPhone(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	body, _ := json.Marshal(PaymentRecordedEvent{PaymentID: "payabc123def4"})
	sender := &recordingSender{}
	if err := handleMessage(body, sender); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if sender.calls != 0 {
		t.Fatal("receipt sent without a phone number")
	}
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	if err := handleMessage([]byte("not json"), nil); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
