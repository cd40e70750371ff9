package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/queue"
)

func paymentFixture(balance int64) (*PaymentHandler, *memPayments, *memContracts) {
	payments := &memPayments{}
	contracts := &memContracts{}
	clients := &memClients{}
	vehicles := &memVehicles{}
	seedClient(clients, "clone00000001", "08022222222", "44444444444", model.StatusActive)
	contracts.rows = append(contracts.rows, &model.Contract{
		CUID:    "concurrent001",
		Code:    333333,
		Client:  model.ContractClient{ID: "clone00000001", Name: "John Lessee", PhoneNumber: "08022222222"},
		Vehicle: model.ContractVehicle{ID: "veone00000001", PlateNumber: "ABC-123"},
		Amount:  decimal.NewFromInt(balance),
		Balance: decimal.NewFromInt(balance),
		Status:  model.StatusActive,
	})
	h := NewPaymentHandler(payments, contracts, clients, vehicles, nil)
	return h, payments, contracts
}

func addPayment(t *testing.T, h *PaymentHandler, body string) (*model.ApiResponse, int) {
	t.Helper()
	c, rec := newTestCtx(t, http.MethodPost, "/v1/payment", body)
	withActor(c, model.RoleAdmin)
	if err := h.Add(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp model.ApiResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return &resp, rec.Code
}

func TestPaymentLifecycle(t *testing.T) {
	h, payments, contracts := paymentFixture(1000)

	// first instalment
	resp, code := addPayment(t, h, `{"contractId":"concurrent001","amount":400,"paymentRef":"REF-1"}`)
	if code != http.StatusCreated {
		t.Fatalf("first payment: status = %d: %+v", code, resp)
	}
	ct := contracts.rows[0]
	if !ct.Balance.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("balance = %s, want 600", ct.Balance)
	}
	if ct.Status != model.StatusActive {
		t.Fatalf("status = %q, want ACTIVE", ct.Status)
	}
	if len(payments.rows) != 1 || payments.rows[0].Status != model.StatusSuccessful {
		t.Fatalf("payments = %+v", payments.rows)
	}
	if payments.rows[0].ContractCode != 333333 || payments.rows[0].ClientName != "John Lessee" {
		t.Fatalf("payment snapshot = %+v", payments.rows[0])
	}

	// settling instalment flips the contract to COMPLETED
	_, code = addPayment(t, h, `{"contractId":"concurrent001","amount":600,"paymentRef":"REF-2"}`)
	if code != http.StatusCreated {
		t.Fatalf("second payment: status = %d", code)
	}
	if !ct.Balance.IsZero() {
		t.Fatalf("balance = %s, want 0", ct.Balance)
	}
	if ct.Status != model.StatusCompleted {
		t.Fatalf("status = %q, want COMPLETED", ct.Status)
	}
	if len(ct.UpdateHistory) != 2 || ct.UpdateHistory[1].ActionType != "PAYMENT" {
		t.Fatalf("history = %+v", ct.UpdateHistory)
	}

	// no pending balance left
	resp, code = addPayment(t, h, `{"contractId":"concurrent001","amount":50}`)
	if code != http.StatusBadRequest {
		t.Fatalf("exhausted: status = %d", code)
	}
	if resp.Message != "Contract does not have pending balance" {
		t.Fatalf("message = %q", resp.Message)
	}

	// cancelling the settling payment restores the balance
	puid := payments.rows[1].PUID
	c, rec := newTestCtx(t, http.MethodDelete, "/v1/payment/"+puid, "")
	c.SetParamNames("puid")
	c.SetParamValues(puid)
	withActor(c, model.RoleAdmin)
	_ = h.Cancel(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d: %s", rec.Code, rec.Body.String())
	}
	if !ct.Balance.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("balance after cancel = %s, want 600", ct.Balance)
	}
	if ct.Status != model.StatusActive {
		t.Fatalf("status after cancel = %q, want ACTIVE", ct.Status)
	}
	if len(payments.rows) != 1 {
		t.Fatalf("payment row not deleted: %+v", payments.rows)
	}
	if ct.UpdateHistory[len(ct.UpdateHistory)-1].ActionType != "CANCEL" {
		t.Fatalf("history tail = %+v", ct.UpdateHistory)
	}
}

func TestPaymentOverdraftRejected(t *testing.T) {
	h, payments, contracts := paymentFixture(1000)

	resp, code := addPayment(t, h, `{"contractId":"concurrent001","amount":1500}`)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if resp.Message != "Amount greater than current balance" {
		t.Fatalf("message = %q", resp.Message)
	}
	if len(payments.rows) != 0 {
		t.Fatal("payment stored despite rejection")
	}
	if !contracts.rows[0].Balance.Equal(decimal.NewFromInt(1000)) {
		t.Fatal("balance mutated despite rejection")
	}
}

func TestPaymentInvalidAmount(t *testing.T) {
	h, _, _ := paymentFixture(1000)

	if _, code := addPayment(t, h, `{"contractId":"concurrent001","amount":0}`); code != http.StatusBadRequest {
		t.Fatalf("zero amount: status = %d, want 400", code)
	}
	if _, code := addPayment(t, h, `{"contractId":"concurrent001","amount":-10}`); code != http.StatusBadRequest {
		t.Fatalf("negative amount: status = %d, want 400", code)
	}
}

func TestPaymentUnknownContract(t *testing.T) {
	h, _, _ := paymentFixture(1000)

	if _, code := addPayment(t, h, `{"contractId":"conmissing001","amount":100}`); code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}

func TestPaymentPublishesEvent(t *testing.T) {
	h, _, _ := paymentFixture(1000)
	events := make(chan queue.PaymentRecordedEvent, 1)
	h.Publish = func(_ context.Context, ev queue.PaymentRecordedEvent) error {
		events <- ev
		return nil
	}

	if _, code := addPayment(t, h, `{"contractId":"concurrent001","amount":250,"paymentRef":"REF-9"}`); code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}
	ev := <-events
	if ev.ContractID != "concurrent001" || ev.PaymentRef != "REF-9" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Amount != "250.00" || ev.Balance != "750.00" {
		t.Fatalf("event amounts = %s / %s", ev.Amount, ev.Balance)
	}
	if ev.ClientPhone != "08022222222" {
		t.Fatalf("event phone = %q", ev.ClientPhone)
	}
	if ev.ContractStatus != model.StatusActive {
		t.Fatalf("event status = %q", ev.ContractStatus)
	}
}

func TestPaymentPublishFailureDoesNotFailRequest(t *testing.T) {
	h, payments, contracts := paymentFixture(1000)
	attempted := make(chan struct{}, 1)
	h.Publish = func(_ context.Context, _ queue.PaymentRecordedEvent) error {
		attempted <- struct{}{}
		return errors.New("broker down")
	}

	_, code := addPayment(t, h, `{"contractId":"concurrent001","amount":100}`)
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 despite publish failure", code)
	}
	<-attempted
	if len(payments.rows) != 1 {
		t.Fatalf("payment not stored: %+v", payments.rows)
	}
	if !contracts.rows[0].Balance.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("balance = %s, want 900", contracts.rows[0].Balance)
	}
}
