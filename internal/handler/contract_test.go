package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bernardokeke/fleetlease/internal/model"
)

func seedVehicle(vehicles *memVehicles, vuid, plate, identity, status string) *model.Vehicle {
	v := &model.Vehicle{
		VUID:           vuid,
		Code:           222222,
		PlateNumber:    plate,
		IdentityNumber: identity,
		Status:         status,
	}
	vehicles.rows = append(vehicles.rows, v)
	return v
}

func contractFixture() (*ContractHandler, *memContracts, *memClients, *memVehicles) {
	contracts := &memContracts{}
	clients := &memClients{}
	vehicles := &memVehicles{}
	return NewContractHandler(contracts, clients, vehicles), contracts, clients, vehicles
}

func TestContractCreate(t *testing.T) {
	h, contracts, clients, vehicles := contractFixture()
	seedClient(clients, "clone00000001", "08022222222", "44444444444", model.StatusActive)
	v := seedVehicle(vehicles, "veone00000001", "ABC-123", "55555555555", model.StatusActive)

	c, rec := newTestCtx(t, http.MethodPost, "/v1/contract",
		`{"clientId":"clone00000001","vehicleId":"veone00000001","amount":1000,"discount":100,
		  "startDate":"2026-01-01","endDate":"2026-12-31"}`)
	withActor(c, model.RoleAdmin)
	_ = h.Create(c)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(contracts.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(contracts.rows))
	}
	ct := contracts.rows[0]
	if !ct.Balance.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("balance = %s, want 900 (amount minus discount)", ct.Balance)
	}
	if ct.Client.Name != "John Lessee" || ct.Vehicle.PlateNumber != "ABC-123" {
		t.Fatalf("snapshots = %+v / %+v", ct.Client, ct.Vehicle)
	}
	if ct.Status != model.StatusActive {
		t.Fatalf("status = %q", ct.Status)
	}
	if v.CurrentContractID != ct.CUID || v.CurrentClientID != "clone00000001" {
		t.Fatalf("vehicle back-references not set: %+v", v)
	}
}

func TestContractCreateRejectsBusyClient(t *testing.T) {
	h, contracts, clients, vehicles := contractFixture()
	seedClient(clients, "clone00000001", "08022222222", "44444444444", model.StatusActive)
	seedVehicle(vehicles, "veone00000001", "ABC-123", "55555555555", model.StatusActive)
	seedVehicle(vehicles, "vetwo00000002", "XYZ-789", "66666666666", model.StatusActive)
	contracts.rows = append(contracts.rows, &model.Contract{
		CUID:   "conexisting01",
		Client: model.ContractClient{ID: "clone00000001"},
		Status: model.StatusActive,
	})

	c, rec := newTestCtx(t, http.MethodPost, "/v1/contract",
		`{"clientId":"clone00000001","vehicleId":"vetwo00000002","amount":500}`)
	withActor(c, model.RoleAdmin)
	_ = h.Create(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp model.ApiResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Client has an active contract" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestContractCreateRejectsInactiveVehicle(t *testing.T) {
	h, _, clients, vehicles := contractFixture()
	seedClient(clients, "clone00000001", "08022222222", "44444444444", model.StatusActive)
	seedVehicle(vehicles, "veone00000001", "ABC-123", "55555555555", model.StatusSuspended)

	c, rec := newTestCtx(t, http.MethodPost, "/v1/contract",
		`{"clientId":"clone00000001","vehicleId":"veone00000001","amount":500}`)
	withActor(c, model.RoleAdmin)
	_ = h.Create(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestContractCreateRejectsMissingClient(t *testing.T) {
	h, _, _, vehicles := contractFixture()
	seedVehicle(vehicles, "veone00000001", "ABC-123", "55555555555", model.StatusActive)

	c, rec := newTestCtx(t, http.MethodPost, "/v1/contract",
		`{"clientId":"clmissing0001","vehicleId":"veone00000001","amount":500}`)
	withActor(c, model.RoleAdmin)
	_ = h.Create(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestContractCreateRejectsExcessDiscount(t *testing.T) {
	h, _, clients, vehicles := contractFixture()
	seedClient(clients, "clone00000001", "08022222222", "44444444444", model.StatusActive)
	seedVehicle(vehicles, "veone00000001", "ABC-123", "55555555555", model.StatusActive)

	c, rec := newTestCtx(t, http.MethodPost, "/v1/contract",
		`{"clientId":"clone00000001","vehicleId":"veone00000001","amount":500,"discount":600}`)
	withActor(c, model.RoleAdmin)
	_ = h.Create(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestContractUpdateRecordsHistory(t *testing.T) {
	h, contracts, clients, vehicles := contractFixture()
	seedClient(clients, "clone00000001", "08022222222", "44444444444", model.StatusActive)
	seedVehicle(vehicles, "veone00000001", "ABC-123", "55555555555", model.StatusActive)
	contracts.rows = append(contracts.rows, &model.Contract{
		CUID:      "concurrent001",
		Code:      333333,
		Client:    model.ContractClient{ID: "clone00000001", Name: "John Lessee"},
		Vehicle:   model.ContractVehicle{ID: "veone00000001", PlateNumber: "ABC-123"},
		Amount:    decimal.NewFromInt(1000),
		Discount:  decimal.Zero,
		Balance:   decimal.NewFromInt(1000),
		StartDate: "2026-01-01",
		EndDate:   "2026-06-30",
		Status:    model.StatusActive,
	})

	c, rec := newTestCtx(t, http.MethodPut, "/v1/contract/concurrent001",
		`{"amount":1200,"endDate":"2026-12-31"}`)
	c.SetParamNames("cuid")
	c.SetParamValues("concurrent001")
	withActor(c, model.RoleAdmin)
	_ = h.Update(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	ct := contracts.rows[0]
	if !ct.Amount.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("amount = %s", ct.Amount)
	}
	if !ct.Balance.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("balance = %s, want 1200 (raised with the amount)", ct.Balance)
	}
	if ct.EndDate != "2026-12-31" {
		t.Fatalf("endDate = %q", ct.EndDate)
	}
	if len(ct.UpdateHistory) != 1 {
		t.Fatalf("history entries = %d, want 1 aggregated entry", len(ct.UpdateHistory))
	}
	entry := ct.UpdateHistory[0]
	if entry.ActionType != "UPDATE" {
		t.Fatalf("actionType = %q", entry.ActionType)
	}
	if entry.PrevAmount == nil || !entry.PrevAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("prevAmount = %v", entry.PrevAmount)
	}
	if entry.PrevEndDate != "2026-06-30" {
		t.Fatalf("prevEndDate = %q", entry.PrevEndDate)
	}
}

func TestContractListDefaultsToActive(t *testing.T) {
	h, contracts, _, _ := contractFixture()
	contracts.rows = append(contracts.rows,
		&model.Contract{CUID: "cona00000001", Status: model.StatusActive},
		&model.Contract{CUID: "conb00000002", Status: model.StatusCompleted},
	)

	c, rec := newTestCtx(t, http.MethodGet, "/v1/contract/list", "")
	withActor(c, model.RoleAdmin)
	_ = h.List(c)
	var resp model.ApiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("envelope: %v", err)
	}
	rows := resp.Data.(map[string]any)["page"].([]any)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want only the ACTIVE contract", len(rows))
	}

	// explicit filter, case-insensitive
	c, rec = newTestCtx(t, http.MethodGet, "/v1/contract/list?status=completed", "")
	withActor(c, model.RoleAdmin)
	_ = h.List(c)
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	rows = resp.Data.(map[string]any)["page"].([]any)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want only the COMPLETED contract", len(rows))
	}
}
