package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bernardokeke/fleetlease/internal/model"
)

func TestVehicleDetailByIdentity(t *testing.T) {
	vehicles := &memVehicles{}
	seedVehicle(vehicles, "veone00000001", "ABC-123", "55555555555", model.StatusActive)
	h := NewVehicleHandler(vehicles)

	c, rec := newTestCtx(t, http.MethodGet, "/v1/vehicle/search/byidentity/55555555555", "")
	c.SetParamNames("identityNumber")
	c.SetParamValues("55555555555")
	withActor(c, model.RoleAgent)
	if err := h.DetailByIdentity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp model.ApiResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Data.(map[string]any)["vuid"] != "veone00000001" {
		t.Fatalf("data = %+v", resp.Data)
	}

	c, rec = newTestCtx(t, http.MethodGet, "/v1/vehicle/search/byidentity/99999999999", "")
	c.SetParamNames("identityNumber")
	c.SetParamValues("99999999999")
	withActor(c, model.RoleAgent)
	_ = h.DetailByIdentity(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing: status = %d, want 404", rec.Code)
	}
}

func TestVehicleDetailByCode(t *testing.T) {
	vehicles := &memVehicles{}
	seedVehicle(vehicles, "veone00000001", "ABC-123", "55555555555", model.StatusActive)
	h := NewVehicleHandler(vehicles)

	c, rec := newTestCtx(t, http.MethodGet, "/v1/vehicle/search/bycode/222222", "")
	c.SetParamNames("code")
	c.SetParamValues("222222")
	withActor(c, model.RoleAgent)
	if err := h.DetailByCode(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	c, rec = newTestCtx(t, http.MethodGet, "/v1/vehicle/search/bycode/abc", "")
	c.SetParamNames("code")
	c.SetParamValues("abc")
	withActor(c, model.RoleAgent)
	_ = h.DetailByCode(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric code: status = %d, want 400", rec.Code)
	}

	c, rec = newTestCtx(t, http.MethodGet, "/v1/vehicle/search/bycode/999999", "")
	c.SetParamNames("code")
	c.SetParamValues("999999")
	withActor(c, model.RoleAgent)
	_ = h.DetailByCode(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown code: status = %d, want 404", rec.Code)
	}
}
