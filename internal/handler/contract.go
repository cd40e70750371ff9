package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/repository"
	"github.com/bernardokeke/fleetlease/internal/utils"
)

// ContractHandler binds clients to vehicles. All mutations are
// admin-gated at the route level.
//
// The one-ACTIVE-contract-per-client/vehicle invariant is enforced by
// an existence query before the insert; two concurrent creates can both
// pass the check. Kept as-is, see DESIGN.md.
type ContractHandler struct {
	Contracts ContractStore
	Clients   ClientStore
	Vehicles  VehicleStore
}

func NewContractHandler(cs ContractStore, cls ClientStore, vs VehicleStore) *ContractHandler {
	return &ContractHandler{Contracts: cs, Clients: cls, Vehicles: vs}
}

type createContractReq struct {
	ClientID  string          `json:"clientId"`
	VehicleID string          `json:"vehicleId"`
	Amount    decimal.Decimal `json:"amount"`
	Discount  decimal.Decimal `json:"discount"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
}

type updateContractReq struct {
	ClientID  *string          `json:"clientId"`
	VehicleID *string          `json:"vehicleId"`
	Amount    *decimal.Decimal `json:"amount"`
	Discount  *decimal.Decimal `json:"discount"`
	StartDate *string          `json:"startDate"`
	EndDate   *string          `json:"endDate"`
}

// resolveClient loads a client, requiring it ACTIVE and without an
// ACTIVE contract. On failure the error response has already been
// written.
func (h *ContractHandler) resolveClient(c echo.Context, clientID string) (*model.Client, bool) {
	ctx, cancel := storeCtx(c)
	defer cancel()

	cl, err := h.Clients.FindByCUID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = c.JSON(http.StatusNotFound, model.Fail(model.MsgNoClientFound))
		} else {
			_ = c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
		}
		return nil, false
	}
	if cl.Status != model.StatusActive {
		_ = c.JSON(http.StatusBadRequest, model.Fail("Client is not ACTIVE"))
		return nil, false
	}
	if busy, err := h.Contracts.ExistsActiveByClient(ctx, cl.CUID); err != nil {
		_ = c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
		return nil, false
	} else if busy {
		_ = c.JSON(http.StatusBadRequest, model.Fail("Client has an active contract"))
		return nil, false
	}
	return cl, true
}

// resolveVehicle is the vehicle counterpart of resolveClient.
func (h *ContractHandler) resolveVehicle(c echo.Context, vehicleID string) (*model.Vehicle, bool) {
	ctx, cancel := storeCtx(c)
	defer cancel()

	v, err := h.Vehicles.FindByVUID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = c.JSON(http.StatusNotFound, model.Fail(model.MsgVehicleNotFound))
		} else {
			_ = c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
		}
		return nil, false
	}
	if v.Status != model.StatusActive {
		_ = c.JSON(http.StatusBadRequest, model.Fail("Vehicle is not ACTIVE"))
		return nil, false
	}
	if busy, err := h.Contracts.ExistsActiveByVehicle(ctx, v.VUID); err != nil {
		_ = c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
		return nil, false
	} else if busy {
		_ = c.JSON(http.StatusBadRequest, model.Fail("Vehicle has an active contract"))
		return nil, false
	}
	return v, true
}

// Create opens a contract for an ACTIVE client and ACTIVE vehicle.
// Client and vehicle details are snapshotted into the contract; later
// edits to either do not propagate. Balance starts at amount minus
// discount.
func (h *ContractHandler) Create(c echo.Context) error {
	var req createContractReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}
	if req.ClientID == "" || req.VehicleID == "" {
		return c.JSON(http.StatusBadRequest, model.Fail("clientId and vehicleId are required"))
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return c.JSON(http.StatusBadRequest, model.Fail("Invalid amount"))
	}
	if req.Discount.IsNegative() || req.Discount.GreaterThan(req.Amount) {
		return c.JSON(http.StatusBadRequest, model.Fail("Invalid discount"))
	}

	cl, ok := h.resolveClient(c, req.ClientID)
	if !ok {
		return nil
	}
	v, ok := h.resolveVehicle(c, req.VehicleID)
	if !ok {
		return nil
	}

	by := actor(c)
	contract := &model.Contract{
		CUID: utils.NewRef("con"),
		Code: utils.NewCode(),
		Client: model.ContractClient{
			ID: cl.CUID, Name: cl.Name, PhoneNumber: cl.PhoneNumber,
		},
		Vehicle: model.ContractVehicle{
			ID: v.VUID, PlateNumber: v.PlateNumber, IdentityNumber: v.IdentityNumber,
		},
		Amount:      req.Amount,
		Discount:    req.Discount,
		Balance:     req.Amount.Sub(req.Discount),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      model.StatusActive,
		CreatedBy:   by.Name,
		CreatedByID: by.UUID,
	}

	ctx, cancel := storeCtx(c)
	defer cancel()
	if err := h.Contracts.Create(ctx, contract); err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	// denormalized back-references on the vehicle, best effort
	if err := h.Vehicles.SetCurrentContract(ctx, v.VUID, cl.CUID, contract.CUID); err != nil {
		c.Logger().Warnf("contract create: vehicle back-reference update failed: %v", err)
	}
	return c.JSON(http.StatusCreated, model.Success(contract))
}

// Update applies a partial edit. Every changed field is recorded with
// its previous value in one aggregated update-history entry. Changing
// the client or vehicle re-runs the full creation checks and refreshes
// the snapshot.
func (h *ContractHandler) Update(c echo.Context) error {
	cuid := c.Param("cuid")
	var req updateContractReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	contract, err := h.Contracts.FindByCUID(ctx, cuid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail("Contract not found"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	by := actor(c)
	entry := model.UpdateEntry{
		ActionType: "UPDATE",
		ActionDate: time.Now().UTC(),
		ActionBy:   by.Name,
		ActionByID: by.UUID,
	}
	changed := false

	if req.ClientID != nil && *req.ClientID != contract.Client.ID {
		cl, ok := h.resolveClient(c, *req.ClientID)
		if !ok {
			return nil
		}
		prev := contract.Client
		entry.PrevClient = &prev
		contract.Client = model.ContractClient{ID: cl.CUID, Name: cl.Name, PhoneNumber: cl.PhoneNumber}
		changed = true
	}
	if req.VehicleID != nil && *req.VehicleID != contract.Vehicle.ID {
		v, ok := h.resolveVehicle(c, *req.VehicleID)
		if !ok {
			return nil
		}
		prev := contract.Vehicle
		entry.PrevVehicle = &prev
		contract.Vehicle = model.ContractVehicle{ID: v.VUID, PlateNumber: v.PlateNumber, IdentityNumber: v.IdentityNumber}
		changed = true
	}
	if req.Amount != nil && !req.Amount.Equal(contract.Amount) {
		prev := contract.Amount
		entry.PrevAmount = &prev
		contract.Balance = contract.Balance.Add(req.Amount.Sub(contract.Amount))
		contract.Amount = *req.Amount
		changed = true
	}
	if req.Discount != nil && !req.Discount.Equal(contract.Discount) {
		prev := contract.Discount
		entry.PrevDiscount = &prev
		contract.Balance = contract.Balance.Sub(req.Discount.Sub(contract.Discount))
		contract.Discount = *req.Discount
		changed = true
	}
	if req.StartDate != nil && *req.StartDate != contract.StartDate {
		entry.PrevStartDate = contract.StartDate
		contract.StartDate = *req.StartDate
		changed = true
	}
	if req.EndDate != nil && *req.EndDate != contract.EndDate {
		entry.PrevEndDate = contract.EndDate
		contract.EndDate = *req.EndDate
		changed = true
	}
	if !changed {
		return c.JSON(http.StatusOK, model.Success(contract))
	}
	if contract.Balance.IsNegative() {
		contract.Balance = decimal.Zero
	}

	contract.LastUpdatedBy = by.Name
	contract.LastUpdatedByID = by.UUID
	if err := h.Contracts.Update(ctx, contract, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail("Contract not found"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	if entry.PrevVehicle != nil {
		if err := h.Vehicles.SetCurrentContract(ctx, contract.Vehicle.ID, contract.Client.ID, contract.CUID); err != nil {
			c.Logger().Warnf("contract update: vehicle back-reference update failed: %v", err)
		}
	}

	fresh, err := h.Contracts.FindByCUID(ctx, cuid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(fresh))
}

// ChangeStatus sets any enum status with an audit entry. Only the
// payment path drives ACTIVE/COMPLETED by rule; this endpoint accepts
// any member.
func (h *ContractHandler) ChangeStatus(c echo.Context) error {
	cuid := c.Param("cuid")
	status := c.QueryParam("status")
	if !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, model.Fail("Invalid status"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	by := actor(c)
	change := model.StatusChange{
		Status:     status,
		Remark:     c.QueryParam("remark"),
		ActionDate: time.Now().UTC(),
		ActionBy:   by.Name,
		ActionByID: by.UUID,
	}
	if err := h.Contracts.SetStatus(ctx, cuid, status, change); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail("Contract not found"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	contract, err := h.Contracts.FindByCUID(ctx, cuid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(contract))
}

// Delete hard-deletes the contract row.
func (h *ContractHandler) Delete(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Contracts.Delete(ctx, c.Param("cuid")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail("Contract not found"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(echo.Map{}))
}

// Detail returns one contract by external id.
func (h *ContractHandler) Detail(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	contract, err := h.Contracts.FindByCUID(ctx, c.Param("cuid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail("Contract not found"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(contract))
}

// DetailByCode resolves a contract by its 6-digit human-facing code.
func (h *ContractHandler) DetailByCode(c echo.Context) error {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("Invalid code"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	contract, err := h.Contracts.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail("Contract not found"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(contract))
}

// List defaults to ACTIVE contracts unless a recognized status filter
// is supplied.
func (h *ContractHandler) List(c echo.Context) error {
	page := pageParam(c)
	status := model.NormalizeStatusFilter(c.QueryParam("status"))
	if status == "" {
		status = model.StatusActive
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	contracts, total, err := h.Contracts.List(ctx, status, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(model.NewPage(contracts, len(contracts), page, total)))
}

// Search matches q against the text columns of the contracts table.
func (h *ContractHandler) Search(c echo.Context) error {
	page := pageParam(c)

	ctx, cancel := storeCtx(c)
	defer cancel()

	contracts, total, err := h.Contracts.Search(ctx, c.QueryParam("q"), page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(model.NewPage(contracts, len(contracts), page, total)))
}
