package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/repository"
	"github.com/bernardokeke/fleetlease/internal/utils"
)

// VehicleHandler serves the fleet CRUD endpoints. Mutations are
// admin-gated at the route level.
type VehicleHandler struct {
	Vehicles VehicleStore
}

func NewVehicleHandler(vs VehicleStore) *VehicleHandler {
	return &VehicleHandler{Vehicles: vs}
}

type createVehicleReq struct {
	Model          string `json:"model"`
	PlateNumber    string `json:"plateNumber"`
	IdentityNumber string `json:"identityNumber"`
	TrackerIMEI    string `json:"trackerIMEI"`
	TrackerSIM     string `json:"trackerSIM"`
}

// Create registers a vehicle. The chassis/identity number must be
// unused.
func (h *VehicleHandler) Create(c echo.Context) error {
	var req createVehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}
	req.PlateNumber = strings.TrimSpace(req.PlateNumber)
	req.IdentityNumber = strings.TrimSpace(req.IdentityNumber)
	if req.PlateNumber == "" || req.IdentityNumber == "" {
		return c.JSON(http.StatusBadRequest, model.Fail("plateNumber and identityNumber are required"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if taken, err := h.Vehicles.ExistsByIdentityNumber(ctx, req.IdentityNumber); err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	} else if taken {
		return c.JSON(http.StatusConflict, model.Fail("Vehicle with Identity Number already exists"))
	}

	by := actor(c)
	v := &model.Vehicle{
		VUID:           utils.NewRef("ve"),
		Code:           utils.NewCode(),
		Model:          req.Model,
		PlateNumber:    req.PlateNumber,
		IdentityNumber: req.IdentityNumber,
		TrackerIMEI:    req.TrackerIMEI,
		TrackerSIM:     req.TrackerSIM,
		Status:         model.StatusActive,
		CreatedBy:      by.Name,
		CreatedByID:    by.UUID,
	}
	if err := h.Vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, model.Fail("Vehicle with Identity Number already exists"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusCreated, model.Success(v))
}

// Update applies a partial edit to the mutable vehicle fields.
func (h *VehicleHandler) Update(c echo.Context) error {
	vuid := c.Param("vuid")
	var upd model.VehicleUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	by := actor(c)
	if err := h.Vehicles.Update(ctx, vuid, upd, by.Name, by.UUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgVehicleNotFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	v, err := h.Vehicles.FindByVUID(ctx, vuid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(v))
}

// ChangeStatus sets a new status with an audit entry.
func (h *VehicleHandler) ChangeStatus(c echo.Context) error {
	vuid := c.Param("vuid")
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
	if err := h.Vehicles.SetStatus(ctx, vuid, status, change); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgVehicleNotFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	v, err := h.Vehicles.FindByVUID(ctx, vuid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(v))
}

// Delete hard-deletes the vehicle row.
func (h *VehicleHandler) Delete(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Vehicles.Delete(ctx, c.Param("vuid")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgVehicleNotFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(echo.Map{}))
}

// Detail returns one vehicle by external id.
func (h *VehicleHandler) Detail(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	v, err := h.Vehicles.FindByVUID(ctx, c.Param("vuid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgVehicleNotFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(v))
}

// DetailByIdentity resolves a vehicle by its chassis/identity number.
func (h *VehicleHandler) DetailByIdentity(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	v, err := h.Vehicles.FindByIdentityNumber(ctx, c.Param("identityNumber"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgVehicleNotFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(v))
}

// DetailByCode resolves a vehicle by its 6-digit human-facing code.
func (h *VehicleHandler) DetailByCode(c echo.Context) error {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("Invalid code"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	v, err := h.Vehicles.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgVehicleNotFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(v))
}

// List returns one page of vehicles, optionally filtered by status.
func (h *VehicleHandler) List(c echo.Context) error {
	page := pageParam(c)
	status := model.NormalizeStatusFilter(c.QueryParam("status"))

	ctx, cancel := storeCtx(c)
	defer cancel()

	vehicles, total, err := h.Vehicles.List(ctx, status, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(model.NewPage(vehicles, len(vehicles), page, total)))
}

// Search matches q against the text columns of the vehicles table.
func (h *VehicleHandler) Search(c echo.Context) error {
	page := pageParam(c)

	ctx, cancel := storeCtx(c)
	defer cancel()

	vehicles, total, err := h.Vehicles.Search(ctx, c.QueryParam("q"), page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(model.NewPage(vehicles, len(vehicles), page, total)))
}
