package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/repository"
	"github.com/bernardokeke/fleetlease/internal/utils"
)

// VehicleTypeHandler serves the vehicle-type lookup table.
type VehicleTypeHandler struct {
	Types VehicleTypeStore
}

func NewVehicleTypeHandler(ts VehicleTypeStore) *VehicleTypeHandler {
	return &VehicleTypeHandler{Types: ts}
}

type createVehicleTypeReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create adds a type with a unique title.
func (h *VehicleTypeHandler) Create(c echo.Context) error {
	var req createVehicleTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, model.Fail("title is required"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if taken, err := h.Types.ExistsByTitle(ctx, req.Title); err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	} else if taken {
		return c.JSON(http.StatusConflict, model.Fail("Vehicle Type already exists"))
	}

	vt := &model.VehicleType{
		VTUID:       utils.NewRef("vt"),
		Code:        utils.NewCode(),
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusActive,
	}
	if err := h.Types.Create(ctx, vt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, model.Fail("Vehicle Type already exists"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusCreated, model.Success(vt))
}

// Detail returns one type by external id.
func (h *VehicleTypeHandler) Detail(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	vt, err := h.Types.FindByVTUID(ctx, c.Param("vtuid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgVehicleTypeMissing))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(vt))
}

// Delete hard-deletes the type row.
func (h *VehicleTypeHandler) Delete(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Types.Delete(ctx, c.Param("vtuid")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgVehicleTypeMissing))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(echo.Map{}))
}

// List returns every type; the table is small and unpaginated.
func (h *VehicleTypeHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	types, err := h.Types.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(types))
}
