package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/repository"
	"github.com/bernardokeke/fleetlease/internal/utils"
)

// ClientHandler serves the lessee CRUD endpoints.
type ClientHandler struct {
	Clients ClientStore
}

func NewClientHandler(cs ClientStore) *ClientHandler {
	return &ClientHandler{Clients: cs}
}

type createClientReq struct {
	Name           string          `json:"name"`
	PhoneNumber    string          `json:"phoneNumber"`
	IdentityType   string          `json:"identityType"`
	IdentityNumber string          `json:"identityNumber"`
	Photograph     string          `json:"photograph"`
	Guarantor      model.Guarantor `json:"guarantorDetail"`
}

// Create registers a new client. Phone number and identity number are
// both validated as 11 digits and must be unused.
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, model.Fail("name is required"))
	}
	if !utils.ValidPhoneNumber(req.PhoneNumber) {
		return c.JSON(http.StatusBadRequest, model.Fail("Invalid Phone Number"))
	}
	if !utils.ValidIdentityNumber(req.IdentityNumber) {
		return c.JSON(http.StatusBadRequest, model.Fail("Invalid Identity Number"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if taken, err := h.Clients.ExistsByPhoneNumber(ctx, req.PhoneNumber); err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	} else if taken {
		return c.JSON(http.StatusConflict, model.Fail("Client with Phone Number already exists"))
	}
	if taken, err := h.Clients.ExistsByIdentityNumber(ctx, req.IdentityNumber); err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	} else if taken {
		return c.JSON(http.StatusConflict, model.Fail("Client with Identity Number already exists"))
	}

	by := actor(c)
	cl := &model.Client{
		CUID:           utils.NewRef("cl"),
		Code:           utils.NewCode(),
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		IdentityType:   req.IdentityType,
		IdentityNumber: req.IdentityNumber,
		Photograph:     req.Photograph,
		Guarantor:      req.Guarantor,
		Status:         model.StatusActive,
		CreatedBy:      by.Name,
		CreatedByID:    by.UUID,
	}
	if err := h.Clients.Create(ctx, cl); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, model.Fail("Client with Phone Number already exists"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusCreated, model.Success(cl))
}

// Update applies a partial edit. A phone number change re-checks
// uniqueness against other clients.
func (h *ClientHandler) Update(c echo.Context) error {
	cuid := c.Param("cuid")
	var upd model.ClientUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	existing, err := h.Clients.FindByCUID(ctx, cuid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgNoClientFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	if upd.PhoneNumber != nil && *upd.PhoneNumber != existing.PhoneNumber {
		if !utils.ValidPhoneNumber(*upd.PhoneNumber) {
			return c.JSON(http.StatusBadRequest, model.Fail("Invalid Phone Number"))
		}
		if taken, err := h.Clients.ExistsByPhoneNumber(ctx, *upd.PhoneNumber); err != nil {
			return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
		} else if taken {
			return c.JSON(http.StatusConflict, model.Fail("Client with Phone Number already exists"))
		}
	}
	if upd.IdentityNumber != nil && *upd.IdentityNumber != existing.IdentityNumber {
		if !utils.ValidIdentityNumber(*upd.IdentityNumber) {
			return c.JSON(http.StatusBadRequest, model.Fail("Invalid Identity Number"))
		}
		if taken, err := h.Clients.ExistsByIdentityNumber(ctx, *upd.IdentityNumber); err != nil {
			return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
		} else if taken {
			return c.JSON(http.StatusConflict, model.Fail("Client with Identity Number already exists"))
		}
	}

	by := actor(c)
	if err := h.Clients.Update(ctx, cuid, upd, by.Name, by.UUID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgNoClientFound))
		case errors.Is(err, repository.ErrDuplicate):
			return c.JSON(http.StatusConflict, model.Fail("Client with Phone Number already exists"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	cl, err := h.Clients.FindByCUID(ctx, cuid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(cl))
}

// ChangeStatus sets a new status and appends an audit entry. The status
// must name an enum member exactly; transition legality is not checked.
func (h *ClientHandler) ChangeStatus(c echo.Context) error {
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
	if err := h.Clients.SetStatus(ctx, cuid, status, change); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgNoClientFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	cl, err := h.Clients.FindByCUID(ctx, cuid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(cl))
}

// Detail returns one client by external id.
func (h *ClientHandler) Detail(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	cl, err := h.Clients.FindByCUID(ctx, c.Param("cuid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgNoClientFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(cl))
}

// List returns one page of clients, optionally filtered by status.
func (h *ClientHandler) List(c echo.Context) error {
	page := pageParam(c)
	status := model.NormalizeStatusFilter(c.QueryParam("status"))

	ctx, cancel := storeCtx(c)
	defer cancel()

	clients, total, err := h.Clients.List(ctx, status, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(model.NewPage(clients, len(clients), page, total)))
}

// Search matches q against the text columns of the clients table.
func (h *ClientHandler) Search(c echo.Context) error {
	page := pageParam(c)

	ctx, cancel := storeCtx(c)
	defer cancel()

	clients, total, err := h.Clients.Search(ctx, c.QueryParam("q"), page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(model.NewPage(clients, len(clients), page, total)))
}
