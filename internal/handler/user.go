package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bernardokeke/fleetlease/internal/config"
	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/repository"
	"github.com/bernardokeke/fleetlease/internal/utils"
)

// UserHandler serves the staff-account endpoints. Registration and
// password reset are deliberately open (no token required) the way the
// original service exposed them; everything else sits behind the guard.
type UserHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewUserHandler(cfg config.Config, u UserStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

type createUserReq struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	NIN         string `json:"nin"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	DP          string `json:"dp"`
}

// Create registers a staff account. Phone number and NIN must both be
// exactly 11 digits; phone number must be unused. Role defaults to
// AGENT unless ADMIN is requested explicitly.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, model.Fail("name and password are required"))
	}
	if !utils.ValidPhoneNumber(req.PhoneNumber) {
		return c.JSON(http.StatusBadRequest, model.Fail("Invalid Phone Number"))
	}
	if !utils.ValidIdentityNumber(req.NIN) {
		return c.JSON(http.StatusBadRequest, model.Fail("Invalid NIN"))
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleAdmin {
		role = model.RoleAgent
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	taken, err := h.Users.ExistsByPhoneNumber(ctx, req.PhoneNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	if taken {
		return c.JSON(http.StatusConflict, model.Fail("User with Phone Number already exists"))
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	u := &model.User{
		UUID:         utils.NewRef("us"),
		Code:         utils.NewCode(),
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		NIN:          req.NIN,
		PasswordHash: hash,
		DP:           req.DP,
		Role:         role,
		Status:       model.StatusActive,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, model.Fail("User with Phone Number already exists"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusCreated, model.Success(u))
}

// Update applies a partial profile update. A phone number change
// re-checks uniqueness.
func (h *UserHandler) Update(c echo.Context) error {
	uuid := c.Param("uuid")
	var upd model.UserUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("invalid body"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if upd.PhoneNumber != nil {
		if !utils.ValidPhoneNumber(*upd.PhoneNumber) {
			return c.JSON(http.StatusBadRequest, model.Fail("Invalid Phone Number"))
		}
		existing, err := h.Users.FindByUUID(ctx, uuid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, model.Fail(model.MsgUserNotFound))
			}
			return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
		}
		if existing.PhoneNumber != *upd.PhoneNumber {
			taken, err := h.Users.ExistsByPhoneNumber(ctx, *upd.PhoneNumber)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
			}
			if taken {
				return c.JSON(http.StatusConflict, model.Fail("User with Phone Number already exists"))
			}
		}
	}

	if err := h.Users.UpdateProfile(ctx, uuid, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgUserNotFound))
		case errors.Is(err, repository.ErrDuplicate):
			return c.JSON(http.StatusConflict, model.Fail("User with Phone Number already exists"))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	u, err := h.Users.FindByUUID(ctx, uuid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(u))
}

type resetPasswordReq struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword replaces the password of the account matching username
// (phone number or NIN).
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || req.Username == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, model.Fail("username and newPassword are required"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgUserNotFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	if err := h.Users.UpdatePassword(ctx, u.UUID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(echo.Map{}))
}

// Detail returns one account by external id.
func (h *UserHandler) Detail(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Users.FindByUUID(ctx, c.Param("uuid"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, model.Fail(model.MsgUserNotFound))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(u))
}

// List returns one page of accounts, optionally filtered by status.
func (h *UserHandler) List(c echo.Context) error {
	page := pageParam(c)
	status := model.NormalizeStatusFilter(c.QueryParam("status"))

	ctx, cancel := storeCtx(c)
	defer cancel()

	users, total, err := h.Users.List(ctx, status, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(model.NewPage(users, len(users), page, total)))
}

// Search matches q against the text columns of the accounts table.
func (h *UserHandler) Search(c echo.Context) error {
	page := pageParam(c)

	ctx, cancel := storeCtx(c)
	defer cancel()

	users, total, err := h.Users.Search(ctx, c.QueryParam("q"), page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(model.NewPage(users, len(users), page, total)))
}
