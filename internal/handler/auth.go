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

// AuthHandler bundles dependencies for the login endpoint.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, u UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies username (phone number or NIN) + password and returns
// a bearer token together with the account details.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail(model.MsgInvalidCredentials))
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, model.Fail(model.MsgInvalidCredentials))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, model.Fail(model.MsgInvalidCredentials))
		}
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, model.Fail(model.MsgInvalidCredentials))
	}
	if u.Status != model.StatusActive {
		return c.JSON(http.StatusUnauthorized, model.Fail("Account is InActive, Kindly activate your account"))
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.PhoneNumber, u.UUID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}

	return c.JSON(http.StatusOK, model.Success(echo.Map{
		"access_token": access.Token,
		"expires":      access.Exp,
		"info":         u,
	}))
}
