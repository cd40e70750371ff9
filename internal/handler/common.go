// Package handler carries the business flow of every endpoint. Handlers
// call the stores directly; there is no intermediate service layer.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bernardokeke/fleetlease/internal/middleware"
	"github.com/bernardokeke/fleetlease/internal/model"
)

// Store interfaces narrow the repositories to what each handler uses so
// tests can substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByUUID(ctx context.Context, uuid string) (*model.User, error)
	ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error)
	UpdateProfile(ctx context.Context, uuid string, upd model.UserUpdate) error
	UpdatePassword(ctx context.Context, uuid, hash string) error
	List(ctx context.Context, status string, page int) ([]model.User, int64, error)
	Search(ctx context.Context, q string, page int) ([]model.User, int64, error)
}

type ClientStore interface {
	Create(ctx context.Context, c *model.Client) error
	FindByCUID(ctx context.Context, cuid string) (*model.Client, error)
	ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error)
	ExistsByIdentityNumber(ctx context.Context, identity string) (bool, error)
	Update(ctx context.Context, cuid string, upd model.ClientUpdate, by, byID string) error
	SetStatus(ctx context.Context, cuid, status string, change model.StatusChange) error
	List(ctx context.Context, status string, page int) ([]model.Client, int64, error)
	Search(ctx context.Context, q string, page int) ([]model.Client, int64, error)
}

type VehicleStore interface {
	Create(ctx context.Context, v *model.Vehicle) error
	FindByVUID(ctx context.Context, vuid string) (*model.Vehicle, error)
	FindByIdentityNumber(ctx context.Context, identity string) (*model.Vehicle, error)
	FindByCode(ctx context.Context, code int) (*model.Vehicle, error)
	ExistsByIdentityNumber(ctx context.Context, identity string) (bool, error)
	Update(ctx context.Context, vuid string, upd model.VehicleUpdate, by, byID string) error
	SetStatus(ctx context.Context, vuid, status string, change model.StatusChange) error
	SetCurrentContract(ctx context.Context, vuid, clientID, contractID string) error
	Delete(ctx context.Context, vuid string) error
	List(ctx context.Context, status string, page int) ([]model.Vehicle, int64, error)
	Search(ctx context.Context, q string, page int) ([]model.Vehicle, int64, error)
}

type VehicleTypeStore interface {
	Create(ctx context.Context, vt *model.VehicleType) error
	FindByVTUID(ctx context.Context, vtuid string) (*model.VehicleType, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Delete(ctx context.Context, vtuid string) error
	List(ctx context.Context) ([]model.VehicleType, error)
}

type ContractStore interface {
	Create(ctx context.Context, c *model.Contract) error
	FindByCUID(ctx context.Context, cuid string) (*model.Contract, error)
	FindByCode(ctx context.Context, code int) (*model.Contract, error)
	ExistsActiveByClient(ctx context.Context, clientID string) (bool, error)
	ExistsActiveByVehicle(ctx context.Context, vehicleID string) (bool, error)
	Update(ctx context.Context, c *model.Contract, entry model.UpdateEntry) error
	SetStatus(ctx context.Context, cuid, status string, change model.StatusChange) error
	ApplyPayment(ctx context.Context, cuid string, balance decimal.Decimal, status, by, byID string, entry model.UpdateEntry) error
	Delete(ctx context.Context, cuid string) error
	List(ctx context.Context, status string, page int) ([]model.Contract, int64, error)
	Search(ctx context.Context, q string, page int) ([]model.Contract, int64, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByPUID(ctx context.Context, puid string) (*model.Payment, error)
	Delete(ctx context.Context, puid string) error
	List(ctx context.Context, page int) ([]model.Payment, int64, error)
	Search(ctx context.Context, q string, page int) ([]model.Payment, int64, error)
}

type ReportStore interface {
	Summary(ctx context.Context) (model.SummaryReport, error)
}

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

func storeCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pageParam parses the 0-indexed ?page= query; anything unparseable or
// negative falls back to page 0.
func pageParam(c echo.Context) int {
	p, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || p < 0 {
		return 0
	}
	return p
}

// actor returns the authenticated user resolved by the guard.
func actor(c echo.Context) *model.User {
	return middleware.Actor(c)
}
