package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/repository"
)

// In-memory store fakes. Each one keeps rows in a slice and mirrors
// the sentinel-error contract of the real repositories.

type memUsers struct {
	rows []*model.User
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	for _, r := range m.rows {
		if r.PhoneNumber == u.PhoneNumber || r.NIN == u.NIN {
			return repository.ErrDuplicate
		}
	}
	m.rows = append(m.rows, u)
	return nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, r := range m.rows {
		if r.PhoneNumber == username || r.NIN == username {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) FindByUUID(_ context.Context, uuid string) (*model.User, error) {
	for _, r := range m.rows {
		if r.UUID == uuid {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) ExistsByPhoneNumber(_ context.Context, phone string) (bool, error) {
	for _, r := range m.rows {
		if r.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, uuid string, upd model.UserUpdate) error {
	for _, r := range m.rows {
		if r.UUID == uuid {
			if upd.Name != nil {
				r.Name = *upd.Name
			}
			if upd.PhoneNumber != nil {
				r.PhoneNumber = *upd.PhoneNumber
			}
			if upd.DP != nil {
				r.DP = *upd.DP
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memUsers) UpdatePassword(_ context.Context, uuid, hash string) error {
	for _, r := range m.rows {
		if r.UUID == uuid {
			r.PasswordHash = hash
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memUsers) List(_ context.Context, status string, page int) ([]model.User, int64, error) {
	out := []model.User{}
	for _, r := range m.rows {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memUsers) Search(_ context.Context, q string, page int) ([]model.User, int64, error) {
	out := []model.User{}
	for _, r := range m.rows {
		if strings.Contains(r.Name+" "+r.PhoneNumber, q) {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

type memClients struct {
	rows []*model.Client
}

func (m *memClients) Create(_ context.Context, c *model.Client) error {
	for _, r := range m.rows {
		if r.PhoneNumber == c.PhoneNumber || r.IdentityNumber == c.IdentityNumber {
			return repository.ErrDuplicate
		}
	}
	m.rows = append(m.rows, c)
	return nil
}

func (m *memClients) FindByCUID(_ context.Context, cuid string) (*model.Client, error) {
	for _, r := range m.rows {
		if r.CUID == cuid {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memClients) ExistsByPhoneNumber(_ context.Context, phone string) (bool, error) {
	for _, r := range m.rows {
		if r.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *memClients) ExistsByIdentityNumber(_ context.Context, identity string) (bool, error) {
	for _, r := range m.rows {
		if r.IdentityNumber == identity {
			return true, nil
		}
	}
	return false, nil
}

func (m *memClients) Update(_ context.Context, cuid string, upd model.ClientUpdate, by, byID string) error {
	for _, r := range m.rows {
		if r.CUID == cuid {
			if upd.Name != nil {
				r.Name = *upd.Name
			}
			if upd.PhoneNumber != nil {
				r.PhoneNumber = *upd.PhoneNumber
			}
			if upd.IdentityType != nil {
				r.IdentityType = *upd.IdentityType
			}
			if upd.IdentityNumber != nil {
				r.IdentityNumber = *upd.IdentityNumber
			}
			if upd.Photograph != nil {
				r.Photograph = *upd.Photograph
			}
			if upd.Guarantor != nil {
				r.Guarantor = *upd.Guarantor
			}
			r.LastUpdatedBy, r.LastUpdatedByID = by, byID
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memClients) SetStatus(_ context.Context, cuid, status string, change model.StatusChange) error {
	for _, r := range m.rows {
		if r.CUID == cuid {
			r.Status = status
			r.StatusHistory = append(r.StatusHistory, change)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memClients) List(_ context.Context, status string, page int) ([]model.Client, int64, error) {
	out := []model.Client{}
	for _, r := range m.rows {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memClients) Search(_ context.Context, q string, page int) ([]model.Client, int64, error) {
	out := []model.Client{}
	for _, r := range m.rows {
		if strings.Contains(r.Name+" "+r.PhoneNumber, q) {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

type memVehicles struct {
	rows []*model.Vehicle
}

func (m *memVehicles) Create(_ context.Context, v *model.Vehicle) error {
	for _, r := range m.rows {
		if r.IdentityNumber == v.IdentityNumber {
			return repository.ErrDuplicate
		}
	}
	m.rows = append(m.rows, v)
	return nil
}

func (m *memVehicles) FindByVUID(_ context.Context, vuid string) (*model.Vehicle, error) {
	for _, r := range m.rows {
		if r.VUID == vuid {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memVehicles) FindByIdentityNumber(_ context.Context, identity string) (*model.Vehicle, error) {
	for _, r := range m.rows {
		if r.IdentityNumber == identity {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memVehicles) FindByCode(_ context.Context, code int) (*model.Vehicle, error) {
	for _, r := range m.rows {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memVehicles) ExistsByIdentityNumber(_ context.Context, identity string) (bool, error) {
	for _, r := range m.rows {
		if r.IdentityNumber == identity {
			return true, nil
		}
	}
	return false, nil
}

func (m *memVehicles) Update(_ context.Context, vuid string, upd model.VehicleUpdate, by, byID string) error {
	for _, r := range m.rows {
		if r.VUID == vuid {
			if upd.Model != nil {
				r.Model = *upd.Model
			}
			if upd.PlateNumber != nil {
				r.PlateNumber = *upd.PlateNumber
			}
			if upd.TrackerIMEI != nil {
				r.TrackerIMEI = *upd.TrackerIMEI
			}
			if upd.TrackerSIM != nil {
				r.TrackerSIM = *upd.TrackerSIM
			}
			r.LastUpdatedBy, r.LastUpdatedByID = by, byID
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memVehicles) SetStatus(_ context.Context, vuid, status string, change model.StatusChange) error {
	for _, r := range m.rows {
		if r.VUID == vuid {
			r.Status = status
			r.StatusHistory = append(r.StatusHistory, change)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memVehicles) SetCurrentContract(_ context.Context, vuid, clientID, contractID string) error {
	for _, r := range m.rows {
		if r.VUID == vuid {
			r.CurrentClientID, r.CurrentContractID = clientID, contractID
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memVehicles) Delete(_ context.Context, vuid string) error {
	for i, r := range m.rows {
		if r.VUID == vuid {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memVehicles) List(_ context.Context, status string, page int) ([]model.Vehicle, int64, error) {
	out := []model.Vehicle{}
	for _, r := range m.rows {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memVehicles) Search(_ context.Context, q string, page int) ([]model.Vehicle, int64, error) {
	out := []model.Vehicle{}
	for _, r := range m.rows {
		if strings.Contains(r.PlateNumber+" "+r.IdentityNumber, q) {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

type memContracts struct {
	rows []*model.Contract
}

func (m *memContracts) Create(_ context.Context, c *model.Contract) error {
	m.rows = append(m.rows, c)
	return nil
}

func (m *memContracts) FindByCUID(_ context.Context, cuid string) (*model.Contract, error) {
	for _, r := range m.rows {
		if r.CUID == cuid {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memContracts) FindByCode(_ context.Context, code int) (*model.Contract, error) {
	for _, r := range m.rows {
		if r.Code == code {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memContracts) ExistsActiveByClient(_ context.Context, clientID string) (bool, error) {
	for _, r := range m.rows {
		if r.Client.ID == clientID && r.Status == model.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *memContracts) ExistsActiveByVehicle(_ context.Context, vehicleID string) (bool, error) {
	for _, r := range m.rows {
		if r.Vehicle.ID == vehicleID && r.Status == model.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *memContracts) Update(_ context.Context, c *model.Contract, entry model.UpdateEntry) error {
	for i, r := range m.rows {
		if r.CUID == c.CUID {
			cp := *c
			cp.UpdateHistory = append(r.UpdateHistory, entry)
			m.rows[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memContracts) SetStatus(_ context.Context, cuid, status string, change model.StatusChange) error {
	for _, r := range m.rows {
		if r.CUID == cuid {
			r.Status = status
			r.StatusHistory = append(r.StatusHistory, change)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memContracts) ApplyPayment(_ context.Context, cuid string, balance decimal.Decimal,
	status, by, byID string, entry model.UpdateEntry) error {
	for _, r := range m.rows {
		if r.CUID == cuid {
			r.Balance = balance
			r.Status = status
			r.LastUpdatedBy, r.LastUpdatedByID = by, byID
			r.UpdateHistory = append(r.UpdateHistory, entry)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memContracts) Delete(_ context.Context, cuid string) error {
	for i, r := range m.rows {
		if r.CUID == cuid {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memContracts) List(_ context.Context, status string, page int) ([]model.Contract, int64, error) {
	out := []model.Contract{}
	for _, r := range m.rows {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memContracts) Search(_ context.Context, q string, page int) ([]model.Contract, int64, error) {
	out := []model.Contract{}
	for _, r := range m.rows {
		if strings.Contains(r.CUID+" "+r.Client.Name+" "+r.Vehicle.PlateNumber, q) {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

type memPayments struct {
	rows []*model.Payment
}

func (m *memPayments) Create(_ context.Context, p *model.Payment) error {
	m.rows = append(m.rows, p)
	return nil
}

func (m *memPayments) FindByPUID(_ context.Context, puid string) (*model.Payment, error) {
	for _, r := range m.rows {
		if r.PUID == puid {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPayments) Delete(_ context.Context, puid string) error {
	for i, r := range m.rows {
		if r.PUID == puid {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memPayments) List(_ context.Context, page int) ([]model.Payment, int64, error) {
	out := []model.Payment{}
	for _, r := range m.rows {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (m *memPayments) Search(_ context.Context, q string, page int) ([]model.Payment, int64, error) {
	out := []model.Payment{}
	for _, r := range m.rows {
		if strings.Contains(r.PUID+" "+r.ClientName+" "+r.PaymentRef, q) {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

// newTestCtx builds an echo context around a recorded request. A JSON
// content type is set whenever a body is present.
func newTestCtx(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// withActor stashes an authenticated user the way the guard middleware
// does.
func withActor(c echo.Context, role string) *model.User {
	u := &model.User{
		UUID:        "us1234567890a",
		Code:        123456,
		Name:        "Test Admin",
		PhoneNumber: "08011111111",
		NIN:         "11111111111",
		Role:        role,
		Status:      model.StatusActive,
	}
	c.Set("actor", u)
	return u
}
