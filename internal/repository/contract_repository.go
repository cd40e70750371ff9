package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bernardokeke/fleetlease/internal/model"
)

const contractCols = `id,cuid,code,client_id,client_name,client_phone,vehicle_id,vehicle_plate,
	vehicle_identity,amount,discount,balance,start_date,end_date,status,created_by,
	created_by_id,last_updated_by,last_updated_by_id,update_history,status_history,
	created_at,updated_at`

type ContractRepo struct{ DB *sql.DB }

func NewContractRepo(db *sql.DB) *ContractRepo { return &ContractRepo{DB: db} }

func (r *ContractRepo) Create(ctx context.Context, c *model.Contract) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO contracts (cuid,code,client_id,client_name,client_phone,vehicle_id,
		 vehicle_plate,vehicle_identity,amount,discount,balance,start_date,end_date,
		 status,created_by,created_by_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.CUID, c.Code, c.Client.ID, c.Client.Name, c.Client.PhoneNumber,
		c.Vehicle.ID, c.Vehicle.PlateNumber, c.Vehicle.IdentityNumber,
		c.Amount, c.Discount, c.Balance, c.StartDate, c.EndDate,
		c.Status, c.CreatedBy, c.CreatedByID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		c.ID = uint64(id)
	}
	return nil
}

func scanContract(sc interface{ Scan(...any) error }) (*model.Contract, error) {
	var c model.Contract
	var updates, statuses sql.NullString
	err := sc.Scan(&c.ID, &c.CUID, &c.Code, &c.Client.ID, &c.Client.Name,
		&c.Client.PhoneNumber, &c.Vehicle.ID, &c.Vehicle.PlateNumber,
		&c.Vehicle.IdentityNumber, &c.Amount, &c.Discount, &c.Balance,
		&c.StartDate, &c.EndDate, &c.Status, &c.CreatedBy, &c.CreatedByID,
		&c.LastUpdatedBy, &c.LastUpdatedByID, &updates, &statuses,
		&c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := scanJSON(updates, &c.UpdateHistory); err != nil {
		return nil, err
	}
	if err := scanJSON(statuses, &c.StatusHistory); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContractRepo) FindByCUID(ctx context.Context, cuid string) (*model.Contract, error) {
	return scanContract(r.DB.QueryRowContext(ctx,
		"SELECT "+contractCols+" FROM contracts WHERE cuid=? LIMIT 1", cuid))
}

func (r *ContractRepo) FindByCode(ctx context.Context, code int) (*model.Contract, error) {
	return scanContract(r.DB.QueryRowContext(ctx,
		"SELECT "+contractCols+" FROM contracts WHERE code=? LIMIT 1", code))
}

// ExistsActiveByClient reports whether the client is already bound to
// an ACTIVE contract. Read-before-write check only; racy under
// concurrent creation, kept that way deliberately.
func (r *ContractRepo) ExistsActiveByClient(ctx context.Context, clientID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contracts WHERE client_id=? AND status=?",
		clientID, model.StatusActive).Scan(&n)
	return n > 0, err
}

func (r *ContractRepo) ExistsActiveByVehicle(ctx context.Context, vehicleID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contracts WHERE vehicle_id=? AND status=?",
		vehicleID, model.StatusActive).Scan(&n)
	return n > 0, err
}

// Update persists the mutable contract fields from c and appends one
// aggregated entry to the update history.
func (r *ContractRepo) Update(ctx context.Context, c *model.Contract, entry model.UpdateEntry) error {
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf(`UPDATE contracts SET client_id=?, client_name=?, client_phone=?,
		 vehicle_id=?, vehicle_plate=?, vehicle_identity=?, amount=?, discount=?,
		 balance=?, start_date=?, end_date=?, last_updated_by=?, last_updated_by_id=?,
		 update_history=%s WHERE cuid=?`, fmt.Sprintf(appendJSON, "update_history")),
		c.Client.ID, c.Client.Name, c.Client.PhoneNumber,
		c.Vehicle.ID, c.Vehicle.PlateNumber, c.Vehicle.IdentityNumber,
		c.Amount, c.Discount, c.Balance, c.StartDate, c.EndDate,
		c.LastUpdatedBy, c.LastUpdatedByID, mustJSON(entry), c.CUID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates the status and appends to the status audit trail.
func (r *ContractRepo) SetStatus(ctx context.Context, cuid, status string, change model.StatusChange) error {
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf(`UPDATE contracts SET status=?, last_updated_by=?, last_updated_by_id=?,
		 status_history=%s WHERE cuid=?`, fmt.Sprintf(appendJSON, "status_history")),
		status, change.ActionBy, change.ActionByID, mustJSON(change), cuid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyPayment writes the recomputed balance and status after a payment
// or cancellation and appends the ledger entry to the update history.
// This is the second of the two non-atomic writes of the payment flow.
func (r *ContractRepo) ApplyPayment(ctx context.Context, cuid string, balance decimal.Decimal,
	status, by, byID string, entry model.UpdateEntry) error {
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf(`UPDATE contracts SET balance=?, status=?, last_updated_by=?,
		 last_updated_by_id=?, update_history=%s WHERE cuid=?`,
			fmt.Sprintf(appendJSON, "update_history")),
		balance, status, by, byID, mustJSON(entry), cuid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContractRepo) Delete(ctx context.Context, cuid string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM contracts WHERE cuid=?", cuid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContractRepo) List(ctx context.Context, status string, page int) ([]model.Contract, int64, error) {
	return r.query(ctx, "status=?", []any{status}, page)
}

func (r *ContractRepo) Search(ctx context.Context, q string, page int) ([]model.Contract, int64, error) {
	cond := `CONCAT_WS(' ',cuid,client_id,client_name,client_phone,vehicle_id,vehicle_plate,
		vehicle_identity,status,created_by,CAST(code AS CHAR)) LIKE ?`
	return r.query(ctx, cond, []any{"%" + q + "%"}, page)
}

func (r *ContractRepo) query(ctx context.Context, cond string, args []any, page int) ([]model.Contract, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contracts WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+contractCols+" FROM contracts WHERE "+cond+" ORDER BY id LIMIT ? OFFSET ?",
		append(args, model.PageSize, page*model.PageSize)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Contract, 0, model.PageSize)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}
