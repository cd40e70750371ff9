package repository

import (
	"context"
	"database/sql"

	"github.com/bernardokeke/fleetlease/internal/model"
)

const paymentCols = `id,puid,code,contract_id,contract_code,client_id,client_name,vehicle_id,
	payment_ref,payment_mode,remark,amount,status,created_by,created_by_id,
	created_at,updated_at`

type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO payments (puid,code,contract_id,contract_code,client_id,client_name,
		 vehicle_id,payment_ref,payment_mode,remark,amount,status,created_by,created_by_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.PUID, p.Code, p.ContractID, p.ContractCode, p.ClientID, p.ClientName,
		p.VehicleID, p.PaymentRef, p.PaymentMode, p.Remark, p.Amount, p.Status,
		p.CreatedBy, p.CreatedByID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		p.ID = uint64(id)
	}
	return nil
}

func scanPayment(sc interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	err := sc.Scan(&p.ID, &p.PUID, &p.Code, &p.ContractID, &p.ContractCode, &p.ClientID,
		&p.ClientName, &p.VehicleID, &p.PaymentRef, &p.PaymentMode, &p.Remark,
		&p.Amount, &p.Status, &p.CreatedBy, &p.CreatedByID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) FindByPUID(ctx context.Context, puid string) (*model.Payment, error) {
	return scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE puid=? LIMIT 1", puid))
}

// Delete removes the payment row. Cancellation is a hard delete by
// design; the contract's update history keeps the only trace.
func (r *PaymentRepo) Delete(ctx context.Context, puid string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM payments WHERE puid=?", puid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PaymentRepo) List(ctx context.Context, page int) ([]model.Payment, int64, error) {
	return r.query(ctx, "1=1", nil, page)
}

func (r *PaymentRepo) Search(ctx context.Context, q string, page int) ([]model.Payment, int64, error) {
	cond := `CONCAT_WS(' ',puid,contract_id,client_id,client_name,vehicle_id,payment_ref,
		payment_mode,remark,status,created_by,CAST(code AS CHAR)) LIKE ?`
	return r.query(ctx, cond, []any{"%" + q + "%"}, page)
}

func (r *PaymentRepo) query(ctx context.Context, cond string, args []any, page int) ([]model.Payment, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payments WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE "+cond+" ORDER BY id LIMIT ? OFFSET ?",
		append(args, model.PageSize, page*model.PageSize)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0, model.PageSize)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}
