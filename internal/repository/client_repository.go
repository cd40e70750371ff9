package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bernardokeke/fleetlease/internal/model"
)

const clientCols = `id,cuid,code,name,phone_number,identity_type,identity_number,photograph,
	guarantor,status,created_by,created_by_id,last_updated_by,last_updated_by_id,
	status_history,created_at,updated_at`

type ClientRepo struct{ DB *sql.DB }

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{DB: db} }

func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO clients (cuid,code,name,phone_number,identity_type,identity_number,
		 photograph,guarantor,status,created_by,created_by_id)
		 VALUES (?,?,?,?,?,?,?,CAST(? AS JSON),?,?,?)`,
		c.CUID, c.Code, c.Name, c.PhoneNumber, c.IdentityType, c.IdentityNumber,
		c.Photograph, mustJSON(c.Guarantor), c.Status, c.CreatedBy, c.CreatedByID)
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

func scanClient(sc interface{ Scan(...any) error }) (*model.Client, error) {
	var c model.Client
	var guarantor, history sql.NullString
	err := sc.Scan(&c.ID, &c.CUID, &c.Code, &c.Name, &c.PhoneNumber, &c.IdentityType,
		&c.IdentityNumber, &c.Photograph, &guarantor, &c.Status, &c.CreatedBy,
		&c.CreatedByID, &c.LastUpdatedBy, &c.LastUpdatedByID, &history,
		&c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := scanJSON(guarantor, &c.Guarantor); err != nil {
		return nil, err
	}
	if err := scanJSON(history, &c.StatusHistory); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) FindByCUID(ctx context.Context, cuid string) (*model.Client, error) {
	return scanClient(r.DB.QueryRowContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE cuid=? LIMIT 1", cuid))
}

func (r *ClientRepo) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM clients WHERE phone_number=?", phone).Scan(&n)
	return n > 0, err
}

func (r *ClientRepo) ExistsByIdentityNumber(ctx context.Context, identity string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM clients WHERE identity_number=?", identity).Scan(&n)
	return n > 0, err
}

// Update applies the non-nil fields of upd and stamps the acting user.
func (r *ClientRepo) Update(ctx context.Context, cuid string, upd model.ClientUpdate, by, byID string) error {
	set := []string{"last_updated_by=?", "last_updated_by_id=?"}
	args := []any{by, byID}
	if upd.Name != nil {
		set = append(set, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.PhoneNumber != nil {
		set = append(set, "phone_number=?")
		args = append(args, *upd.PhoneNumber)
	}
	if upd.IdentityType != nil {
		set = append(set, "identity_type=?")
		args = append(args, *upd.IdentityType)
	}
	if upd.IdentityNumber != nil {
		set = append(set, "identity_number=?")
		args = append(args, *upd.IdentityNumber)
	}
	if upd.Photograph != nil {
		set = append(set, "photograph=?")
		args = append(args, *upd.Photograph)
	}
	if upd.Guarantor != nil {
		set = append(set, "guarantor=CAST(? AS JSON)")
		args = append(args, mustJSON(*upd.Guarantor))
	}
	args = append(args, cuid)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE clients SET "+strings.Join(set, ",")+" WHERE cuid=?", args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates the status and appends one entry to the audit
// trail in the same statement.
func (r *ClientRepo) SetStatus(ctx context.Context, cuid, status string, change model.StatusChange) error {
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf(`UPDATE clients SET status=?, last_updated_by=?, last_updated_by_id=?,
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

func (r *ClientRepo) List(ctx context.Context, status string, page int) ([]model.Client, int64, error) {
	cond, args := "1=1", []any{}
	if status != "" {
		cond, args = "status=?", []any{status}
	}
	return r.query(ctx, cond, args, page)
}

func (r *ClientRepo) Search(ctx context.Context, q string, page int) ([]model.Client, int64, error) {
	cond := `CONCAT_WS(' ',cuid,name,phone_number,identity_type,identity_number,status,
		created_by,CAST(code AS CHAR)) LIKE ?`
	return r.query(ctx, cond, []any{"%" + q + "%"}, page)
}

func (r *ClientRepo) query(ctx context.Context, cond string, args []any, page int) ([]model.Client, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM clients WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE "+cond+" ORDER BY id LIMIT ? OFFSET ?",
		append(args, model.PageSize, page*model.PageSize)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Client, 0, model.PageSize)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}
