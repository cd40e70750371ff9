package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bernardokeke/fleetlease/internal/model"
)

const userCols = "id,uuid,code,name,phone_number,nin,password_hash,dp,role,status,created_at,updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user row. The caller fills uuid, code, hash, role
// and status beforehand.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (uuid,code,name,phone_number,nin,password_hash,dp,role,status)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		u.UUID, u.Code, u.Name, u.PhoneNumber, u.NIN, u.PasswordHash, u.DP, u.Role, u.Status)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		u.ID = uint64(id)
	}
	return nil
}

func (r *UserRepo) scanRow(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.UUID, &u.Code, &u.Name, &u.PhoneNumber, &u.NIN,
		&u.PasswordHash, &u.DP, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByUsername resolves a login identifier that may be either the
// phone number or the NIN.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.scanRow(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE phone_number=? OR nin=? LIMIT 1",
		username, username))
}

func (r *UserRepo) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	return r.scanRow(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE uuid=? LIMIT 1", uuid))
}

func (r *UserRepo) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE phone_number=?", phone).Scan(&n)
	return n > 0, err
}

// UpdateProfile applies the non-nil fields of upd to the user row.
func (r *UserRepo) UpdateProfile(ctx context.Context, uuid string, upd model.UserUpdate) error {
	set := []string{}
	args := []any{}
	if upd.Name != nil {
		set = append(set, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.PhoneNumber != nil {
		set = append(set, "phone_number=?")
		args = append(args, *upd.PhoneNumber)
	}
	if upd.DP != nil {
		set = append(set, "dp=?")
		args = append(args, *upd.DP)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, uuid)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(set, ",")+" WHERE uuid=?", args...)
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

func (r *UserRepo) UpdatePassword(ctx context.Context, uuid, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE uuid=?", hash, uuid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one fixed-size page of users plus the total row count,
// optionally filtered by status.
func (r *UserRepo) List(ctx context.Context, status string, page int) ([]model.User, int64, error) {
	cond, args := "1=1", []any{}
	if status != "" {
		cond, args = "status=?", []any{status}
	}
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE "+cond+" ORDER BY id LIMIT ? OFFSET ?",
		append(args, model.PageSize, page*model.PageSize)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectUsers(rows, total)
}

// Search matches the query string against every text column.
func (r *UserRepo) Search(ctx context.Context, q string, page int) ([]model.User, int64, error) {
	cond := "CONCAT_WS(' ',uuid,name,phone_number,nin,role,status,CAST(code AS CHAR)) LIKE ?"
	like := "%" + q + "%"
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+cond, like).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE "+cond+" ORDER BY id LIMIT ? OFFSET ?",
		like, model.PageSize, page*model.PageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectUsers(rows, total)
}

func collectUsers(rows *sql.Rows, total int64) ([]model.User, int64, error) {
	out := make([]model.User, 0, model.PageSize)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.UUID, &u.Code, &u.Name, &u.PhoneNumber, &u.NIN,
			&u.PasswordHash, &u.DP, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}
