package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bernardokeke/fleetlease/internal/model"
)

const vehicleCols = `id,vuid,code,model,plate_number,identity_number,tracker_imei,tracker_sim,
	current_client_id,current_contract_id,status,created_by,created_by_id,
	last_updated_by,last_updated_by_id,status_history,created_at,updated_at`

type VehicleRepo struct{ DB *sql.DB }

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{DB: db} }

func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO vehicles (vuid,code,model,plate_number,identity_number,tracker_imei,
		 tracker_sim,status,created_by,created_by_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		v.VUID, v.Code, v.Model, v.PlateNumber, v.IdentityNumber, v.TrackerIMEI,
		v.TrackerSIM, v.Status, v.CreatedBy, v.CreatedByID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		v.ID = uint64(id)
	}
	return nil
}

func scanVehicle(sc interface{ Scan(...any) error }) (*model.Vehicle, error) {
	var v model.Vehicle
	var history sql.NullString
	err := sc.Scan(&v.ID, &v.VUID, &v.Code, &v.Model, &v.PlateNumber, &v.IdentityNumber,
		&v.TrackerIMEI, &v.TrackerSIM, &v.CurrentClientID, &v.CurrentContractID,
		&v.Status, &v.CreatedBy, &v.CreatedByID, &v.LastUpdatedBy, &v.LastUpdatedByID,
		&history, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := scanJSON(history, &v.StatusHistory); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepo) FindByVUID(ctx context.Context, vuid string) (*model.Vehicle, error) {
	return scanVehicle(r.DB.QueryRowContext(ctx,
		"SELECT "+vehicleCols+" FROM vehicles WHERE vuid=? LIMIT 1", vuid))
}

// FindByIdentityNumber resolves a vehicle by its chassis/identity
// number, which is unique across the fleet.
func (r *VehicleRepo) FindByIdentityNumber(ctx context.Context, identity string) (*model.Vehicle, error) {
	return scanVehicle(r.DB.QueryRowContext(ctx,
		"SELECT "+vehicleCols+" FROM vehicles WHERE identity_number=? LIMIT 1", identity))
}

func (r *VehicleRepo) FindByCode(ctx context.Context, code int) (*model.Vehicle, error) {
	return scanVehicle(r.DB.QueryRowContext(ctx,
		"SELECT "+vehicleCols+" FROM vehicles WHERE code=? LIMIT 1", code))
}

func (r *VehicleRepo) ExistsByIdentityNumber(ctx context.Context, identity string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vehicles WHERE identity_number=?", identity).Scan(&n)
	return n > 0, err
}

func (r *VehicleRepo) Update(ctx context.Context, vuid string, upd model.VehicleUpdate, by, byID string) error {
	set := []string{"last_updated_by=?", "last_updated_by_id=?"}
	args := []any{by, byID}
	if upd.Model != nil {
		set = append(set, "model=?")
		args = append(args, *upd.Model)
	}
	if upd.PlateNumber != nil {
		set = append(set, "plate_number=?")
		args = append(args, *upd.PlateNumber)
	}
	if upd.TrackerIMEI != nil {
		set = append(set, "tracker_imei=?")
		args = append(args, *upd.TrackerIMEI)
	}
	if upd.TrackerSIM != nil {
		set = append(set, "tracker_sim=?")
		args = append(args, *upd.TrackerSIM)
	}
	args = append(args, vuid)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE vehicles SET "+strings.Join(set, ",")+" WHERE vuid=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VehicleRepo) SetStatus(ctx context.Context, vuid, status string, change model.StatusChange) error {
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf(`UPDATE vehicles SET status=?, last_updated_by=?, last_updated_by_id=?,
		 status_history=%s WHERE vuid=?`, fmt.Sprintf(appendJSON, "status_history")),
		status, change.ActionBy, change.ActionByID, mustJSON(change), vuid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCurrentContract maintains the denormalized back-references on the
// vehicle row. Best-effort: called after contract writes, not inside a
// transaction with them.
func (r *VehicleRepo) SetCurrentContract(ctx context.Context, vuid, clientID, contractID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE vehicles SET current_client_id=?, current_contract_id=? WHERE vuid=?",
		clientID, contractID, vuid)
	return err
}

func (r *VehicleRepo) Delete(ctx context.Context, vuid string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM vehicles WHERE vuid=?", vuid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VehicleRepo) List(ctx context.Context, status string, page int) ([]model.Vehicle, int64, error) {
	cond, args := "1=1", []any{}
	if status != "" {
		cond, args = "status=?", []any{status}
	}
	return r.query(ctx, cond, args, page)
}

func (r *VehicleRepo) Search(ctx context.Context, q string, page int) ([]model.Vehicle, int64, error) {
	cond := `CONCAT_WS(' ',vuid,model,plate_number,identity_number,tracker_imei,tracker_sim,
		status,created_by,CAST(code AS CHAR)) LIKE ?`
	return r.query(ctx, cond, []any{"%" + q + "%"}, page)
}

func (r *VehicleRepo) query(ctx context.Context, cond string, args []any, page int) ([]model.Vehicle, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vehicles WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+vehicleCols+" FROM vehicles WHERE "+cond+" ORDER BY id LIMIT ? OFFSET ?",
		append(args, model.PageSize, page*model.PageSize)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Vehicle, 0, model.PageSize)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *v)
	}
	return out, total, rows.Err()
}
