package repository

import (
	"context"
	"database/sql"

	"github.com/bernardokeke/fleetlease/internal/model"
)

const vehicleTypeCols = "id,vtuid,code,title,description,status,created_at,updated_at"

type VehicleTypeRepo struct{ DB *sql.DB }

func NewVehicleTypeRepo(db *sql.DB) *VehicleTypeRepo { return &VehicleTypeRepo{DB: db} }

func (r *VehicleTypeRepo) Create(ctx context.Context, vt *model.VehicleType) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO vehicle_types (vtuid,code,title,description,status) VALUES (?,?,?,?,?)",
		vt.VTUID, vt.Code, vt.Title, vt.Description, vt.Status)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		vt.ID = uint64(id)
	}
	return nil
}

func (r *VehicleTypeRepo) FindByVTUID(ctx context.Context, vtuid string) (*model.VehicleType, error) {
	var vt model.VehicleType
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+vehicleTypeCols+" FROM vehicle_types WHERE vtuid=? LIMIT 1", vtuid).
		Scan(&vt.ID, &vt.VTUID, &vt.Code, &vt.Title, &vt.Description, &vt.Status,
			&vt.CreatedAt, &vt.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vt, nil
}

func (r *VehicleTypeRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vehicle_types WHERE title=?", title).Scan(&n)
	return n > 0, err
}

func (r *VehicleTypeRepo) Delete(ctx context.Context, vtuid string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM vehicle_types WHERE vtuid=?", vtuid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every vehicle type; the lookup table stays small enough
// that it has never been paginated.
func (r *VehicleTypeRepo) List(ctx context.Context) ([]model.VehicleType, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+vehicleTypeCols+" FROM vehicle_types ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.VehicleType{}
	for rows.Next() {
		var vt model.VehicleType
		if err := rows.Scan(&vt.ID, &vt.VTUID, &vt.Code, &vt.Title, &vt.Description,
			&vt.Status, &vt.CreatedAt, &vt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, vt)
	}
	return out, rows.Err()
}
