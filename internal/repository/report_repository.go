package repository

import (
	"context"
	"database/sql"

	"github.com/bernardokeke/fleetlease/internal/model"
)

// ReportRepo aggregates raw collection counts for the summary
// dashboard. No filtering, no time-windowing.
type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

func (r *ReportRepo) Summary(ctx context.Context) (model.SummaryReport, error) {
	var out model.SummaryReport
	counts := []struct {
		table string
		dst   *int64
	}{
		{"clients", &out.Clients},
		{"contracts", &out.Contracts},
		{"vehicles", &out.Vehicles},
		{"payments", &out.Payments},
	}
	for _, c := range counts {
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return model.SummaryReport{}, err
		}
	}
	byStatus := []struct {
		status string
		dst    *int64
	}{
		{model.StatusActive, &out.ActiveContracts},
		{model.StatusCompleted, &out.CompletedContracts},
	}
	for _, c := range byStatus {
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM contracts WHERE status=?", c.status).Scan(c.dst); err != nil {
			return model.SummaryReport{}, err
		}
	}
	return out, nil
}
