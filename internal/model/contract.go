package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractClient is the client snapshot embedded in a contract at
// creation time. It is a denormalized copy, not a live reference:
// later client edits do not propagate here.
type ContractClient struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// ContractVehicle is the vehicle snapshot embedded in a contract.
type ContractVehicle struct {
	ID             string `json:"id"`
	PlateNumber    string `json:"plateNumber"`
	IdentityNumber string `json:"identityNumber"`
}

// Contract binds one client to one vehicle. Balance starts at
// amount minus discount and is decremented by payments; the status
// flips to COMPLETED when the balance reaches zero and back to ACTIVE
// when a cancellation restores it.
//
// Intended invariant: at most one ACTIVE contract per client and per
// vehicle. Enforced only by a read-before-write existence check; racy
// under concurrent creation (kept as-is, see DESIGN.md).
type Contract struct {
	ID              uint64          `json:"-"`
	CUID            string          `json:"cuid"`
	Code            int             `json:"code"`
	Client          ContractClient  `json:"client"`
	Vehicle         ContractVehicle `json:"vehicle"`
	Amount          decimal.Decimal `json:"amount"`
	Discount        decimal.Decimal `json:"discount"`
	Balance         decimal.Decimal `json:"balance"`
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate"`
	Status          string          `json:"status"`
	CreatedBy       string          `json:"createdBy"`
	CreatedByID     string          `json:"createdById"`
	LastUpdatedBy   string          `json:"lastUpdatedBy,omitempty"`
	LastUpdatedByID string          `json:"lastUpdatedById,omitempty"`
	UpdateHistory   []UpdateEntry   `json:"updateHistory,omitempty"`
	StatusHistory   []StatusChange  `json:"statusChangeHistory,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
