package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records one amount applied against a contract's balance.
// Cancellation hard-deletes the row after restoring the contract
// balance; there is no soft-cancel state.
type Payment struct {
	ID           uint64          `json:"-"`
	PUID         string          `json:"puid"`
	Code         int             `json:"code"`
	ContractID   string          `json:"contractId"`
	ContractCode int             `json:"contractCode"`
	ClientID     string          `json:"clientId"`
	ClientName   string          `json:"client"`
	VehicleID    string          `json:"vehicleId"`
	PaymentRef   string          `json:"paymentRef,omitempty"`
	PaymentMode  string          `json:"paymentMode,omitempty"`
	Remark       string          `json:"remark,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	CreatedBy    string          `json:"createdBy"`
	CreatedByID  string          `json:"createdById"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// SummaryReport is the dashboard payload: raw collection counts plus
// the contract split by lifecycle status.
type SummaryReport struct {
	Clients            int64 `json:"clients"`
	Contracts          int64 `json:"contracts"`
	ActiveContracts    int64 `json:"activeContracts"`
	CompletedContracts int64 `json:"completedContracts"`
	Vehicles           int64 `json:"vehicles"`
	Payments           int64 `json:"payments"`
}
