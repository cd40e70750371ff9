package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusChange is one entry of an entity's append-only status audit
// trail. History arrays are written on every status mutation and are
// never read back programmatically, only returned for display.
type StatusChange struct {
	Status     string    `json:"status"`
	Remark     string    `json:"remark,omitempty"`
	ActionDate time.Time `json:"actionDate"`
	ActionBy   string    `json:"actionBy"`
	ActionByID string    `json:"actionById"`
}

// UpdateEntry is one aggregated entry of a contract's update history.
// A single entry records every field changed in one update call, with
// the previous values, plus payment/cancellation actions applied to the
// contract balance.
type UpdateEntry struct {
	ActionType    string           `json:"actionType,omitempty"` // UPDATE | PAYMENT | CANCEL
	PaymentID     string           `json:"puid,omitempty"`
	PaymentRef    string           `json:"paymentRef,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	PrevClient    *ContractClient  `json:"prevClient,omitempty"`
	PrevVehicle   *ContractVehicle `json:"prevVehicle,omitempty"`
	PrevAmount    *decimal.Decimal `json:"prevAmount,omitempty"`
	PrevDiscount  *decimal.Decimal `json:"prevDiscount,omitempty"`
	PrevStartDate string           `json:"prevStartDate,omitempty"`
	PrevEndDate   string           `json:"prevEndDate,omitempty"`
	ActionDate    time.Time        `json:"actionDate"`
	ActionBy      string           `json:"actionBy"`
	ActionByID    string           `json:"actionById"`
}
