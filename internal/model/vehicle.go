package model

import "time"

// Vehicle is a leasable vehicle in the `vehicles` table. The current
// client/contract back-references are denormalized and maintained
// best-effort by the contract handlers; they are not transactional.
type Vehicle struct {
	ID                uint64         `json:"-"`
	VUID              string         `json:"vuid"`
	Code              int            `json:"code"`
	Model             string         `json:"model,omitempty"`
	PlateNumber       string         `json:"plateNumber"`
	IdentityNumber    string         `json:"identityNumber"`
	TrackerIMEI       string         `json:"trackerIMEI,omitempty"`
	TrackerSIM        string         `json:"trackerSIM,omitempty"`
	CurrentClientID   string         `json:"currentClientId,omitempty"`
	CurrentContractID string         `json:"currentContractId,omitempty"`
	Status            string         `json:"status"`
	CreatedBy         string         `json:"createdBy"`
	CreatedByID       string         `json:"createdById"`
	LastUpdatedBy     string         `json:"lastUpdatedBy,omitempty"`
	LastUpdatedByID   string         `json:"lastUpdatedById,omitempty"`
	StatusHistory     []StatusChange `json:"statusChangeHistory,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// VehicleUpdate carries the optional fields of a vehicle update.
type VehicleUpdate struct {
	Model       *string `json:"model"`
	PlateNumber *string `json:"plateNumber"`
	TrackerIMEI *string `json:"trackerIMEI"`
	TrackerSIM  *string `json:"trackerSIM"`
}
