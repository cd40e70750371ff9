package model

import "time"

// VehicleType is a pure lookup-table row; nothing else in the system
// enforces a relationship to it.
type VehicleType struct {
	ID          uint64    `json:"-"`
	VTUID       string    `json:"vtuid"`
	Code        int       `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
