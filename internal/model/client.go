package model

import "time"

// Guarantor is the third party vouching for a client, stored as a
// structured sub-record on the client row (JSON column).
type Guarantor struct {
	Name           string `json:"name"`
	PhoneNumber    string `json:"phoneNumber"`
	IdentityNumber string `json:"identityNumber"`
	Relationship   string `json:"relationship"`
	Address        string `json:"address"`
	Photograph     string `json:"photograph,omitempty"`
}

// Client is a lessee record in the `clients` table.
//
// Fields:
//  CUID            – external id, "cl" + 11 hex chars.
//  Code            – 6-digit human-facing code.
//  PhoneNumber     – unique, exactly 11 digits.
//  IdentityNumber  – unique, exactly 11 digits.
//  IdentityType    – kind of identity document presented.
//  Guarantor       – structured sub-record, JSON column.
//  StatusHistory   – append-only status audit trail, JSON column.
type Client struct {
	ID              uint64         `json:"-"`
	CUID            string         `json:"cuid"`
	Code            int            `json:"code"`
	Name            string         `json:"name"`
	PhoneNumber     string         `json:"phoneNumber"`
	IdentityType    string         `json:"identityType"`
	IdentityNumber  string         `json:"identityNumber"`
	Photograph      string         `json:"photograph,omitempty"`
	Guarantor       Guarantor      `json:"guarantorDetail"`
	Status          string         `json:"status"`
	CreatedBy       string         `json:"createdBy"`
	CreatedByID     string         `json:"createdById"`
	LastUpdatedBy   string         `json:"lastUpdatedBy,omitempty"`
	LastUpdatedByID string         `json:"lastUpdatedById,omitempty"`
	StatusHistory   []StatusChange `json:"statusChangeHistory,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// ClientUpdate carries the optional fields of a client update.
type ClientUpdate struct {
	Name           *string    `json:"name"`
	PhoneNumber    *string    `json:"phoneNumber"`
	IdentityType   *string    `json:"identityType"`
	IdentityNumber *string    `json:"identityNumber"`
	Photograph     *string    `json:"photograph"`
	Guarantor      *Guarantor `json:"guarantorDetail"`
}
