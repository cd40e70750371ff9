package model

import "time"

// User is a staff account (admin or agent) as stored in the `users`
// table. Username for login purposes is either the phone number or the
// national ID (NIN); both are unique.
//
// Fields:
//  ID           – primary key.
//  UUID         – external id, "us" + 11 hex chars.
//  Code         – 6-digit human-facing code.
//  Name         – display name.
//  PhoneNumber  – unique, exactly 11 digits.
//  NIN          – national identity number, unique, exactly 11 digits.
//  PasswordHash – bcrypt hash, never serialized.
//  DP           – profile picture URL, optional.
//  Role         – ADMIN or AGENT.
//  Status       – ACTIVE, INACTIVE, ...
type User struct {
	ID           uint64    `json:"-"`
	UUID         string    `json:"uuid"`
	Code         int       `json:"code"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phoneNumber"`
	NIN          string    `json:"nin"`
	PasswordHash string    `json:"-"`
	DP           string    `json:"dp,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserUpdate carries the optional profile fields of a user update.
// Nil pointers mean "leave unchanged".
type UserUpdate struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	DP          *string `json:"dp"`
}
