package model

import "strings"

// Entity status values. The same enum is shared by every table: users
// and clients move between
// ACTIVE/INACTIVE/SUSPENDED/BLOCKED, contracts between ACTIVE/COMPLETED,
// payments are stamped SUCCESSFUL or FAILED. Transition legality is not
// enforced anywhere; only the payment-driven ACTIVE/COMPLETED toggle on
// contracts is rule-driven.
const (
	StatusActive     = "ACTIVE"
	StatusInactive   = "INACTIVE"
	StatusSuspended  = "SUSPENDED"
	StatusBlocked    = "BLOCKED"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusSuccessful = "SUCCESSFUL"
)

// User roles.
const (
	RoleAdmin = "ADMIN"
	RoleAgent = "AGENT"
)

var statuses = map[string]bool{
	StatusActive:     true,
	StatusInactive:   true,
	StatusSuspended:  true,
	StatusBlocked:    true,
	StatusCompleted:  true,
	StatusFailed:     true,
	StatusSuccessful: true,
}

// ValidStatus reports whether s names a member of the status enum.
// Status-change endpoints accept the exact uppercase member name only.
func ValidStatus(s string) bool { return statuses[s] }

// NormalizeStatusFilter upper-cases a list/search status filter and
// returns it when it names a known status, otherwise "". Filters are
// matched case-insensitively, unlike status changes.
func NormalizeStatusFilter(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	if statuses[up] {
		return up
	}
	return ""
}
