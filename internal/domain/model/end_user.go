//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// End-user account statuses. The back office references these rows but does
// not own them; the exclusivity enforcer is the only writer here.
const (
	AccountStatusActive = "active"
	AccountStatusBanned = "banned"

	VerificationUnverified = "unverified"
	VerificationVerified   = "verified"
	VerificationRejected   = "rejected"
)

// EndUserAccount is the ordinary user record an admin email must not
// simultaneously occupy.
type EndUserAccount struct {
	ID                 string    `json:"id"                  db:"id"`
	Email              string    `json:"email"               db:"email"`
	AccountStatus      string    `json:"account_status"      db:"account_status"`
	VerificationStatus string    `json:"verification_status" db:"verification_status"`
	BlockedReason      string    `json:"blocked_reason"      db:"blocked_reason"`
	CreatedAt          time.Time `json:"created_at"          db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"          db:"updated_at"`
}

// Blocked reports whether the account is already in the blocked state the
// exclusivity enforcer drives it to.
func (a *EndUserAccount) Blocked() bool {
	return a.AccountStatus == AccountStatusBanned && a.VerificationStatus == VerificationRejected
}

// ExclusivityResult describes one enforce() outcome.
type ExclusivityResult struct {
	Email          string `json:"email"`
	Found          bool   `json:"found"`           // An end-user account shares the email
	AlreadyBlocked bool   `json:"already_blocked"` // It was blocked before this call
	Blocked        bool   `json:"blocked"`         // This call transitioned it
}

// SweepReport aggregates a reconciliation pass over all admin emails.
type SweepReport struct {
	Scanned        int  `json:"scanned"`         // Admin emails examined
	Collisions     int  `json:"collisions"`      // Emails with a matching end-user account
	AlreadyBlocked int  `json:"already_blocked"` // Collisions that were blocked before the sweep
	NewlyBlocked   int  `json:"newly_blocked"`   // Collisions blocked by this sweep
	DryRun         bool `json:"dry_run"`
}
