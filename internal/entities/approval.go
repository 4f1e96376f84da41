package entities

import (
	"time"

	"procurement-system/internal/workflow"
)

// CommitteeApproval is one append-only entry of the approval ledger. Entries
// are never updated or deleted; a re-review appends a new row for the same
// role.
type CommitteeApproval struct {
	ID         uint64
	RequestID  uint64
	Role       workflow.Role
	Decision   workflow.Decision
	Note       *string
	ApproverID int
	DecidedAt  time.Time
}
