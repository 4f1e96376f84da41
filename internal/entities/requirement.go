package entities

import (
	"time"

	"procurement-system/internal/workflow"
)

// RequirementRequest is a procurement need moving through the value-gated
// approval workflow. ApprovalGate is frozen at creation from the total
// estimated value of the items and is never recomputed.
type RequirementRequest struct {
	ID            uint64
	RequestNumber string
	Hospital      string
	Specialty     string
	DepartmentID  uint64
	FiscalYear    int
	Notes         *string
	TotalValue    int64 // minor currency units, Σ quantity * estimated unit price
	ApprovalGate  workflow.Gate
	Status        workflow.Status
	CreatorID     int
	CreatedAt     time.Time
	UpdatedAt     *time.Time

	Items []RequirementItem
}

// RequirementItem is one line of a requirement request. Items are created
// atomically with the request and are immutable afterwards.
type RequirementItem struct {
	ID                 uint64
	RequestID          uint64
	Description        string
	Quantity           int64
	EstimatedUnitPrice int64 // minor currency units
	CreatedAt          time.Time
}
