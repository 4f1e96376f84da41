package entities

import (
	"time"

	"procurement-system/internal/workflow"
)

type AuditAction string

const (
	AuditActionCreate       AuditAction = "create"
	AuditActionStatusChange AuditAction = "status_change"
	AuditActionApproval     AuditAction = "approval"
	AuditActionCmsUpsert    AuditAction = "cms_upsert"
	AuditActionCmsFollowup  AuditAction = "cms_followup"
)

const AuditEntityRequirementsRequest = "requirements_request"

// AuditChanges is the typed change payload of one audit entry. The concrete
// type depends on the action; serialization to JSON happens only at the
// persistence boundary.
type AuditChanges interface {
	isAuditChanges()
}

type RequestCreatedChanges struct {
	Hospital     string        `json:"hospital"`
	Specialty    string        `json:"specialty"`
	DepartmentID uint64        `json:"department_id"`
	FiscalYear   int           `json:"fiscal_year"`
	TotalValue   int64         `json:"total_value"`
	ApprovalGate workflow.Gate `json:"approval_gate"`
	ItemCount    int           `json:"item_count"`
}

type StatusChanges struct {
	Status workflow.Status `json:"status"`
}

type ApprovalChanges struct {
	Role     workflow.Role     `json:"role"`
	Decision workflow.Decision `json:"decision"`
}

type CmsCaseChanges struct {
	CmsCaseID        uint64     `json:"cms_case_id"`
	CaseNumber       *string    `json:"case_number,omitempty"`
	Status           *CmsStatus `json:"status,omitempty"`
	CmsContact       *string    `json:"cms_contact,omitempty"`
	NextFollowupDate *string    `json:"next_followup_date,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
}

type CmsFollowupChanges struct {
	Note           string  `json:"note"`
	Contact        *string `json:"contact,omitempty"`
	NextActionDate *string `json:"next_action_date,omitempty"`
}

// RawChanges is the read-side form of a persisted change payload. The typed
// records above exist only on the write path; the trail reader gets the
// stored structure back as-is.
type RawChanges map[string]interface{}

func (RequestCreatedChanges) isAuditChanges() {}
func (StatusChanges) isAuditChanges()         {}
func (ApprovalChanges) isAuditChanges()       {}
func (CmsCaseChanges) isAuditChanges()        {}
func (CmsFollowupChanges) isAuditChanges()    {}
func (RawChanges) isAuditChanges()            {}

// AuditEntry is one immutable record of the audit trail. Every successful
// mutation of a requirement request writes exactly one entry.
type AuditEntry struct {
	ID         string // uuid
	ActorID    int
	Action     AuditAction
	EntityType string
	EntityID   uint64
	Changes    AuditChanges
	SourceIP   string
	UserAgent  string
	CreatedAt  time.Time
}
