package dto

type CreateCommitteeApprovalDTO struct {
	Role     string  `json:"role" validate:"required"`
	Decision string  `json:"decision" validate:"required,oneof=approved rejected"`
	Note     *string `json:"note,omitempty"`
}

type CommitteeApprovalDTO struct {
	ID         uint64 `json:"id"`
	RequestID  uint64 `json:"request_id"`
	Role       string `json:"role"`
	Decision   string `json:"decision"`
	Note       string `json:"note,omitempty"`
	ApproverID int    `json:"approver_id"`
	DecidedAt  string `json:"decided_at"`
}
