package workflow

// Status is the lifecycle state of a requirement request. The set is closed
// but there is no legal-next-state table: any status may be set at any time,
// the only hard gate is the approval checkpoint check below.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusDepartmentReview  Status = "department_review"
	StatusCommitteePending  Status = "committee_pending"
	StatusCommitteeApproved Status = "committee_approved"
	StatusSubmittedToCms    Status = "submitted_to_cms"
	StatusBudgetAllocated   Status = "budget_allocated"
	StatusTenderPosted      Status = "tender_posted"
	StatusAwardPending      Status = "award_pending"
	StatusAwardApproved     Status = "award_approved"
	StatusDiscountRequested Status = "discount_requested"
	StatusContractIssued    Status = "contract_issued"
	StatusClosed            Status = "closed"
	StatusRejected          Status = "rejected"
)

var allStatuses = map[Status]struct{}{
	StatusDraft:             {},
	StatusDepartmentReview:  {},
	StatusCommitteePending:  {},
	StatusCommitteeApproved: {},
	StatusSubmittedToCms:    {},
	StatusBudgetAllocated:   {},
	StatusTenderPosted:      {},
	StatusAwardPending:      {},
	StatusAwardApproved:     {},
	StatusDiscountRequested: {},
	StatusContractIssued:    {},
	StatusClosed:            {},
	StatusRejected:          {},
}

// approvalCheckpoints are the statuses a request may not enter until every
// role required by its gate has an approved ledger entry.
var approvalCheckpoints = map[Status]struct{}{
	StatusSubmittedToCms:    {},
	StatusBudgetAllocated:   {},
	StatusTenderPosted:      {},
	StatusAwardPending:      {},
	StatusAwardApproved:     {},
	StatusDiscountRequested: {},
	StatusContractIssued:    {},
	StatusClosed:            {},
}

func (s Status) IsValid() bool {
	_, ok := allStatuses[s]
	return ok
}

func (s Status) IsApprovalCheckpoint() bool {
	_, ok := approvalCheckpoints[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusRejected
}
