package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	valid := []Status{
		StatusDraft, StatusDepartmentReview, StatusCommitteePending,
		StatusCommitteeApproved, StatusSubmittedToCms, StatusBudgetAllocated,
		StatusTenderPosted, StatusAwardPending, StatusAwardApproved,
		StatusDiscountRequested, StatusContractIssued, StatusClosed, StatusRejected,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %q to be a known status", s)
	}
	assert.False(t, Status("archived").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatusApprovalCheckpoints(t *testing.T) {
	checkpoints := []Status{
		StatusSubmittedToCms, StatusBudgetAllocated, StatusTenderPosted,
		StatusAwardPending, StatusAwardApproved, StatusDiscountRequested,
		StatusContractIssued, StatusClosed,
	}
	for _, s := range checkpoints {
		assert.True(t, s.IsApprovalCheckpoint(), "expected %q to be a checkpoint", s)
	}

	free := []Status{
		StatusDraft, StatusDepartmentReview, StatusCommitteePending,
		StatusCommitteeApproved, StatusRejected,
	}
	for _, s := range free {
		assert.False(t, s.IsApprovalCheckpoint(), "expected %q to be freely settable", s)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusClosed.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusContractIssued.IsTerminal())
}
