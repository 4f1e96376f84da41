package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRequiredApprovals_Empty(t *testing.T) {
	assert.False(t, HasRequiredApprovals(nil, GateCommittee))
	assert.False(t, HasRequiredApprovals([]ApprovalEntry{}, GateFatwa))
}

func TestHasRequiredApprovals_CommitteeGate(t *testing.T) {
	approvals := []ApprovalEntry{
		{Role: RoleCommitteeHead, Decision: DecisionApproved},
	}
	assert.True(t, HasRequiredApprovals(approvals, GateCommittee))

	// The same single approval is not enough for a fatwa gate.
	assert.False(t, HasRequiredApprovals(approvals, GateFatwa))
}

func TestHasRequiredApprovals_FatwaGate(t *testing.T) {
	approvals := []ApprovalEntry{
		{Role: RoleCommitteeHead, Decision: DecisionApproved},
	}
	assert.False(t, HasRequiredApprovals(approvals, GateFatwa))

	approvals = append(approvals, ApprovalEntry{Role: RoleFatwa, Decision: DecisionApproved})
	assert.True(t, HasRequiredApprovals(approvals, GateFatwa))
}

func TestHasRequiredApprovals_CtcAuditGateRequiresAllFour(t *testing.T) {
	// Three of four approved, audit missing.
	approvals := []ApprovalEntry{
		{Role: RoleCommitteeHead, Decision: DecisionApproved},
		{Role: RoleFatwa, Decision: DecisionApproved},
		{Role: RoleCtc, Decision: DecisionApproved},
	}
	assert.False(t, HasRequiredApprovals(approvals, GateCtcAudit))

	approvals = append(approvals, ApprovalEntry{Role: RoleAudit, Decision: DecisionApproved})
	assert.True(t, HasRequiredApprovals(approvals, GateCtcAudit))
}

func TestHasRequiredApprovals_RejectedOnlyFails(t *testing.T) {
	approvals := []ApprovalEntry{
		{Role: RoleCommitteeHead, Decision: DecisionRejected},
	}
	assert.False(t, HasRequiredApprovals(approvals, GateCommittee))
}

func TestHasRequiredApprovals_LaterApprovalRedeemsRejection(t *testing.T) {
	approvals := []ApprovalEntry{
		{Role: RoleFatwa, Decision: DecisionRejected},
		{Role: RoleCommitteeHead, Decision: DecisionApproved},
		{Role: RoleFatwa, Decision: DecisionApproved},
	}
	assert.True(t, HasRequiredApprovals(approvals, GateFatwa))
}

func TestHasRequiredApprovals_DuplicatesDoNotMatter(t *testing.T) {
	approvals := []ApprovalEntry{
		{Role: RoleCommitteeHead, Decision: DecisionApproved},
		{Role: RoleCommitteeHead, Decision: DecisionApproved},
		{Role: RoleCommitteeHead, Decision: DecisionApproved},
	}
	assert.True(t, HasRequiredApprovals(approvals, GateCommittee))
	assert.False(t, HasRequiredApprovals(approvals, GateFatwa))
}

func TestHasRequiredApprovals_IrrelevantRolesIgnored(t *testing.T) {
	// An audit approval on a committee-gated request has no effect either way.
	approvals := []ApprovalEntry{
		{Role: RoleAudit, Decision: DecisionApproved},
		{Role: RoleSpecialtyHead, Decision: DecisionApproved},
	}
	assert.False(t, HasRequiredApprovals(approvals, GateCommittee))
}
