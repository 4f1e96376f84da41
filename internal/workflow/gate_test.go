package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineGate(t *testing.T) {
	testCases := []struct {
		name       string
		totalValue int64
		expected   Gate
	}{
		{"zero value", 0, GateCommittee},
		{"small value", 1_250_000, GateCommittee},
		{"just below fatwa threshold", 7_499_999, GateCommittee},
		{"exactly at fatwa threshold", 7_500_000, GateFatwa},
		{"inside fatwa band", 8_000_000, GateFatwa},
		{"exactly at audit threshold stays fatwa", 10_000_000, GateFatwa},
		{"just above audit threshold", 10_000_001, GateCtcAudit},
		{"large value", 12_000_000, GateCtcAudit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetermineGate(tc.totalValue))
		})
	}
}

func TestRequiredApprovals(t *testing.T) {
	assert.Equal(t, []Role{RoleCommitteeHead}, RequiredApprovals(GateCommittee))
	assert.Equal(t, []Role{RoleCommitteeHead, RoleFatwa}, RequiredApprovals(GateFatwa))
	assert.Equal(t, []Role{RoleCommitteeHead, RoleFatwa, RoleCtc, RoleAudit}, RequiredApprovals(GateCtcAudit))
}

func TestGateIsValid(t *testing.T) {
	assert.True(t, GateCommittee.IsValid())
	assert.True(t, GateFatwa.IsValid())
	assert.True(t, GateCtcAudit.IsValid())
	assert.False(t, Gate("board").IsValid())
}
