package workflow

// ApprovalEntry is the slice of a committee approval row the completeness
// check needs. The ledger is append-only, so a role may appear many times
// with different decisions.
type ApprovalEntry struct {
	Role     Role
	Decision Decision
}

// HasRequiredApprovals reports whether every role required by the gate has at
// least one approved entry. A role with only rejected entries, or none at
// all, fails the check; a later approval for the same role redeems an earlier
// rejection. Entries for roles the gate does not require are ignored.
func HasRequiredApprovals(approvals []ApprovalEntry, gate Gate) bool {
	approvedByRole := make(map[Role]bool, len(approvals))
	for _, a := range approvals {
		if a.Decision == DecisionApproved {
			approvedByRole[a.Role] = true
		}
	}

	for _, required := range RequiredApprovals(gate) {
		if !approvedByRole[required] {
			return false
		}
	}
	return true
}
