package workflow

// Role identifies who signed a committee approval entry.
type Role string

const (
	RoleDepartmentHead Role = "department_head"
	RoleCommitteeHead  Role = "committee_head"
	RoleSpecialtyHead  Role = "specialty_head"
	RoleFatwa          Role = "fatwa"
	RoleCtc            Role = "ctc"
	RoleAudit          Role = "audit"
)

// Decision is the outcome recorded in one approval ledger entry.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// AllRoles is the fixed set of roles an approval may be recorded under. Any
// of them may be recorded against any request regardless of its gate.
var AllRoles = []Role{
	RoleDepartmentHead,
	RoleCommitteeHead,
	RoleSpecialtyHead,
	RoleFatwa,
	RoleCtc,
	RoleAudit,
}

// RequiredApprovals returns the roles whose approval is mandatory for a gate.
// The order is fixed but carries no semantics; completeness is a set check.
func RequiredApprovals(gate Gate) []Role {
	switch gate {
	case GateCtcAudit:
		return []Role{RoleCommitteeHead, RoleFatwa, RoleCtc, RoleAudit}
	case GateFatwa:
		return []Role{RoleCommitteeHead, RoleFatwa}
	default:
		return []Role{RoleCommitteeHead}
	}
}

func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}
