package workflow

// Gate is the escalation tier a requirement request must clear before its
// status may advance past the approval checkpoints. It is computed once from
// the request's total estimated value and never recomputed.
type Gate string

const (
	GateCommittee Gate = "committee"
	GateFatwa     Gate = "fatwa"
	GateCtcAudit  Gate = "ctc_audit"
)

// Thresholds in minor currency units. The fatwa lower bound is inclusive, the
// ctc_audit lower bound is exclusive: a total of exactly CtcAuditThreshold
// still lands in fatwa.
const (
	FatwaThreshold    int64 = 7_500_000
	CtcAuditThreshold int64 = 10_000_000
)

// DetermineGate maps a total estimated value to its approval gate.
func DetermineGate(totalValue int64) Gate {
	switch {
	case totalValue > CtcAuditThreshold:
		return GateCtcAudit
	case totalValue >= FatwaThreshold:
		return GateFatwa
	default:
		return GateCommittee
	}
}

func (g Gate) IsValid() bool {
	switch g {
	case GateCommittee, GateFatwa, GateCtcAudit:
		return true
	}
	return false
}
