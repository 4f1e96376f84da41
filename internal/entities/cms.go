package entities

import "time"

// CmsStatus reflects the state of the case with the external procurement
// authority. It is distinct from and smaller than the request's own status.
type CmsStatus string

const (
	CmsStatusFiled       CmsStatus = "filed"
	CmsStatusUnderReview CmsStatus = "under_review"
	CmsStatusApproved    CmsStatus = "approved"
	CmsStatusReturned    CmsStatus = "returned"
	CmsStatusClosed      CmsStatus = "closed"
)

func (s CmsStatus) IsValid() bool {
	switch s {
	case CmsStatusFiled, CmsStatusUnderReview, CmsStatusApproved, CmsStatusReturned, CmsStatusClosed:
		return true
	}
	return false
}

// CmsCase is the one-per-request record of the external authority's case.
// It is mutated by upsert and never deleted.
type CmsCase struct {
	ID               uint64
	RequestID        uint64
	CaseNumber       *string
	Status           *CmsStatus
	CmsContact       *string
	NextFollowupDate *time.Time
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// CmsFollowup is one entry of the append-only follow-up log for a request.
type CmsFollowup struct {
	ID             uint64
	RequestID      uint64
	Note           string
	Contact        *string
	NextActionDate *time.Time
	CreatorID      int
	CreatedAt      time.Time
}
