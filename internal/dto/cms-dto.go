package dto

// UpsertCmsCaseDTO updates only the supplied fields; nil means "leave as is".
// Dates come in as "2006-01-02".
type UpsertCmsCaseDTO struct {
	CaseNumber       *string `json:"case_number,omitempty"`
	Status           *string `json:"status,omitempty" validate:"omitempty,oneof=filed under_review approved returned closed"`
	CmsContact       *string `json:"cms_contact,omitempty"`
	NextFollowupDate *string `json:"next_followup_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes            *string `json:"notes,omitempty"`
}

type CmsCaseDTO struct {
	ID               uint64 `json:"id"`
	RequestID        uint64 `json:"request_id"`
	CaseNumber       string `json:"case_number,omitempty"`
	Status           string `json:"status,omitempty"`
	CmsContact       string `json:"cms_contact,omitempty"`
	NextFollowupDate string `json:"next_followup_date,omitempty"`
	Notes            string `json:"notes,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

type CreateCmsFollowupDTO struct {
	Note           string  `json:"note" validate:"required"`
	Contact        *string `json:"contact,omitempty"`
	NextActionDate *string `json:"next_action_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type CmsFollowupDTO struct {
	ID             uint64 `json:"id"`
	RequestID      uint64 `json:"request_id"`
	Note           string `json:"note"`
	Contact        string `json:"contact,omitempty"`
	NextActionDate string `json:"next_action_date,omitempty"`
	CreatorID      int    `json:"creator_id"`
	CreatedAt      string `json:"created_at"`
}
