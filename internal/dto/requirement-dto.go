package dto

type CreateRequirementItemDTO struct {
	Description        string `json:"description" validate:"required"`
	Quantity           int64  `json:"quantity" validate:"required,gt=0"`
	EstimatedUnitPrice int64  `json:"estimated_unit_price" validate:"required,gt=0"`
}

type CreateRequirementRequestDTO struct {
	Hospital     string                     `json:"hospital" validate:"required"`
	Specialty    string                     `json:"specialty" validate:"required"`
	DepartmentID uint64                     `json:"department_id" validate:"required"`
	FiscalYear   int                        `json:"fiscal_year" validate:"required,gte=2000"`
	Notes        *string                    `json:"notes,omitempty"`
	Items        []CreateRequirementItemDTO `json:"items" validate:"required,min=1,dive"`
}

// CreatedRequirementRequestDTO is the creation response: the caller learns
// the frozen gate and the computed total right away.
type CreatedRequirementRequestDTO struct {
	ID            uint64 `json:"id"`
	RequestNumber string `json:"request_number"`
	TotalValue    int64  `json:"total_value"`
	ApprovalGate  string `json:"approval_gate"`
}

type RequirementItemDTO struct {
	ID                 uint64 `json:"id"`
	Description        string `json:"description"`
	Quantity           int64  `json:"quantity"`
	EstimatedUnitPrice int64  `json:"estimated_unit_price"`
}

type RequirementRequestDTO struct {
	ID            uint64               `json:"id"`
	RequestNumber string               `json:"request_number"`
	Hospital      string               `json:"hospital"`
	Specialty     string               `json:"specialty"`
	DepartmentID  uint64               `json:"department_id"`
	FiscalYear    int                  `json:"fiscal_year"`
	Notes         string               `json:"notes,omitempty"`
	TotalValue    int64                `json:"total_value"`
	ApprovalGate  string               `json:"approval_gate"`
	Status        string               `json:"status"`
	CreatorID     int                  `json:"creator_id"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     string               `json:"updated_at,omitempty"`
	Items         []RequirementItemDTO `json:"items,omitempty"`
}

type UpdateRequirementStatusDTO struct {
	Status string `json:"status" validate:"required"`
}
