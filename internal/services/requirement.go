package services

import (
	"context"
	"strings"

	"procurement-system/internal/authz"
	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	"procurement-system/internal/workflow"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"
	"procurement-system/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RequirementServiceInterface interface {
	CreateRequest(ctx context.Context, payload dto.CreateRequirementRequestDTO) (*dto.CreatedRequirementRequestDTO, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequirementRequestDTO, error)
	GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequirementRequestDTO, uint64, error)
	UpdateStatus(ctx context.Context, id uint64, payload dto.UpdateRequirementStatusDTO) error
	AddApproval(ctx context.Context, requestID uint64, payload dto.CreateCommitteeApprovalDTO) error
	GetApprovals(ctx context.Context, requestID uint64) ([]dto.CommitteeApprovalDTO, error)
	GetAuditTrail(ctx context.Context, requestID uint64) ([]dto.AuditEntryDTO, error)
}

type RequirementService struct {
	txManager       repositories.TxManagerInterface
	requirementRepo repositories.RequirementRepositoryInterface
	approvalRepo    repositories.ApprovalRepositoryInterface
	auditRepo       repositories.AuditRepositoryInterface
	policy          AccessPolicyServiceInterface
	logger          *zap.Logger
}

func NewRequirementService(
	txManager repositories.TxManagerInterface,
	requirementRepo repositories.RequirementRepositoryInterface,
	approvalRepo repositories.ApprovalRepositoryInterface,
	auditRepo repositories.AuditRepositoryInterface,
	policy AccessPolicyServiceInterface,
	logger *zap.Logger,
) RequirementServiceInterface {
	return &RequirementService{
		txManager:       txManager,
		requirementRepo: requirementRepo,
		approvalRepo:    approvalRepo,
		auditRepo:       auditRepo,
		policy:          policy,
		logger:          logger,
	}
}

// CreateRequest persists the request with its items and freezes the approval
// gate from the total estimated value. The gate is never recomputed after
// this point.
func (s *RequirementService) CreateRequest(ctx context.Context, payload dto.CreateRequirementRequestDTO) (*dto.CreatedRequirementRequestDTO, error) {
	if err := s.policy.Check(ctx, authz.RequirementsCreate); err != nil {
		return nil, err
	}

	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var totalValue int64
	items := make([]entities.RequirementItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		totalValue += item.Quantity * item.EstimatedUnitPrice
		items = append(items, entities.RequirementItem{
			Description:        item.Description,
			Quantity:           item.Quantity,
			EstimatedUnitPrice: item.EstimatedUnitPrice,
		})
	}

	gate := workflow.DetermineGate(totalValue)

	request := entities.RequirementRequest{
		RequestNumber: "REQ-" + strings.ToUpper(uuid.NewString()[:8]),
		Hospital:      payload.Hospital,
		Specialty:     payload.Specialty,
		DepartmentID:  payload.DepartmentID,
		FiscalYear:    payload.FiscalYear,
		Notes:         payload.Notes,
		TotalValue:    totalValue,
		ApprovalGate:  gate,
		Status:        workflow.StatusDraft,
		CreatorID:     actorID,
		Items:         items,
	}

	var newID uint64
	err = s.txManager.Do(ctx, func(tx pgx.Tx) error {
		var txErr error
		newID, txErr = s.requirementRepo.CreateRequestInTx(ctx, tx, request)
		return txErr
	})
	if err != nil {
		s.logger.Error("failed to create requirement request", zap.Error(err))
		return nil, err
	}

	s.writeAudit(ctx, actorID, entities.AuditActionCreate, newID, entities.RequestCreatedChanges{
		Hospital:     payload.Hospital,
		Specialty:    payload.Specialty,
		DepartmentID: payload.DepartmentID,
		FiscalYear:   payload.FiscalYear,
		TotalValue:   totalValue,
		ApprovalGate: gate,
		ItemCount:    len(items),
	})

	s.logger.Info("requirement request created",
		zap.Uint64("requestID", newID),
		zap.Int64("totalValue", totalValue),
		zap.String("gate", string(gate)),
	)

	return &dto.CreatedRequirementRequestDTO{
		ID:            newID,
		RequestNumber: request.RequestNumber,
		TotalValue:    totalValue,
		ApprovalGate:  string(gate),
	}, nil
}

func (s *RequirementService) FindRequest(ctx context.Context, id uint64) (*dto.RequirementRequestDTO, error) {
	if err := s.policy.Check(ctx, authz.RequirementsView); err != nil {
		return nil, err
	}

	request, err := s.requirementRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	result := requestToDTO(request)
	return &result, nil
}

func (s *RequirementService) GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequirementRequestDTO, uint64, error) {
	if err := s.policy.Check(ctx, authz.RequirementsView); err != nil {
		return nil, 0, err
	}

	requests, total, err := s.requirementRepo.GetRequests(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.RequirementRequestDTO, 0, len(requests))
	for i := range requests {
		result = append(result, requestToDTO(&requests[i]))
	}
	return result, total, nil
}

// UpdateStatus is the transition guard. There is no legal-next-state table;
// the one hard rule is that an approval-checkpoint status cannot be entered
// until every role required by the request's frozen gate has an approved
// ledger entry. The read-check-write runs in one transaction with the
// request row locked, so the decision cannot be made on a stale snapshot.
func (s *RequirementService) UpdateStatus(ctx context.Context, id uint64, payload dto.UpdateRequirementStatusDTO) error {
	if err := s.policy.Check(ctx, authz.RequirementsEdit); err != nil {
		return err
	}

	actorID, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	targetStatus := workflow.Status(payload.Status)
	if !targetStatus.IsValid() {
		return apperrors.NewBadRequestError("unknown status: " + payload.Status)
	}

	err = s.txManager.Do(ctx, func(tx pgx.Tx) error {
		request, txErr := s.requirementRepo.FindRequestInTx(ctx, tx, id)
		if txErr != nil {
			return txErr
		}

		if targetStatus.IsApprovalCheckpoint() {
			approvals, txErr := s.approvalRepo.GetApprovalsByRequestInTx(ctx, tx, id)
			if txErr != nil {
				return txErr
			}
			if !workflow.HasRequiredApprovals(approvalEntries(approvals), request.ApprovalGate) {
				return apperrors.NewForbiddenError("required approvals not completed for this threshold")
			}
		}

		return s.requirementRepo.UpdateStatusInTx(ctx, tx, id, targetStatus)
	})
	if err != nil {
		return err
	}

	s.writeAudit(ctx, actorID, entities.AuditActionStatusChange, id, entities.StatusChanges{Status: targetStatus})

	s.logger.Info("requirement status updated",
		zap.Uint64("requestID", id),
		zap.String("status", string(targetStatus)),
	)
	return nil
}

// AddApproval appends one ledger entry. Any of the six roles may be recorded
// against any request; whether the role matters for the request's gate is
// decided only by the completeness check at transition time.
func (s *RequirementService) AddApproval(ctx context.Context, requestID uint64, payload dto.CreateCommitteeApprovalDTO) error {
	if err := s.policy.Check(ctx, authz.RequirementsApprove); err != nil {
		return err
	}

	actorID, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	role := workflow.Role(payload.Role)
	if !role.IsValid() {
		return apperrors.NewBadRequestError("unknown approval role: " + payload.Role)
	}
	decision := workflow.Decision(payload.Decision)
	if !decision.IsValid() {
		return apperrors.NewBadRequestError("unknown decision: " + payload.Decision)
	}

	err = s.txManager.Do(ctx, func(tx pgx.Tx) error {
		if _, txErr := s.requirementRepo.FindRequestInTx(ctx, tx, requestID); txErr != nil {
			return txErr
		}

		approval := entities.CommitteeApproval{
			RequestID:  requestID,
			Role:       role,
			Decision:   decision,
			Note:       payload.Note,
			ApproverID: actorID,
		}
		_, txErr := s.approvalRepo.AddApprovalInTx(ctx, tx, approval)
		return txErr
	})
	if err != nil {
		return err
	}

	s.writeAudit(ctx, actorID, entities.AuditActionApproval, requestID, entities.ApprovalChanges{
		Role:     role,
		Decision: decision,
	})

	s.logger.Info("committee approval recorded",
		zap.Uint64("requestID", requestID),
		zap.String("role", string(role)),
		zap.String("decision", string(decision)),
	)
	return nil
}

func (s *RequirementService) GetApprovals(ctx context.Context, requestID uint64) ([]dto.CommitteeApprovalDTO, error) {
	if err := s.policy.Check(ctx, authz.RequirementsView); err != nil {
		return nil, err
	}

	if _, err := s.requirementRepo.FindRequest(ctx, requestID); err != nil {
		return nil, err
	}

	approvals, err := s.approvalRepo.GetApprovalsByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.CommitteeApprovalDTO, 0, len(approvals))
	for _, a := range approvals {
		item := dto.CommitteeApprovalDTO{
			ID:         a.ID,
			RequestID:  a.RequestID,
			Role:       string(a.Role),
			Decision:   string(a.Decision),
			ApproverID: a.ApproverID,
			DecidedAt:  utils.FormatTime(a.DecidedAt),
		}
		if a.Note != nil {
			item.Note = *a.Note
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *RequirementService) GetAuditTrail(ctx context.Context, requestID uint64) ([]dto.AuditEntryDTO, error) {
	if err := s.policy.Check(ctx, authz.RequirementsView); err != nil {
		return nil, err
	}

	if _, err := s.requirementRepo.FindRequest(ctx, requestID); err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.GetByEntity(ctx, entities.AuditEntityRequirementsRequest, requestID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.AuditEntryDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, dto.AuditEntryDTO{
			ID:         e.ID,
			ActorID:    e.ActorID,
			Action:     string(e.Action),
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Changes:    e.Changes,
			SourceIP:   e.SourceIP,
			UserAgent:  e.UserAgent,
			CreatedAt:  utils.FormatTime(e.CreatedAt),
		})
	}
	return result, nil
}

// writeAudit appends one audit entry for a successful mutation. Audit writes
// are best-effort: a failure is logged and never rolls back the mutation.
func (s *RequirementService) writeAudit(ctx context.Context, actorID int, action entities.AuditAction, entityID uint64, changes entities.AuditChanges) {
	sourceIP, userAgent := requestMetaFromContext(ctx)
	entry := entities.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entities.AuditEntityRequirementsRequest,
		EntityID:   entityID,
		Changes:    changes,
		SourceIP:   sourceIP,
		UserAgent:  userAgent,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Error("failed to write audit entry",
			zap.String("action", string(action)),
			zap.Uint64("entityID", entityID),
			zap.Error(err),
		)
	}
}

func approvalEntries(approvals []entities.CommitteeApproval) []workflow.ApprovalEntry {
	entries := make([]workflow.ApprovalEntry, 0, len(approvals))
	for _, a := range approvals {
		entries = append(entries, workflow.ApprovalEntry{Role: a.Role, Decision: a.Decision})
	}
	return entries
}

func requestToDTO(request *entities.RequirementRequest) dto.RequirementRequestDTO {
	result := dto.RequirementRequestDTO{
		ID:            request.ID,
		RequestNumber: request.RequestNumber,
		Hospital:      request.Hospital,
		Specialty:     request.Specialty,
		DepartmentID:  request.DepartmentID,
		FiscalYear:    request.FiscalYear,
		TotalValue:    request.TotalValue,
		ApprovalGate:  string(request.ApprovalGate),
		Status:        string(request.Status),
		CreatorID:     request.CreatorID,
		CreatedAt:     utils.FormatTime(request.CreatedAt),
	}
	if request.Notes != nil {
		result.Notes = *request.Notes
	}
	if request.UpdatedAt != nil {
		result.UpdatedAt = utils.FormatTime(*request.UpdatedAt)
	}
	for _, item := range request.Items {
		result.Items = append(result.Items, dto.RequirementItemDTO{
			ID:                 item.ID,
			Description:        item.Description,
			Quantity:           item.Quantity,
			EstimatedUnitPrice: item.EstimatedUnitPrice,
		})
	}
	return result
}
