package services

import (
	"context"
	"time"

	"procurement-system/internal/authz"
	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/utils"

	"go.uber.org/zap"
)

type CmsServiceInterface interface {
	UpsertCase(ctx context.Context, requestID uint64, payload dto.UpsertCmsCaseDTO) (*dto.CmsCaseDTO, error)
	FindCase(ctx context.Context, requestID uint64) (*dto.CmsCaseDTO, error)
	AddFollowup(ctx context.Context, requestID uint64, payload dto.CreateCmsFollowupDTO) error
	GetFollowups(ctx context.Context, requestID uint64) ([]dto.CmsFollowupDTO, error)
}

// CmsService tracks the external authority's case alongside a requirement
// request. It shares the permission and audit envelope with the workflow but
// never consults the status transition guard.
type CmsService struct {
	cmsRepo         repositories.CmsRepositoryInterface
	requirementRepo repositories.RequirementRepositoryInterface
	auditRepo       repositories.AuditRepositoryInterface
	policy          AccessPolicyServiceInterface
	logger          *zap.Logger
}

func NewCmsService(
	cmsRepo repositories.CmsRepositoryInterface,
	requirementRepo repositories.RequirementRepositoryInterface,
	auditRepo repositories.AuditRepositoryInterface,
	policy AccessPolicyServiceInterface,
	logger *zap.Logger,
) CmsServiceInterface {
	return &CmsService{
		cmsRepo:         cmsRepo,
		requirementRepo: requirementRepo,
		auditRepo:       auditRepo,
		policy:          policy,
		logger:          logger,
	}
}

func (s *CmsService) UpsertCase(ctx context.Context, requestID uint64, payload dto.UpsertCmsCaseDTO) (*dto.CmsCaseDTO, error) {
	if err := s.policy.Check(ctx, authz.RequirementsEdit); err != nil {
		return nil, err
	}

	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.requirementRepo.FindRequest(ctx, requestID); err != nil {
		return nil, err
	}

	cmsCase := entities.CmsCase{
		RequestID:  requestID,
		CaseNumber: payload.CaseNumber,
		CmsContact: payload.CmsContact,
		Notes:      payload.Notes,
	}
	if payload.Status != nil {
		status := entities.CmsStatus(*payload.Status)
		if !status.IsValid() {
			return nil, apperrors.NewBadRequestError("unknown CMS case status: " + *payload.Status)
		}
		cmsCase.Status = &status
	}
	if payload.NextFollowupDate != nil {
		date, parseErr := time.Parse("2006-01-02", *payload.NextFollowupDate)
		if parseErr != nil {
			return nil, apperrors.NewBadRequestError("invalid next_followup_date: " + *payload.NextFollowupDate)
		}
		cmsCase.NextFollowupDate = &date
	}

	saved, err := s.cmsRepo.UpsertCase(ctx, cmsCase)
	if err != nil {
		s.logger.Error("failed to upsert CMS case", zap.Uint64("requestID", requestID), zap.Error(err))
		return nil, err
	}

	s.writeAudit(ctx, actorID, entities.AuditActionCmsUpsert, requestID, entities.CmsCaseChanges{
		CmsCaseID:        saved.ID,
		CaseNumber:       payload.CaseNumber,
		Status:           cmsCase.Status,
		CmsContact:       payload.CmsContact,
		NextFollowupDate: payload.NextFollowupDate,
		Notes:            payload.Notes,
	})

	result := cmsCaseToDTO(saved)
	return &result, nil
}

func (s *CmsService) FindCase(ctx context.Context, requestID uint64) (*dto.CmsCaseDTO, error) {
	if err := s.policy.Check(ctx, authz.RequirementsView); err != nil {
		return nil, err
	}

	cmsCase, err := s.cmsRepo.FindCaseByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	result := cmsCaseToDTO(cmsCase)
	return &result, nil
}

func (s *CmsService) AddFollowup(ctx context.Context, requestID uint64, payload dto.CreateCmsFollowupDTO) error {
	if err := s.policy.Check(ctx, authz.RequirementsEdit); err != nil {
		return err
	}

	actorID, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.requirementRepo.FindRequest(ctx, requestID); err != nil {
		return err
	}

	followup := entities.CmsFollowup{
		RequestID: requestID,
		Note:      payload.Note,
		Contact:   payload.Contact,
		CreatorID: actorID,
	}
	if payload.NextActionDate != nil {
		date, parseErr := time.Parse("2006-01-02", *payload.NextActionDate)
		if parseErr != nil {
			return apperrors.NewBadRequestError("invalid next_action_date: " + *payload.NextActionDate)
		}
		followup.NextActionDate = &date
	}

	if _, err := s.cmsRepo.AddFollowup(ctx, followup); err != nil {
		s.logger.Error("failed to add CMS followup", zap.Uint64("requestID", requestID), zap.Error(err))
		return err
	}

	s.writeAudit(ctx, actorID, entities.AuditActionCmsFollowup, requestID, entities.CmsFollowupChanges{
		Note:           payload.Note,
		Contact:        payload.Contact,
		NextActionDate: payload.NextActionDate,
	})
	return nil
}

func (s *CmsService) GetFollowups(ctx context.Context, requestID uint64) ([]dto.CmsFollowupDTO, error) {
	if err := s.policy.Check(ctx, authz.RequirementsView); err != nil {
		return nil, err
	}

	if _, err := s.requirementRepo.FindRequest(ctx, requestID); err != nil {
		return nil, err
	}

	followups, err := s.cmsRepo.GetFollowupsByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.CmsFollowupDTO, 0, len(followups))
	for _, f := range followups {
		item := dto.CmsFollowupDTO{
			ID:        f.ID,
			RequestID: f.RequestID,
			Note:      f.Note,
			CreatorID: f.CreatorID,
			CreatedAt: utils.FormatTime(f.CreatedAt),
		}
		if f.Contact != nil {
			item.Contact = *f.Contact
		}
		if f.NextActionDate != nil {
			item.NextActionDate = f.NextActionDate.Format("2006-01-02")
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *CmsService) writeAudit(ctx context.Context, actorID int, action entities.AuditAction, entityID uint64, changes entities.AuditChanges) {
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

func cmsCaseToDTO(cmsCase *entities.CmsCase) dto.CmsCaseDTO {
	result := dto.CmsCaseDTO{
		ID:        cmsCase.ID,
		RequestID: cmsCase.RequestID,
		CreatedAt: utils.FormatTime(cmsCase.CreatedAt),
	}
	if cmsCase.CaseNumber != nil {
		result.CaseNumber = *cmsCase.CaseNumber
	}
	if cmsCase.Status != nil {
		result.Status = string(*cmsCase.Status)
	}
	if cmsCase.CmsContact != nil {
		result.CmsContact = *cmsCase.CmsContact
	}
	if cmsCase.NextFollowupDate != nil {
		result.NextFollowupDate = cmsCase.NextFollowupDate.Format("2006-01-02")
	}
	if cmsCase.Notes != nil {
		result.Notes = *cmsCase.Notes
	}
	if cmsCase.UpdatedAt != nil {
		result.UpdatedAt = utils.FormatTime(*cmsCase.UpdatedAt)
	}
	return result
}
