package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"procurement-system/internal/entities"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	cmsCaseTable  = "cms_cases"
	cmsCaseFields = "id, request_id, case_number, status, cms_contact, next_followup_date, notes, created_at, updated_at"

	cmsFollowupTable  = "cms_followups"
	cmsFollowupFields = "id, request_id, note, contact, next_action_date, creator_id, created_at"
)

type dbCmsCase struct {
	ID               uint64
	RequestID        uint64
	CaseNumber       sql.NullString
	Status           sql.NullString
	CmsContact       sql.NullString
	NextFollowupDate sql.NullTime
	Notes            sql.NullString
	CreatedAt        time.Time
	UpdatedAt        sql.NullTime
}

func (row *dbCmsCase) toEntity() entities.CmsCase {
	var status *entities.CmsStatus
	if row.Status.Valid {
		s := entities.CmsStatus(row.Status.String)
		status = &s
	}
	var nextFollowup *time.Time
	if row.NextFollowupDate.Valid {
		t := row.NextFollowupDate.Time
		nextFollowup = &t
	}
	var updatedAt *time.Time
	if row.UpdatedAt.Valid {
		t := row.UpdatedAt.Time
		updatedAt = &t
	}
	return entities.CmsCase{
		ID:               row.ID,
		RequestID:        row.RequestID,
		CaseNumber:       utils.NullStringToPtr(row.CaseNumber),
		Status:           status,
		CmsContact:       utils.NullStringToPtr(row.CmsContact),
		NextFollowupDate: nextFollowup,
		Notes:            utils.NullStringToPtr(row.Notes),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

type CmsRepositoryInterface interface {
	FindCaseByRequest(ctx context.Context, requestID uint64) (*entities.CmsCase, error)
	UpsertCase(ctx context.Context, cmsCase entities.CmsCase) (*entities.CmsCase, error)
	AddFollowup(ctx context.Context, followup entities.CmsFollowup) (uint64, error)
	GetFollowupsByRequest(ctx context.Context, requestID uint64) ([]entities.CmsFollowup, error)
}

type cmsRepository struct{ storage *pgxpool.Pool }

func NewCmsRepository(storage *pgxpool.Pool) CmsRepositoryInterface {
	return &cmsRepository{storage: storage}
}

func (r *cmsRepository) FindCaseByRequest(ctx context.Context, requestID uint64) (*entities.CmsCase, error) {
	query := "SELECT " + cmsCaseFields + " FROM " + cmsCaseTable + " WHERE request_id = $1"
	var row dbCmsCase
	err := r.storage.QueryRow(ctx, query, requestID).Scan(
		&row.ID, &row.RequestID, &row.CaseNumber, &row.Status, &row.CmsContact,
		&row.NextFollowupDate, &row.Notes, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	cmsCase := row.toEntity()
	return &cmsCase, nil
}

// UpsertCase keeps one row per request. COALESCE leaves columns the caller
// did not supply untouched on conflict.
func (r *cmsRepository) UpsertCase(ctx context.Context, cmsCase entities.CmsCase) (*entities.CmsCase, error) {
	var statusStr *string
	if cmsCase.Status != nil {
		s := string(*cmsCase.Status)
		statusStr = &s
	}

	query := `
		INSERT INTO cms_cases (request_id, case_number, status, cms_contact, next_followup_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (request_id) DO UPDATE SET
			case_number        = COALESCE(EXCLUDED.case_number, cms_cases.case_number),
			status             = COALESCE(EXCLUDED.status, cms_cases.status),
			cms_contact        = COALESCE(EXCLUDED.cms_contact, cms_cases.cms_contact),
			next_followup_date = COALESCE(EXCLUDED.next_followup_date, cms_cases.next_followup_date),
			notes              = COALESCE(EXCLUDED.notes, cms_cases.notes),
			updated_at         = NOW()
		RETURNING ` + cmsCaseFields

	var row dbCmsCase
	err := r.storage.QueryRow(ctx, query,
		cmsCase.RequestID,
		utils.StringPointerToNullString(cmsCase.CaseNumber),
		utils.StringPointerToNullString(statusStr),
		utils.StringPointerToNullString(cmsCase.CmsContact),
		utils.TimePointerToNullTime(cmsCase.NextFollowupDate),
		utils.StringPointerToNullString(cmsCase.Notes),
	).Scan(
		&row.ID, &row.RequestID, &row.CaseNumber, &row.Status, &row.CmsContact,
		&row.NextFollowupDate, &row.Notes, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	saved := row.toEntity()
	return &saved, nil
}

func (r *cmsRepository) AddFollowup(ctx context.Context, followup entities.CmsFollowup) (uint64, error) {
	query := `
		INSERT INTO cms_followups (request_id, note, contact, next_action_date, creator_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var newID uint64
	err := r.storage.QueryRow(ctx, query,
		followup.RequestID,
		followup.Note,
		utils.StringPointerToNullString(followup.Contact),
		utils.TimePointerToNullTime(followup.NextActionDate),
		followup.CreatorID,
	).Scan(&newID)
	if err != nil {
		return 0, err
	}
	return newID, nil
}

func (r *cmsRepository) GetFollowupsByRequest(ctx context.Context, requestID uint64) ([]entities.CmsFollowup, error) {
	query := "SELECT " + cmsFollowupFields + " FROM " + cmsFollowupTable + " WHERE request_id = $1 ORDER BY created_at DESC, id DESC"
	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	followups := make([]entities.CmsFollowup, 0)
	for rows.Next() {
		var (
			followup       entities.CmsFollowup
			contact        sql.NullString
			nextActionDate sql.NullTime
		)
		if err := rows.Scan(&followup.ID, &followup.RequestID, &followup.Note, &contact, &nextActionDate, &followup.CreatorID, &followup.CreatedAt); err != nil {
			return nil, err
		}
		followup.Contact = utils.NullStringToPtr(contact)
		if nextActionDate.Valid {
			t := nextActionDate.Time
			followup.NextActionDate = &t
		}
		followups = append(followups, followup)
	}
	return followups, rows.Err()
}
