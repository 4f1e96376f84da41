package repositories

import (
	"context"
	"database/sql"
	"time"

	"procurement-system/internal/entities"
	"procurement-system/internal/workflow"
	"procurement-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	approvalTable  = "committee_approvals"
	approvalFields = "id, request_id, role, decision, note, approver_id, decided_at"
)

type dbCommitteeApproval struct {
	ID         uint64
	RequestID  uint64
	Role       string
	Decision   string
	Note       sql.NullString
	ApproverID int
	DecidedAt  time.Time
}

func (row *dbCommitteeApproval) toEntity() entities.CommitteeApproval {
	return entities.CommitteeApproval{
		ID:         row.ID,
		RequestID:  row.RequestID,
		Role:       workflow.Role(row.Role),
		Decision:   workflow.Decision(row.Decision),
		Note:       utils.NullStringToPtr(row.Note),
		ApproverID: row.ApproverID,
		DecidedAt:  row.DecidedAt,
	}
}

// ApprovalRepositoryInterface is the append-only ledger of committee
// decisions. There is no update or delete: a re-review appends a new row.
type ApprovalRepositoryInterface interface {
	AddApprovalInTx(ctx context.Context, tx pgx.Tx, approval entities.CommitteeApproval) (uint64, error)
	GetApprovalsByRequest(ctx context.Context, requestID uint64) ([]entities.CommitteeApproval, error)
	GetApprovalsByRequestInTx(ctx context.Context, tx pgx.Tx, requestID uint64) ([]entities.CommitteeApproval, error)
}

type approvalRepository struct{ storage *pgxpool.Pool }

func NewApprovalRepository(storage *pgxpool.Pool) ApprovalRepositoryInterface {
	return &approvalRepository{storage: storage}
}

func (r *approvalRepository) AddApprovalInTx(ctx context.Context, tx pgx.Tx, approval entities.CommitteeApproval) (uint64, error) {
	query := `
		INSERT INTO committee_approvals (request_id, role, decision, note, approver_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var newID uint64
	err := tx.QueryRow(ctx, query,
		approval.RequestID,
		string(approval.Role),
		string(approval.Decision),
		utils.StringPointerToNullString(approval.Note),
		approval.ApproverID,
	).Scan(&newID)
	if err != nil {
		return 0, err
	}
	return newID, nil
}

func (r *approvalRepository) GetApprovalsByRequest(ctx context.Context, requestID uint64) ([]entities.CommitteeApproval, error) {
	return r.getApprovals(ctx, r.storage, requestID)
}

func (r *approvalRepository) GetApprovalsByRequestInTx(ctx context.Context, tx pgx.Tx, requestID uint64) ([]entities.CommitteeApproval, error) {
	return r.getApprovals(ctx, tx, requestID)
}

func (r *approvalRepository) getApprovals(ctx context.Context, q querier, requestID uint64) ([]entities.CommitteeApproval, error) {
	query := "SELECT " + approvalFields + " FROM " + approvalTable + " WHERE request_id = $1 ORDER BY decided_at, id"
	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	approvals := make([]entities.CommitteeApproval, 0)
	for rows.Next() {
		var row dbCommitteeApproval
		if err := rows.Scan(&row.ID, &row.RequestID, &row.Role, &row.Decision, &row.Note, &row.ApproverID, &row.DecidedAt); err != nil {
			return nil, err
		}
		approvals = append(approvals, row.toEntity())
	}
	return approvals, rows.Err()
}
