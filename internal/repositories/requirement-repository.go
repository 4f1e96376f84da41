package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"procurement-system/internal/entities"
	db "procurement-system/internal/infrastructure/bd"
	"procurement-system/internal/workflow"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"
	"procurement-system/pkg/utils"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	requirementTable  = "requirement_requests"
	requirementFields = "id, request_number, hospital, specialty, department_id, fiscal_year, notes, total_value, approval_gate, status, creator_id, created_at, updated_at"

	requirementItemTable  = "requirement_items"
	requirementItemFields = "id, request_id, description, quantity, estimated_unit_price, created_at"
)

// requirementListFilterMap whitelists the json fields the list endpoint may
// filter or sort by.
var requirementListFilterMap = map[string]string{
	"hospital":      "hospital",
	"specialty":     "specialty",
	"department_id": "department_id",
	"fiscal_year":   "fiscal_year",
	"approval_gate": "approval_gate",
	"status":        "status",
	"creator_id":    "creator_id",
	"created_at":    "created_at",
}

type dbRequirementRequest struct {
	ID            uint64
	RequestNumber string
	Hospital      string
	Specialty     string
	DepartmentID  uint64
	FiscalYear    int
	Notes         sql.NullString
	TotalValue    int64
	ApprovalGate  string
	Status        string
	CreatorID     int
	CreatedAt     time.Time
	UpdatedAt     sql.NullTime
}

func (row *dbRequirementRequest) toEntity() entities.RequirementRequest {
	var updatedAt *time.Time
	if row.UpdatedAt.Valid {
		t := row.UpdatedAt.Time
		updatedAt = &t
	}
	return entities.RequirementRequest{
		ID:            row.ID,
		RequestNumber: row.RequestNumber,
		Hospital:      row.Hospital,
		Specialty:     row.Specialty,
		DepartmentID:  row.DepartmentID,
		FiscalYear:    row.FiscalYear,
		Notes:         utils.NullStringToPtr(row.Notes),
		TotalValue:    row.TotalValue,
		ApprovalGate:  workflow.Gate(row.ApprovalGate),
		Status:        workflow.Status(row.Status),
		CreatorID:     row.CreatorID,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

type RequirementRepositoryInterface interface {
	CreateRequestInTx(ctx context.Context, tx pgx.Tx, request entities.RequirementRequest) (uint64, error)
	FindRequest(ctx context.Context, id uint64) (*entities.RequirementRequest, error)
	FindRequestInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RequirementRequest, error)
	GetRequests(ctx context.Context, filter types.Filter) ([]entities.RequirementRequest, uint64, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status workflow.Status) error
}

type requirementRepository struct{ storage *pgxpool.Pool }

func NewRequirementRepository(storage *pgxpool.Pool) RequirementRepositoryInterface {
	return &requirementRepository{storage: storage}
}

// CreateRequestInTx inserts the request together with its items. Items exist
// only as part of their request, so both go through the same transaction.
func (r *requirementRepository) CreateRequestInTx(ctx context.Context, tx pgx.Tx, request entities.RequirementRequest) (uint64, error) {
	query := `
		INSERT INTO requirement_requests
			(request_number, hospital, specialty, department_id, fiscal_year, notes, total_value, approval_gate, status, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var newID uint64
	err := tx.QueryRow(ctx, query,
		request.RequestNumber,
		request.Hospital,
		request.Specialty,
		request.DepartmentID,
		request.FiscalYear,
		utils.StringPointerToNullString(request.Notes),
		request.TotalValue,
		string(request.ApprovalGate),
		string(request.Status),
		request.CreatorID,
	).Scan(&newID)
	if err != nil {
		return 0, err
	}

	itemQuery := `
		INSERT INTO requirement_items (request_id, description, quantity, estimated_unit_price)
		VALUES ($1, $2, $3, $4)`
	for _, item := range request.Items {
		if _, err := tx.Exec(ctx, itemQuery, newID, item.Description, item.Quantity, item.EstimatedUnitPrice); err != nil {
			return 0, err
		}
	}

	return newID, nil
}

func (r *requirementRepository) FindRequest(ctx context.Context, id uint64) (*entities.RequirementRequest, error) {
	return r.findRequest(ctx, r.storage, id, false)
}

// FindRequestInTx locks the request row so a concurrent approval or status
// change cannot slip between the completeness check and the status write.
func (r *requirementRepository) FindRequestInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RequirementRequest, error) {
	return r.findRequest(ctx, tx, id, true)
}

func (r *requirementRepository) findRequest(ctx context.Context, q querier, id uint64, forUpdate bool) (*entities.RequirementRequest, error) {
	query := "SELECT " + requirementFields + " FROM " + requirementTable + " WHERE id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	var row dbRequirementRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&row.ID, &row.RequestNumber, &row.Hospital, &row.Specialty, &row.DepartmentID,
		&row.FiscalYear, &row.Notes, &row.TotalValue, &row.ApprovalGate, &row.Status,
		&row.CreatorID, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	request := row.toEntity()

	items, err := r.getItems(ctx, q, id)
	if err != nil {
		return nil, err
	}
	request.Items = items

	return &request, nil
}

func (r *requirementRepository) getItems(ctx context.Context, q querier, requestID uint64) ([]entities.RequirementItem, error) {
	query := "SELECT " + requirementItemFields + " FROM " + requirementItemTable + " WHERE request_id = $1 ORDER BY id"
	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.RequirementItem, 0)
	for rows.Next() {
		var item entities.RequirementItem
		if err := rows.Scan(&item.ID, &item.RequestID, &item.Description, &item.Quantity, &item.EstimatedUnitPrice, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *requirementRepository) GetRequests(ctx context.Context, filter types.Filter) ([]entities.RequirementRequest, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(*)").From(requirementTable)
	listBuilder := psql.Select(requirementFields).From(requirementTable)

	if filter.Search != "" {
		searchCond := sq.Or{
			sq.ILike{"hospital": "%" + filter.Search + "%"},
			sq.ILike{"specialty": "%" + filter.Search + "%"},
			sq.ILike{"request_number": "%" + filter.Search + "%"},
		}
		countBuilder = countBuilder.Where(searchCond)
		listBuilder = listBuilder.Where(searchCond)
	}

	// The count query must see the same filters as the list query, minus
	// sort and pagination, or multi-value filters would desync the total.
	countBuilder = db.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, requirementListFilterMap)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.RequirementRequest{}, 0, nil
	}

	listBuilder = db.ApplyListParams(listBuilder, filter, requirementListFilterMap)
	if len(filter.Sort) == 0 {
		listBuilder = listBuilder.OrderBy("id DESC")
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]entities.RequirementRequest, 0)
	for rows.Next() {
		var row dbRequirementRequest
		if err := rows.Scan(
			&row.ID, &row.RequestNumber, &row.Hospital, &row.Specialty, &row.DepartmentID,
			&row.FiscalYear, &row.Notes, &row.TotalValue, &row.ApprovalGate, &row.Status,
			&row.CreatorID, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		requests = append(requests, row.toEntity())
	}
	return requests, total, rows.Err()
}

func (r *requirementRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status workflow.Status) error {
	query := "UPDATE " + requirementTable + " SET status = $1, updated_at = NOW() WHERE id = $2"
	tag, err := tx.Exec(ctx, query, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
