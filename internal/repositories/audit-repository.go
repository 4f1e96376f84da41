package repositories

import (
	"context"
	"encoding/json"
	"time"

	"procurement-system/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	auditTable  = "audit_log"
	auditFields = "id, actor_id, action, entity_type, entity_id, changes, source_ip, user_agent, created_at"
)

// AuditRepositoryInterface appends and reads the immutable audit trail.
// Append is the only mutation; entries are never updated or deleted.
type AuditRepositoryInterface interface {
	Append(ctx context.Context, entry entities.AuditEntry) error
	GetByEntity(ctx context.Context, entityType string, entityID uint64) ([]entities.AuditEntry, error)
}

type auditRepository struct{ storage *pgxpool.Pool }

func NewAuditRepository(storage *pgxpool.Pool) AuditRepositoryInterface {
	return &auditRepository{storage: storage}
}

// Append serializes the typed change payload to JSON only here, at the
// persistence boundary.
func (r *auditRepository) Append(ctx context.Context, entry entities.AuditEntry) error {
	changesJSON, err := json.Marshal(entry.Changes)
	if err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO audit_log (id, actor_id, action, entity_type, entity_id, changes, source_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.storage.Exec(ctx, query,
		entry.ID,
		entry.ActorID,
		string(entry.Action),
		entry.EntityType,
		entry.EntityID,
		changesJSON,
		entry.SourceIP,
		entry.UserAgent,
	)
	return err
}

func (r *auditRepository) GetByEntity(ctx context.Context, entityType string, entityID uint64) ([]entities.AuditEntry, error) {
	query := "SELECT " + auditFields + " FROM " + auditTable + " WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at, id"
	rows, err := r.storage.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]entities.AuditEntry, 0)
	for rows.Next() {
		var (
			entry       entities.AuditEntry
			action      string
			changesJSON []byte
			createdAt   time.Time
		)
		if err := rows.Scan(&entry.ID, &entry.ActorID, &action, &entry.EntityType, &entry.EntityID, &changesJSON, &entry.SourceIP, &entry.UserAgent, &createdAt); err != nil {
			return nil, err
		}
		entry.Action = entities.AuditAction(action)
		entry.CreatedAt = createdAt

		var changes entities.RawChanges
		if len(changesJSON) > 0 {
			if err := json.Unmarshal(changesJSON, &changes); err != nil {
				return nil, err
			}
		}
		entry.Changes = changes

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
