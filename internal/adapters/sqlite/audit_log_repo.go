package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/ballotblock/internal/ports/secondary"
)

// AuditLogRepository implements secondary.AuditLogRepository with SQLite.
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new SQLite audit log repository.
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create persists a new audit entry.
func (r *AuditLogRepository) Create(ctx context.Context, entry *secondary.AuditLogRecord) error {
	var actorID sql.NullString
	if entry.ActorID != "" {
		actorID = sql.NullString{String: entry.ActorID, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO audit_log (actor_id, entity_type, entity_id, action) VALUES (?, ?, ?, ?)",
		actorID,
		entry.EntityType,
		entry.EntityID,
		entry.Action,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", classify(err))
	}

	entry.ID, _ = res.LastInsertId()
	return nil
}

// ListByEntity retrieves entries for an entity, oldest first.
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*secondary.AuditLogRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor_id, entity_type, entity_id, action, created_at
		 FROM audit_log WHERE entity_type = ? AND entity_id = ?
		 ORDER BY id ASC`,
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.AuditLogRecord
	for rows.Next() {
		var (
			actorID   sql.NullString
			createdAt time.Time
		)
		entry := &secondary.AuditLogRecord{}
		if err := rows.Scan(&entry.ID, &actorID, &entry.EntityType, &entry.EntityID, &entry.Action, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.ActorID = actorID.String
		entry.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return entries, nil
}

// Ensure AuditLogRepository implements the interface.
var _ secondary.AuditLogRepository = (*AuditLogRepository)(nil)
