package secondary

import "context"

// Entity types recorded in the audit log.
const (
	EntityElection = "election"
	EntityBallot   = "ballot"
	EntityVoter    = "voter"
)

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error
}
