// Package ctxutil carries request-scoped values that any layer may read.
// It imports nothing from this module.
package ctxutil

import "context"

type actorKey struct{}

// WithActorID returns a context recording who performs the operation:
// a logged-in username for HTTP requests, "cli" for terminal commands.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the actor recorded by WithActorID, or "" if none.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
