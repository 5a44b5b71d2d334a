package services

import "context"

type actorKey struct{}

// WithActor stores the authenticated subject for the audit trail
func WithActor(ctx context.Context, actorID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFrom returns the subject stored by WithActor, 0 for background work
func ActorFrom(ctx context.Context) uint {
	if id, ok := ctx.Value(actorKey{}).(uint); ok {
		return id
	}
	return 0
}
