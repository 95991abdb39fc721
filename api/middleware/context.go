package middleware

import (
	"context"

	"github.com/shopkeeper-dev/storefront-backend/pkg/types"
)

type contextKey string

const (
	ctxActor    contextKey = "actor"
	ctxAccessID contextKey = "access_id"
)

// ActorFromContext returns the authenticated actor, or the zero Actor.
func ActorFromContext(ctx context.Context) types.Actor {
	if ctx == nil {
		return types.Actor{}
	}
	if v, ok := ctx.Value(ctxActor).(types.Actor); ok {
		return v
	}
	return types.Actor{}
}

// AccessIDFromContext returns the JWT jti for the current request.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the actor into the context.
func WithActor(ctx context.Context, actor types.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// WithAccessID injects the access-token id into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
