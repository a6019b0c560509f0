package http

import (
	"context"
	"log/slog"

	"github.com/example/staybook/internal/application"
	"github.com/example/staybook/internal/logging"
)

type contextKey string

const (
	principalContextKey     contextKey = "principal"
	unitIDContextKey        contextKey = "unit_id"
	reservationIDContextKey contextKey = "reservation_id"
	blockRuleIDContextKey   contextKey = "block_rule_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithUnitID injects the unit identifier resolved from the request path.
func ContextWithUnitID(ctx context.Context, unitID string) context.Context {
	return context.WithValue(ctx, unitIDContextKey, unitID)
}

// UnitIDFromContext extracts a unit identifier previously associated with the context.
func UnitIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(unitIDContextKey).(string)
	return id, ok
}

// ContextWithReservationID injects the reservation identifier resolved from the request path.
func ContextWithReservationID(ctx context.Context, reservationID string) context.Context {
	return context.WithValue(ctx, reservationIDContextKey, reservationID)
}

// ReservationIDFromContext extracts a reservation identifier previously associated with the context.
func ReservationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(reservationIDContextKey).(string)
	return id, ok
}

// ContextWithBlockRuleID injects the block rule identifier resolved from the request path.
func ContextWithBlockRuleID(ctx context.Context, ruleID string) context.Context {
	return context.WithValue(ctx, blockRuleIDContextKey, ruleID)
}

// BlockRuleIDFromContext extracts a block rule identifier previously associated with the context.
func BlockRuleIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(blockRuleIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request-scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts a request-scoped logger if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
