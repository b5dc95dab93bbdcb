package clinicctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// ClinicContextKey is the request context key for the active clinic ID.
type ClinicContextKey struct{}

// WithClinicID stores the clinic ID in the context.
func WithClinicID(ctx context.Context, clinicID int64) context.Context {
	return context.WithValue(ctx, ClinicContextKey{}, clinicID)
}

// ClinicIDFromContext returns the clinic ID from context, if set.
func ClinicIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	switch typed := ctx.Value(ClinicContextKey{}).(type) {
	case int64:
		return snowflake.ID(typed), true
	case snowflake.ID:
		return typed, true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
