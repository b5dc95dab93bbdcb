package context

import (
	"context"
	"strings"
)

type requestIDKey struct{}
type clinicIDKey struct{}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(requestID))
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

// WithClinicID stores the clinic ID (string form) for log correlation.
func WithClinicID(ctx context.Context, clinicID string) context.Context {
	return context.WithValue(ctx, clinicIDKey{}, strings.TrimSpace(clinicID))
}

// ClinicIDFromContext returns the clinic ID string, or "".
func ClinicIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(clinicIDKey{}).(string)
	return value
}
