package server

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallvet/clinica/internal/clinicctx"
)

const HeaderClinic = "X-Clinic-ID"

// ClinicContext resolves the active clinic for the request. A header
// names it explicitly; otherwise the configured default clinic applies.
// Requests with a malformed header are rejected before reaching a
// handler.
func (s *Server) ClinicContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		clinicID := s.cfg.DefaultClinicID

		if raw := strings.TrimSpace(c.GetHeader(HeaderClinic)); raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				AbortWithError(c, newValidationError("clinic_id", "invalid_clinic", "invalid clinic id"))
				return
			}
			clinicID = int64(parsed)
		}

		if clinicID == 0 {
			AbortWithError(c, newValidationError("clinic_id", "invalid_clinic", "no clinic selected"))
			return
		}

		ctx := clinicctx.WithClinicID(c.Request.Context(), clinicID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ReceiptRateLimit throttles the public shared receipt endpoints by
// share token and by caller IP. Without redis the limiter is disabled
// and every request passes.
func (s *Server) ReceiptRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.receiptLimiter.Enabled() {
			c.Next()
			return
		}

		token := strings.TrimSpace(c.Param("token"))
		res, err := s.receiptLimiter.Allow(c.Request.Context(), token, c.ClientIP())
		if err != nil {
			// A broken limiter must not take the receipt page down.
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "receipt", "error")
			c.Next()
			return
		}
		if !res.Allowed {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "receipt", "exhausted")
			if res.RetryAfter > 0 {
				c.Header("Retry-After", formatRetryAfter(res.RetryAfter))
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), "receipt")
		c.Next()
	}
}

func formatRetryAfter(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
