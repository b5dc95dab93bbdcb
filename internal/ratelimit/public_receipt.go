package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallvet/clinica/internal/config"
)

const (
	keyReceiptToken = "receipt:token:%s"
	keyReceiptIP    = "receipt:ip:%s"

	// Shared receipt links are handed to pet owners, so a few requests per
	// second per token is plenty. The IP bucket catches scrapers that walk
	// many tokens from one address.
	receiptTokenRate  = 1.0
	receiptTokenBurst = 10
	receiptIPRate     = 5.0
	receiptIPBurst    = 30
)

// PublicReceiptLimiter throttles the unauthenticated shared receipt
// endpoints. A nil limiter allows everything, so deployments without
// redis keep working.
type PublicReceiptLimiter struct {
	bucket *TokenBucket
}

func NewPublicReceiptLimiter(client *redis.Client) *PublicReceiptLimiter {
	if client == nil {
		return nil
	}
	return &PublicReceiptLimiter{bucket: NewTokenBucket(client)}
}

func (l *PublicReceiptLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow checks both the per-token and the per-IP budgets. The first
// exhausted bucket wins and its retry hint is returned.
func (l *PublicReceiptLimiter) Allow(ctx context.Context, token, ip string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}

	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyReceiptToken, strings.TrimSpace(token)), receiptTokenRate, receiptTokenBurst)
	if err != nil || !res.Allowed {
		return res, err
	}

	return l.bucket.Allow(ctx, fmt.Sprintf(keyReceiptIP, strings.TrimSpace(ip)), receiptIPRate, receiptIPBurst)
}

// NewRedisClient returns nil when no redis address is configured; the
// limiter and locker both treat a nil client as disabled.
func NewRedisClient(cfg config.Config) *redis.Client {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     strings.TrimSpace(cfg.RedisPassword),
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}
