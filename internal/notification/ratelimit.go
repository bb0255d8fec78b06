package notification

import (
	"context"
	"errors"

	"livrerjardiner-be/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrThrottled is returned when the outbound limiter denies a message.
var ErrThrottled = errors.New("notification throttled")

// RateLimitedGateway caps outbound sends so a burst of orders cannot trip
// the mail provider's own throttle. Denied messages are dropped, not queued;
// the caller already treats notification failures as soft.
type RateLimitedGateway struct {
	inner   Gateway
	limiter *rate.Limiter
}

func NewRateLimited(inner Gateway, r float64, burst int) *RateLimitedGateway {
	return &RateLimitedGateway{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(r), burst),
	}
}

func (g *RateLimitedGateway) Send(ctx context.Context, msg Message) error {
	if !g.limiter.Allow() {
		logger.FromCtx(ctx).Warn("notification dropped by rate limiter",
			zap.String("kind", string(msg.Kind)),
			zap.Int64("order_id", msg.OrderID),
		)
		return ErrThrottled
	}
	return g.inner.Send(ctx, msg)
}
