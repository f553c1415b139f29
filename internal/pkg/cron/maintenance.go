package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/ratelimit"
)

type MaintenanceJobs struct {
	tokenRepo       auth.TokenRepository
	signupLimiter   *ratelimit.Limiter
	signupCooldown  *ratelimit.Cooldown
	purgeInterval   time.Duration
	limiterIdleTime time.Duration
	now             func() time.Time
}

func NewMaintenanceJobs(
	tokenRepo auth.TokenRepository,
	signupLimiter *ratelimit.Limiter,
	signupCooldown *ratelimit.Cooldown,
	purgeInterval time.Duration,
	limiterIdleTime time.Duration,
) *MaintenanceJobs {
	return &MaintenanceJobs{
		tokenRepo:       tokenRepo,
		signupLimiter:   signupLimiter,
		signupCooldown:  signupCooldown,
		purgeInterval:   purgeInterval,
		limiterIdleTime: limiterIdleTime,
		now:             time.Now,
	}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_refresh_tokens", j.purgeInterval, j.PurgeExpiredRefreshTokens)
	scheduler.AddJob("prune_signup_limiters", j.limiterIdleTime, j.PruneSignupLimiters)
}

// PurgeExpiredRefreshTokens deletes refresh tokens past their expiry
func (j *MaintenanceJobs) PurgeExpiredRefreshTokens(ctx context.Context) error {
	deleted, err := j.tokenRepo.DeleteExpired(ctx, j.now())
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Cron: purged expired refresh tokens", "count", deleted)
	}
	return nil
}

// PruneSignupLimiters forgets idle sign-up rate limit keys and elapsed cooldowns
func (j *MaintenanceJobs) PruneSignupLimiters(ctx context.Context) error {
	limiters := j.signupLimiter.Prune(j.limiterIdleTime)
	cooldowns := j.signupCooldown.Prune()
	if limiters > 0 || cooldowns > 0 {
		slog.Debug("Cron: pruned sign-up limiter state", "limiters", limiters, "cooldowns", cooldowns)
	}
	return nil
}
