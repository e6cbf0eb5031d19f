package coupons

import (
	"context"
	"time"

	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
)

// TableAuthority resolves coupon codes against the coupons table. Lookup
// failures are logged and treated as invalid so a database blip rejects a
// coupon instead of failing a cart mutation.
type TableAuthority struct {
	repo *Repository
	logg *logger.Logger
	now  func() time.Time
}

func NewTableAuthority(repo *Repository, logg *logger.Logger) (*TableAuthority, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "table authority requires a repository")
	}
	return &TableAuthority{repo: repo, logg: logg, now: time.Now}, nil
}

func (t *TableAuthority) IsValid(ctx context.Context, code string) bool {
	return t.PercentFor(ctx, code) > 0
}

func (t *TableAuthority) PercentFor(ctx context.Context, code string) int64 {
	normalized := Normalize(code)
	if normalized == "" {
		return 0
	}
	coupon, err := t.repo.FindActiveByCode(ctx, normalized, t.now())
	if err != nil {
		typed := errors.As(err)
		if (typed == nil || typed.Code() != errors.CodeNotFound) && t.logg != nil {
			t.logg.Warn(t.logg.WithFields(ctx, map[string]any{
				"coupon_code": normalized,
				"error":       err.Error(),
			}), "coupon lookup failed")
		}
		return 0
	}
	return coupon.Percent
}
