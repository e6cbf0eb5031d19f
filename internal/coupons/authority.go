package coupons

import (
	"context"
	"strings"
)

// Authority validates coupon codes and yields their percentage discount.
// The cart store only ever sees this interface, so the static table can be
// swapped for a database-backed lookup without touching cart code.
type Authority interface {
	IsValid(ctx context.Context, code string) bool
	PercentFor(ctx context.Context, code string) int64
}

// Normalize upper-cases and trims a raw coupon code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Static is an in-memory coupon table.
type Static struct {
	percentByCode map[string]int64
}

// NewStatic builds an authority over the provided code->percent table.
// Codes are normalized on the way in.
func NewStatic(codes map[string]int64) *Static {
	table := make(map[string]int64, len(codes))
	for code, percent := range codes {
		if percent <= 0 || percent > 100 {
			continue
		}
		table[Normalize(code)] = percent
	}
	return &Static{percentByCode: table}
}

// DefaultCodes returns the seeded storefront coupon table.
func DefaultCodes() map[string]int64 {
	return map[string]int64{
		"WELCOME10": 10,
		"HEALTHY20": 20,
	}
}

// IsValid reports whether the normalized code is in the table.
func (s *Static) IsValid(_ context.Context, code string) bool {
	_, ok := s.percentByCode[Normalize(code)]
	return ok
}

// PercentFor returns the discount percentage, zero for unknown codes.
func (s *Static) PercentFor(_ context.Context, code string) int64 {
	return s.percentByCode[Normalize(code)]
}
