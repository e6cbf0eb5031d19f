package cart

import (
	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/pkg/enums"
)

const (
	// MaxLineQuantity is the per-line cap enforced on quantity updates.
	MaxLineQuantity = 10

	// SubscriptionDiscountPercent is applied to a line's unit price when
	// the line is flagged for recurring delivery.
	SubscriptionDiscountPercent = 10
)

// ProductRef is the catalog snapshot a cart line carries. The cart never
// reads the catalog after an item is added, so price changes do not
// retroactively reprice an open cart.
type ProductRef struct {
	ID                   uuid.UUID `json:"id"`
	Slug                 string    `json:"slug"`
	Title                string    `json:"title"`
	PriceCents           int64     `json:"price_cents"`
	ImageURL             string    `json:"image_url,omitempty"`
	SubscriptionEligible bool      `json:"subscription_eligible"`
}

// Line is one product entry in a cart, merged by product ID.
type Line struct {
	Product        ProductRef                   `json:"product"`
	Quantity       int64                        `json:"quantity"`
	IsSubscription bool                         `json:"is_subscription"`
	Frequency      *enums.SubscriptionFrequency `json:"frequency,omitempty"`
}

// Snapshot is the serializable view of a cart, used both for persistence
// and for observer notifications.
type Snapshot struct {
	Lines  []Line `json:"lines"`
	Coupon string `json:"coupon,omitempty"`
}

// IsEmpty reports whether the snapshot carries no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// sanitizeLines filters lines coming back from persistence. A line must
// reference a product and carry a positive quantity, and a one-off line
// carries no delivery frequency; anything else was written by a tampered
// or stale payload and is dropped rather than restored.
func sanitizeLines(lines []Line) (kept []Line, dropped int) {
	for _, line := range lines {
		if line.Product.ID == uuid.Nil || line.Quantity < 1 {
			dropped++
			continue
		}
		if !line.IsSubscription {
			line.Frequency = nil
		}
		kept = append(kept, line)
	}
	return kept, dropped
}

func cloneLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	for i := range out {
		if lines[i].Frequency != nil {
			freq := *lines[i].Frequency
			out[i].Frequency = &freq
		}
	}
	return out
}
