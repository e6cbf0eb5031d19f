package orders

import (
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/types"
)

// SubmitInput carries the checkout choices for a cart submission.
type SubmitInput struct {
	ShippingAddress types.Address     `json:"shipping_address" validate:"required"`
	PaymentMode     enums.PaymentMode `json:"payment_mode" validate:"required"`
}
