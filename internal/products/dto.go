package products

import (
	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
)

// ListFilter narrows catalog listings.
type ListFilter struct {
	Category         *enums.ProductCategory
	Tag              string
	FeaturedOnly     bool
	SubscribableOnly bool
	Search           string
}

// ProductDTO is the catalog listing shape returned to clients.
type ProductDTO struct {
	ID                   uuid.UUID `json:"id"`
	Slug                 string    `json:"slug"`
	Title                string    `json:"title"`
	Subtitle             *string   `json:"subtitle,omitempty"`
	Description          *string   `json:"description,omitempty"`
	Category             string    `json:"category"`
	Tags                 []string  `json:"tags"`
	PriceCents           int       `json:"price_cents"`
	CompareAtPriceCents  *int      `json:"compare_at_price_cents,omitempty"`
	SubscriptionEligible bool      `json:"subscription_eligible"`
	InStock              bool      `json:"in_stock"`
	IsFeatured           bool      `json:"is_featured"`
	ImageURL             *string   `json:"image_url,omitempty"`
}

// ListResult carries one page of products plus the cursor for the next.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toDTO(product models.Product) ProductDTO {
	return ProductDTO{
		ID:                   product.ID,
		Slug:                 product.Slug,
		Title:                product.Title,
		Subtitle:             product.Subtitle,
		Description:          product.Description,
		Category:             product.Category.String(),
		Tags:                 product.Tags,
		PriceCents:           product.PriceCents,
		CompareAtPriceCents:  product.CompareAtPriceCents,
		SubscriptionEligible: product.SubscriptionEligible,
		InStock:              product.StockQty > 0,
		IsFeatured:           product.IsFeatured,
		ImageURL:             product.ImageURL,
	}
}
