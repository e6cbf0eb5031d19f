package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/pkg/errors"
)

const (
	// DefaultLimit matches the storefront's product grid, which renders
	// 24 cards per page.
	DefaultLimit = 24
	// MaxLimit caps a single cursor query at four grid pages.
	MaxLimit = 96
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor marks a position in a (created_at, id) descending scan. The
// encoded form is opaque to clients.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Encode renders the cursor as an opaque base64 token.
func (c Cursor) Encode() string {
	payload := fmt.Sprintf("%s|%s", c.CreatedAt.UTC().Format(time.RFC3339Nano), c.ID.String())
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// NormalizeLimit clamps a requested page size into the allowed range.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer adds one row to the normalized limit so repositories
// can detect whether another page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// ParseCursor decodes a client-supplied token. An empty token means the
// first page; a malformed one is a validation error so the API surfaces
// it as a bad request rather than an empty result.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "decode cursor")
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, errors.New(errors.CodeValidation, "malformed cursor")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "cursor timestamp")
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "cursor id")
	}
	return &Cursor{CreatedAt: t, ID: id}, nil
}
