package responses

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
)

// Envelope wraps every successful response body.
type Envelope struct {
	Data any `json:"data"`
}

// APIError is the public shape of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// WriteSuccess writes the standard success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Data: data})
}

// WriteError maps an error onto the public envelope. Coded errors choose
// their own status and message; anything else becomes a generic 500.
func WriteError(ctx context.Context, w http.ResponseWriter, logg *logger.Logger, err error) {
	typed := errors.As(err)
	if typed == nil {
		typed = errors.Wrap(errors.CodeInternal, err, "unexpected error")
	}
	meta := errors.MetadataFor(typed.Code())

	if meta.HTTPStatus >= http.StatusInternalServerError && logg != nil {
		dump := errors.Dump(err)
		logg.Error(logg.WithField(ctx, "error_dump", dump), "request failed", err)
	}

	apiErr := APIError{
		Code:    string(typed.Code()),
		Message: meta.PublicMessage,
	}
	if meta.DetailsAllowed {
		apiErr.Message = typed.Message()
		apiErr.Details = typed.Details()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(meta.HTTPStatus)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{Error: apiErr})
}
