package validators

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/greenbasket/greenbasket-backend/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSONBody parses and validates a request body into dst.
func DecodeJSONBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errors.Wrap(errors.CodeValidation, err, "malformed request body")
	}
	if err := validate.Struct(dst); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			return errors.Wrap(errors.CodeInternal, err, "validate request body")
		}
		return errors.New(errors.CodeValidation, "invalid request body").
			WithDetails(fieldErrors(err))
	}
	return nil
}

func fieldErrors(err error) []string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		out = append(out, fmt.Sprintf("%s failed on %s", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}
	return out
}
