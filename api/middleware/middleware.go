package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/api/responses"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
)

// CustomerIDHeader carries the authenticated customer identity, injected
// by the hosted storefront platform in front of this service.
const CustomerIDHeader = "X-Customer-Id"

const RequestIDHeader = "X-Request-Id"

type customerIDKey struct{}

// CustomerID returns the customer identity attached by RequireCustomer.
func CustomerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(customerIDKey{}).(uuid.UUID)
	return id, ok
}

// RequireCustomer rejects requests without a parseable customer header and
// attaches the identity to the request context.
func RequireCustomer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(CustomerIDHeader)
			if raw == "" {
				responses.WriteError(r.Context(), w, logg, errors.New(errors.CodeUnauthorized, "missing customer identity"))
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), w, logg, errors.New(errors.CodeUnauthorized, "invalid customer identity"))
				return
			}
			ctx := context.WithValue(r.Context(), customerIDKey{}, id)
			ctx = logg.WithCustomerID(ctx, id.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestID assigns every request an ID, honoring one supplied upstream.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)
			ctx := logg.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Logging emits one structured line per request.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			ctx := logg.WithFields(r.Context(), map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      recorder.status,
				"duration_ms": time.Since(started).Milliseconds(),
			})
			logg.Info(ctx, "request handled")
		})
	}
}

// Recoverer converts handler panics into 500 responses.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = errors.New(errors.CodeInternal, "handler panicked")
					}
					logg.Error(r.Context(), "panic recovered", err)
					responses.WriteError(r.Context(), w, logg, errors.Wrap(errors.CodeInternal, err, "panic recovered"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
