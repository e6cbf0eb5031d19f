package controllers

import (
	"net/http"

	"github.com/greenbasket/greenbasket-backend/api/responses"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
)

type HealthController struct {
	checks map[string]func(r *http.Request) error
	logg   *logger.Logger
}

func NewHealthController(logg *logger.Logger) *HealthController {
	return &HealthController{checks: map[string]func(r *http.Request) error{}, logg: logg}
}

// AddCheck registers a named readiness dependency.
func (c *HealthController) AddCheck(name string, check func(r *http.Request) error) {
	c.checks[name] = check
}

// Live reports process liveness.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready runs every registered dependency check.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	statuses := map[string]string{}
	healthy := true
	for name, check := range c.checks {
		if err := check(r); err != nil {
			statuses[name] = "unavailable"
			healthy = false
			continue
		}
		statuses[name] = "ok"
	}
	if !healthy {
		responses.WriteError(r.Context(), w, c.logg,
			errors.New(errors.CodeDependency, "dependency unavailable").WithDetails(statuses))
		return
	}
	responses.WriteSuccess(w, http.StatusOK, statuses)
}
