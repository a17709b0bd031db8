package http

import (
	"net/http"
	"time"

	"github.com/agencydesk/onboard/internal/onboard/store"
	"github.com/agencydesk/onboard/pkg/httpx"
)

// ReadyzHandler reports database connectivity and whether the onboarding
// schema is present. A missing schema degrades readiness but the service
// still serves the legacy invite path.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{
			Database: "ok",
			Schema:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		supported, err := st.SupportsOnboarding(r.Context())
		switch {
		case err != nil:
			checks.Schema = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		case !supported:
			checks.Schema = "legacy"
		}

		httpx.WriteJSON(w, statusCode, HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
