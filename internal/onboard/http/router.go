package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/internal/onboard/store"
	"github.com/agencydesk/onboard/pkg/httpx"
	"github.com/agencydesk/onboard/pkg/jwtx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	InvitationService *service.InvitationService
	SessionService    *service.SessionService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvitations()
	r.registerPublic()
	r.registerSessions()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// registerInvitations wires the authenticated staff surface.
func (r *Router) registerInvitations() {
	createHandler := &InvitationCreateHandler{InvitationService: r.InvitationService}
	reviewHandler := &InvitationReviewHandler{InvitationService: r.InvitationService}
	finalizeHandler := &InvitationFinalizeHandler{InvitationService: r.InvitationService}
	cancelHandler := &InvitationCancelHandler{InvitationService: r.InvitationService}
	resetHandler := &InvitationResetHandler{InvitationService: r.InvitationService}
	listHandler := &InvitationListHandler{InvitationService: r.InvitationService}
	fieldsHandler := &InvitationFieldsHandler{}

	// POST /v1/invitations - moderate rate limit by user (staff operation)
	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(createHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("invite:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /v1/invitations/{id}/review - review payloads carry bank details,
	// so only invite:review holders may submit them
	r.Mux.Handle("POST /v1/invitations/{id}/review",
		httpx.Chain(reviewHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("invite:review"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /v1/invitations/{id}/finalize - creates the account
	r.Mux.Handle("POST /v1/invitations/{id}/finalize",
		httpx.Chain(finalizeHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("invite:review"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /v1/invitations/{id}/cancel
	r.Mux.Handle("POST /v1/invitations/{id}/cancel",
		httpx.Chain(cancelHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("invite:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /v1/invitations/{id}/reset - reissues the token and resends email
	r.Mux.Handle("POST /v1/invitations/{id}/reset",
		httpx.Chain(resetHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("invite:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /v1/invitations?team_id= - dashboard listing, lenient by user
	r.Mux.Handle("GET /v1/invitations",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("invite:read"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// GET /v1/invitations/fields?role= - static policy lookup
	r.Mux.Handle("GET /v1/invitations/fields",
		httpx.Chain(fieldsHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("invite:read"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

// registerPublic wires the anonymous invitee surface. Both endpoints take the
// opaque token, so they get strict per-IP limits against enumeration.
func (r *Router) registerPublic() {
	validateHandler := &InvitationValidateHandler{InvitationService: r.InvitationService}
	submitHandler := &InvitationSubmitHandler{InvitationService: r.InvitationService}

	r.Mux.Handle("GET /v1/invitations/validate",
		httpx.Chain(validateHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/invitations/submit",
		httpx.Chain(submitHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSessions() {
	sessionHandler := &SessionHandler{SessionService: r.SessionService}

	// POST /v1/sessions - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(sessionHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
