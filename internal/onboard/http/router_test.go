package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agencydesk/onboard/internal/onboard/domain"
	"github.com/agencydesk/onboard/internal/onboard/mail"
	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/internal/onboard/store"
	"github.com/agencydesk/onboard/internal/onboard/store/drivers/sqlite"
	"github.com/agencydesk/onboard/pkg/cryptox"
	"github.com/agencydesk/onboard/pkg/idx"
	"github.com/agencydesk/onboard/pkg/jwtx"
	"github.com/agencydesk/onboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type nullSender struct{}

func (nullSender) Send(context.Context, mail.Message) error { return nil }

type testEnv struct {
	router  *Router
	store   store.Store
	signer  jwtx.Signer
	manager domain.User
	ipSeq   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slogx.New(slogx.Config{Service: "onboard-test", Format: "text", Level: "error"})

	pub, priv, err := jwtx.GenerateKeyPair()
	require.NoError(t, err)
	signer := jwtx.NewEdDSASigner(priv)

	mailer := &mail.Mailer{Primary: nullSender{}, Logger: logger}

	hash, err := cryptox.HashPassword("Sup3rSecret")
	require.NoError(t, err)

	now := time.Now().UTC()
	manager := domain.User{
		ID:           idx.New().String(),
		Email:        "manager@agency.example",
		Role:         domain.RoleTeamMember,
		TeamID:       "team-alpha",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), manager))

	router := NewRouter(jwtx.NewEdDSAVerifier(pub, "test-issuer"), "test", st, logger)
	router.InvitationService = &service.InvitationService{
		Store:   st,
		Mailer:  mailer,
		BaseURL: "https://onboard.example",
	}
	router.SessionService = &service.SessionService{
		Store:  st,
		Signer: signer,
		Issuer: "test-issuer",
		TTL:    time.Hour,
	}
	router.ApplyRoutes()

	return &testEnv{router: router, store: st, signer: signer, manager: manager}
}

func (e *testEnv) staffToken(t *testing.T, scopes ...string) string {
	t.Helper()

	now := time.Now()
	token, err := e.signer.Sign(jwtx.Claims{
		Subject:   e.manager.ID,
		Issuer:    "test-issuer",
		Scopes:    scopes,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	})
	require.NoError(t, err)
	return token
}

// do issues a request against the router with a unique client IP per call so
// per-IP rate limits never interfere across subtests.
func (e *testEnv) do(t *testing.T, method, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	e.ipSeq++
	req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", e.ipSeq%250+1))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestSessionEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid login returns a bearer token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/sessions", "", LoginRequest{
			Email:    "manager@agency.example",
			Password: "Sup3rSecret",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[LoginResponse](t, rec)
		require.NotEmpty(t, resp.AccessToken)
		require.Equal(t, "Bearer", resp.TokenType)
		require.Equal(t, env.manager.ID, resp.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/sessions", "", LoginRequest{
			Email:    "manager@agency.example",
			Password: "nope",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		resp := decode[ErrorResponse](t, rec)
		require.Equal(t, "invalid_credentials", resp.Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/sessions", "", LoginRequest{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestInvitationCreateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("requires authentication", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations", "", CreateInvitationRequest{})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("requires invite:write scope", func(t *testing.T) {
		token := env.staffToken(t, "invite:read")
		rec := env.do(t, http.MethodPost, "/v1/invitations", token, CreateInvitationRequest{
			Email: "jess@nguyen.example", Role: "client", TeamID: "team-alpha",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("creates an invitation", func(t *testing.T) {
		token := env.staffToken(t, "invite:write")
		rec := env.do(t, http.MethodPost, "/v1/invitations", token, CreateInvitationRequest{
			Email: "jess@nguyen.example", Role: "client", TeamID: "team-alpha",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decode[CreateInvitationResponse](t, rec)
		require.NotNil(t, resp.Invitation)
		require.True(t, resp.Delivered)
		require.False(t, resp.Legacy)
		require.Equal(t, "pending_invitee_response", resp.Invitation.Status)
		require.Equal(t, env.manager.ID, resp.Invitation.InvitedBy)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		token := env.staffToken(t, "invite:write")
		rec := env.do(t, http.MethodPost, "/v1/invitations", token, CreateInvitationRequest{
			Email: "jess2@nguyen.example", Role: "admin", TeamID: "team-alpha",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestInvitationPublicFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.router.InvitationService.CreateInvitation(
		ctx, "jess@nguyen.example", "client", "team-alpha", env.manager.ID,
	)
	require.NoError(t, err)

	t.Run("validate resolves the token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/invitations/validate?token="+created.Token, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[ValidateTokenResponse](t, rec)
		require.Equal(t, "jess@nguyen.example", resp.Email)
		require.Equal(t, "client", resp.Role)
		require.Contains(t, resp.Fields, "phone_number")
		require.NotContains(t, resp.Fields, "abn")
	})

	t.Run("validate rejects an unknown token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/invitations/validate?token=bogus", "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		resp := decode[ErrorResponse](t, rec)
		require.Equal(t, "token_not_found", resp.Error)
	})

	t.Run("submit rejects a malformed phone with all violations", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/submit", "", SubmitFormRequest{
			Token: created.Token,
			Form:  map[string]string{"phone_number": "12345"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decode[ErrorResponse](t, rec)
		require.Equal(t, "validation_failed", resp.Error)
		require.NotEmpty(t, resp.Violations)
	})

	t.Run("submit advances the invitation", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/submit", "", SubmitFormRequest{
			Token: created.Token,
			Form: map[string]string{
				"legal_first_name":         "Jess",
				"legal_last_name":          "Nguyen",
				"phone_number":             "0412 345 678",
				"business_name":            "Nguyen Consulting",
				"position_job_title":       "Director",
				"preferred_contact_method": "email",
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[ValidateTokenResponse](t, rec)
		require.Equal(t, "pending_manager_review", resp.Status)
	})

	t.Run("second submit conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/submit", "", SubmitFormRequest{
			Token: created.Token,
			Form:  map[string]string{},
		})
		require.Equal(t, http.StatusConflict, rec.Code)

		resp := decode[ErrorResponse](t, rec)
		require.Equal(t, "already_submitted", resp.Error)
	})
}

func TestInvitationStaffFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.router.InvitationService.CreateInvitation(
		ctx, "jess@nguyen.example", "client", "team-alpha", env.manager.ID,
	)
	require.NoError(t, err)

	_, err = env.router.InvitationService.SubmitInviteeForm(ctx, created.Token, domain.FormData{
		"legal_first_name":         "Jess",
		"legal_last_name":          "Nguyen",
		"phone_number":             "0412345678",
		"business_name":            "Nguyen Consulting",
		"position_job_title":       "Director",
		"preferred_contact_method": "email",
	})
	require.NoError(t, err)

	id := created.Invitation.ID
	reviewToken := env.staffToken(t, "invite:review")

	t.Run("review requires invite:review", func(t *testing.T) {
		writeOnly := env.staffToken(t, "invite:write")
		rec := env.do(t, http.MethodPost, "/v1/invitations/"+id+"/review", writeOnly, ReviewRequest{})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("review records the internal payload", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/"+id+"/review", reviewToken, ReviewRequest{
			Form: map[string]string{
				"abn":                   "51 824 753 556",
				"acn":                   "004085616",
				"billing_email":         "accounts@nguyen.example",
				"payment_terms":         "net_14",
				"account_manager_notes": "priority",
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[InvitationResponse](t, rec)
		require.Equal(t, "pending_manager_completion", resp.Status)
		require.Equal(t, env.manager.ID, resp.ReviewedBy)
		require.Equal(t, "51824753556", resp.ManagerForm["abn"])
	})

	t.Run("finalize creates the account", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/"+id+"/finalize", reviewToken, FinalizeRequest{
			Password: "Sup3rSecret",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decode[UserResponse](t, rec)
		require.Equal(t, "jess@nguyen.example", resp.Email)
		require.Equal(t, "client", resp.Role)
		require.Equal(t, "team-alpha", resp.TeamID)
	})

	t.Run("finalize again is idempotent", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/"+id+"/finalize", reviewToken, FinalizeRequest{
			Password: "Another1Password",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("review after completion conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/"+id+"/review", reviewToken, ReviewRequest{})
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestInvitationCancelAndReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	writeToken := env.staffToken(t, "invite:write")

	created, err := env.router.InvitationService.CreateInvitation(
		ctx, "jess@nguyen.example", "client", "team-alpha", env.manager.ID,
	)
	require.NoError(t, err)

	t.Run("reset reissues the token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/"+created.Invitation.ID+"/reset", writeToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[CreateInvitationResponse](t, rec)
		require.NotNil(t, resp.Invitation)
		require.Equal(t, "pending_invitee_response", resp.Invitation.Status)

		// The original token no longer resolves
		check := env.do(t, http.MethodGet, "/v1/invitations/validate?token="+created.Token, "", nil)
		require.Equal(t, http.StatusNotFound, check.Code)
	})

	t.Run("cancel marks the invitation cancelled", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/"+created.Invitation.ID+"/cancel", writeToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[InvitationResponse](t, rec)
		require.Equal(t, "cancelled", resp.Status)
	})

	t.Run("cancel again conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/"+created.Invitation.ID+"/cancel", writeToken, nil)
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invitations/"+idx.New().String()+"/cancel", writeToken, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInvitationListAndFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	readToken := env.staffToken(t, "invite:read")

	_, err := env.router.InvitationService.CreateInvitation(
		ctx, "a@nguyen.example", "client", "team-alpha", env.manager.ID,
	)
	require.NoError(t, err)

	t.Run("list requires team_id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/invitations", readToken, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("lists pending invitations with inviter email", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/invitations?team_id=team-alpha", readToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[ListInvitationsResponse](t, rec)
		require.Len(t, resp.Invitations, 1)
		require.Equal(t, env.manager.Email, resp.Invitations[0].InviterEmail)
	})

	t.Run("fields returns the role policy", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/invitations/fields?role=team_member", readToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[FieldPolicyResponse](t, rec)
		require.Contains(t, resp.Public, "emergency_contact_phone")
		require.Contains(t, resp.Internal, "bsb")
	})

	t.Run("fields rejects unknown role", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/invitations/fields?role=admin", readToken, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("livez", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[HealthResponse](t, rec)
		require.Equal(t, "ok", resp.Status)
	})

	t.Run("readyz reports schema as ok", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[HealthResponse](t, rec)
		require.Equal(t, "ok", resp.Status)
		require.NotNil(t, resp.Checks)
		require.Equal(t, "ok", resp.Checks.Database)
		require.Equal(t, "ok", resp.Checks.Schema)
	})
}
