package api

import (
	"errors"
	"net/http"

	"github.com/platinummonkey/warden/pkg/auth"
	"github.com/platinummonkey/warden/pkg/httputil"
)

// loginRequest is the login payload
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the issued token plus the identity summary the
// dashboard shows after sign-in.
type loginResponse struct {
	AccessToken    string `json:"access_token"`
	TokenType      string `json:"token_type"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	UserID         string `json:"user_id"`
	TenantID       string `json:"tenant_id"`
	OrganizationID string `json:"organization_id"`
}

// login authenticates an email/password pair and issues a bearer token.
// Unknown email and wrong password answer identically so the response
// never reveals which accounts exist.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	claims, err := s.directory.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Only a credential mismatch answers 401; a storage or lookup
		// failure is the server's fault and must not masquerade as one.
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.WithError(err).Error("authentication lookup failed")
			httputil.WriteInternalError(w, err)
			return
		}
		if s.metrics != nil {
			s.metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		}
		httputil.WriteUnauthorized(w, "Invalid credentials")
		return
	}

	token, err := s.tokenManager.Issue(*claims)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue token")
		httputil.WriteInternalError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
		s.metrics.TokensIssuedTotal.Inc()
	}

	httputil.WriteMessage(w, http.StatusOK, "Login successful", loginResponse{
		AccessToken:    token,
		TokenType:      "bearer",
		Name:           claims.Name,
		Email:          claims.Email,
		UserID:         claims.UserID,
		TenantID:       claims.TenantID,
		OrganizationID: claims.OrganizationID,
	})
}
