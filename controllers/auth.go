package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/insurance-rates/authenticator"
	"github.com/blogem/insurance-rates/middleware"
	"github.com/blogem/insurance-rates/userctx"
)

// AuthController handles operator login against the OpenID Connect provider
type AuthController struct {
	provider authenticator.Provider
}

// NewAuthController creates a new auth controller
func NewAuthController(provider authenticator.Provider) *AuthController {
	return &AuthController{provider: provider}
}

// Login handles GET /auth/login
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	state, err := generateRandomState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Save the state in the session to validate in callback
	sess := session.GetSession(r)
	if err := sess.Set("state", state); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store login state")
		return
	}

	http.Redirect(w, r, ac.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles GET /auth/callback
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)

	storedState, _ := sess.Get("state").(string)
	if storedState == "" {
		writeError(w, http.StatusBadRequest, "State not found in session")
		return
	}
	if r.URL.Query().Get("state") != storedState {
		writeError(w, http.StatusBadRequest, "Invalid state parameter")
		return
	}

	token, err := ac.provider.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Failed to exchange authorization code for a token: "+err.Error())
		return
	}

	claims, err := ac.provider.GetClaims(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Failed to verify ID Token: "+err.Error())
		return
	}
	if claims.Subject() == "" {
		writeError(w, http.StatusUnauthorized, "ID token has no subject")
		return
	}

	_ = sess.Set(middleware.SessionUserID, claims.Subject())
	_ = sess.Set(middleware.SessionUserName, claims.DisplayName())
	_ = sess.Delete("state")

	http.Redirect(w, r, "/api/v1/logs", http.StatusSeeOther)
}

// Logout handles GET /auth/logout
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	_ = sess.Delete(middleware.SessionUserID)
	_ = sess.Delete(middleware.SessionUserName)

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me and reports the authenticated operator
func (ac *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"id":   userctx.GetOperatorID(r.Context()),
		"name": userctx.GetOperatorName(r.Context()),
	})
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
