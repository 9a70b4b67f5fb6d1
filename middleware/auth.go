package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/blogem/insurance-rates/authenticator"
	"github.com/blogem/insurance-rates/userctx"
)

// Session keys shared with the auth controller
const (
	SessionUserID   = "user_id"
	SessionUserName = "user_nickname"
)

// RequireOperator admits requests carrying a verified bearer ID token or a
// logged-in session. With a nil provider every request is admitted.
func RequireOperator(provider authenticator.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if provider == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw, ok := bearerToken(r); ok {
				claims, err := provider.VerifyIDToken(r.Context(), raw)
				if err != nil {
					unauthorized(w, "Invalid bearer token")
					return
				}
				ctx := userctx.SetOperator(r.Context(), claims.Subject(), claims.DisplayName())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			sess := session.GetSession(r)
			if sess == nil {
				unauthorized(w, "Authentication required")
				return
			}
			userID, _ := sess.Get(SessionUserID).(string)
			if userID == "" {
				unauthorized(w, "Authentication required")
				return
			}
			userName, _ := sess.Get(SessionUserName).(string)

			ctx := userctx.SetOperator(r.Context(), userID, userName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="logsvc"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
