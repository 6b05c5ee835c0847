// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	custdom "simo/internal/domain/customer"
)

// FirebaseAuthClient is an alias for the firebase auth client so callers can
// depend on *middleware.FirebaseAuthClient.
type FirebaseAuthClient = fbauth.Client

// context keys are private struct values; other packages cannot construct
// them, so they cannot collide with ours
type ctxKey struct{ name string }

var (
	ctxKeyUID   = ctxKey{name: "uid"}
	ctxKeyEmail = ctxKey{name: "email"}
	ctxKeyRole  = ctxKey{name: "role"}
)

// AuthMiddleware verifies
//
//   - Authorization: Bearer <ID_TOKEN>
//
// and injects uid/email/role into the request context. The role comes from
// the customer document; a missing document means a first-time customer.
type AuthMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
	Customers    custdom.Repository
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if m.FirebaseAuth == nil || m.Customers == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUID, uid)

		if emailRaw, ok := token.Claims["email"]; ok {
			if e, ok2 := emailRaw.(string); ok2 && strings.TrimSpace(e) != "" {
				ctx = context.WithValue(ctx, ctxKeyEmail, strings.TrimSpace(e))
			}
		}

		// uid -> Customer. No document yet is fine: the profile is created
		// on first checkout, and a first-timer is never an admin.
		role := custdom.RoleCustomer
		c, err := m.Customers.GetByID(r.Context(), uid)
		switch {
		case err == nil:
			role = c.Role
		case errors.Is(err, custdom.ErrNotFound):
			// keep default role
		default:
			log.Printf("[auth] WARN: customer lookup failed uid=%s: %v", uid, err)
		}
		ctx = context.WithValue(ctx, ctxKeyRole, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose context role is not admin. Must run
// inside AuthMiddleware.Handler.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r) {
			http.Error(w, "forbidden: admin only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUserID returns the verified Firebase UID for the request.
func CurrentUserID(r *http.Request) (string, bool) {
	v := r.Context().Value(ctxKeyUID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// CurrentEmail returns the token email when present.
func CurrentEmail(r *http.Request) (string, bool) {
	v := r.Context().Value(ctxKeyEmail)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// IsAdmin reports whether the request carries the admin role.
func IsAdmin(r *http.Request) bool {
	v := r.Context().Value(ctxKeyRole)
	role, ok := v.(custdom.Role)
	return ok && role == custdom.RoleAdmin
}
