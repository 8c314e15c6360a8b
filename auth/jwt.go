package auth

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/jwtauth"

	"github.com/hunger-busters/hunger-busters-api/env"
	"github.com/hunger-busters/hunger-busters-api/types"
	"github.com/hunger-busters/hunger-busters-api/util"
)

// defaultTokenLifetime is used when no expiry is configured
const defaultTokenLifetime = 24 * time.Hour

// JWTManager contains the secret loaded from the environment
// and issues/verifies the API's session tokens
type JWTManager struct {
	Auth         *jwtauth.JWTAuth
	secret       []byte
	expiresAfter time.Duration
	BypassAuth   bool
}

// NewJWTManager creates a new JWTManager
// and loads the secret from the environment
func NewJWTManager() (*JWTManager, error) {
	jwtSecret, err := env.GetEnv("auth JWT secret key", "AUTH_JWT_SECRET")
	if err != nil {
		return nil, err
	}

	// Try to see if the server should bypass authentication
	bypassAuth := false
	if value, ok := os.LookupEnv("AUTH_BYPASS"); ok {
		if strings.TrimSpace(value) == "1" {
			bypassAuth = true
		}
	}

	expiresAfter := defaultTokenLifetime
	if _, ok := os.LookupEnv("AUTH_JWT_TOKEN_EXPIRES_AFTER"); ok {
		expiresAfter, err = env.GetDurationEnv("auth JWT token lifetime",
			"AUTH_JWT_TOKEN_EXPIRES_AFTER")
		if err != nil {
			return nil, err
		}
	}

	secretBytes := []byte(jwtSecret)

	// Create the instance of the auth used for middleware
	tokenAuth := jwtauth.New("HS256", secretBytes, nil)

	return &JWTManager{
		Auth:         tokenAuth,
		secret:       secretBytes,
		expiresAfter: expiresAfter,
		BypassAuth:   bypassAuth,
	}, nil
}

// IssueToken creates and signs a new JWT for the given session
func (m *JWTManager) IssueToken(session types.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":  session.Email,
		"name": session.Username,
		"role": string(session.Role),
		"iat":  session.IssuedAt.Unix(),
		"exp":  session.IssuedAt.Add(m.expiresAfter).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// SessionFromClaims rebuilds the session a verified token was issued for
func SessionFromClaims(claims jwt.MapClaims) (*types.Session, error) {
	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return nil, errors.New("token claims are missing a subject")
	}

	username, _ := claims["name"].(string)
	roleValue, _ := claims["role"].(string)
	role := types.Role(roleValue)
	if !role.Valid() {
		return nil, errors.New("token claims carry an unknown role")
	}

	session := &types.Session{
		Username: username,
		Email:    email,
		Role:     role,
	}
	if issuedAt, ok := claims["iat"].(float64); ok {
		session.IssuedAt = time.Unix(int64(issuedAt), 0)
	}

	return session, nil
}

type key int

// BypassAuthContextKey is the key to access the BypassAuth boolean field
// on request contexts that are processed by the Authenticated middleware
const BypassAuthContextKey key = iota

// Authenticated handles seeking, verifying, and validating JWT tokens,
// sending appropriate status codes upon failure.
func (m *JWTManager) Authenticated() func(http.Handler) http.Handler {
	// Seek, verify and validate JWT tokens
	verifier := jwtauth.Verify(m.Auth, jwtauth.TokenFromHeader)
	return func(next http.Handler) http.Handler {
		if m.BypassAuth {
			// Skip authentication
			verified := verifier(next)
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// Attach a value to the context
				ctx := context.WithValue(r.Context(), BypassAuthContextKey, true)

				// Pass it through
				verified.ServeHTTP(w, r.WithContext(ctx))
			})
		}

		// Compose the verifier and authenticator functions
		return verifier(authenticator(next))
	}
}

// authenticator rejects requests whose token failed to verify
func authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil || !token.Valid {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RoleAuthenticated ensures that the user's token carries one of the
// given roles before letting the request through
func RoleAuthenticated(roles ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if value, ok := r.Context().Value(BypassAuthContextKey).(bool); ok && value {
				// Skip authorization
				next.ServeHTTP(w, r)
				return
			}

			session, err := FromContext(r.Context())
			if err != nil {
				unauthorized(w)
				return
			}

			for _, role := range roles {
				if session.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			unauthorized(w)
		})
	}
}

// AdminAuthenticated ensures that the user is authorized
// to access admin resources
func AdminAuthenticated(next http.Handler) http.Handler {
	return RoleAuthenticated(types.RoleAdmin)(next)
}

// ExpertAuthenticated ensures that the user is authorized
// to access expert review resources
func ExpertAuthenticated(next http.Handler) http.Handler {
	return RoleAuthenticated(types.RoleAdmin, types.RoleExpert)(next)
}

// FromContext extracts the verified session from the request context
func FromContext(ctx context.Context) (*types.Session, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if token == nil || !token.Valid {
		return nil, errors.New("no verified token on the request")
	}

	return SessionFromClaims(claims)
}

func unauthorized(w http.ResponseWriter) {
	util.ErrorWithCode(w, errors.New("not authorized"), http.StatusUnauthorized)
}
