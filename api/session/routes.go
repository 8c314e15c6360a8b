package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/crypto/bcrypt"

	"github.com/hunger-busters/hunger-busters-api/auth"
	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
	"github.com/hunger-busters/hunger-busters-api/util"
)

// Routes creates a new Chi router with the login and session-inspection
// routes, at the root level
func Routes(database db.Provider, jwtManager *auth.JWTManager) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/login", Login(database, jwtManager))

	// Authenticated routes
	router.Group(func(r chi.Router) {
		// Ensure the user has access
		r.Use(jwtManager.Authenticated())

		r.Get("/session", GetSession())
	})
	return router
}

// Login verifies the supplied credentials and issues a signed JWT
func Login(userProvider db.UserProvider, jwtManager *auth.JWTManager) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials types.Credentials
		err := json.NewDecoder(r.Body).Decode(&credentials)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		if credentials.Email == "" || credentials.Password == "" {
			util.Error(w, types.NewValidationError("Email and password are required."))
			return
		}

		user, err := userProvider.GetUserByEmail(r.Context(), credentials.Email)
		if err != nil {
			// Do not reveal whether the account exists
			invalidCredentials(w)
			return
		}

		err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password))
		if err != nil {
			invalidCredentials(w)
			return
		}

		session := types.Session{
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
			IssuedAt: time.Now(),
		}
		token, err := jwtManager.IssueToken(session)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.JSON(w, map[string]interface{}{
			"token":   token,
			"session": session,
		}, http.StatusOK)
	}
}

// GetSession returns the session the request's token was issued for.
// When authentication is bypassed and no token was sent,
// it reports a stand-in admin session instead.
func GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := auth.FromContext(r.Context())
		if err != nil {
			if bypass, ok := r.Context().Value(auth.BypassAuthContextKey).(bool); ok && bypass {
				util.JSON(w, types.Session{
					Username: "bypass",
					Email:    "bypass@localhost",
					Role:     types.RoleAdmin,
					IssuedAt: time.Now(),
				}, http.StatusOK)
				return
			}

			util.ErrorWithCode(w, errors.New("not authorized"), http.StatusUnauthorized)
			return
		}

		util.JSON(w, session, http.StatusOK)
	}
}

func invalidCredentials(w http.ResponseWriter) {
	util.ErrorWithCode(w, errors.New("Invalid email or password"), http.StatusUnauthorized)
}
