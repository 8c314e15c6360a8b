package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
	"github.com/hunger-busters/hunger-busters-api/util"
)

// Routes creates a new Chi router with all of the routes for the user
// resource, at the root level
func Routes(database db.Provider) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/", Register(database))
	return router
}

// Register creates a new user account with a hashed password
func Register(userProvider db.UserProvider) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		var payload types.UserCreate
		err := json.NewDecoder(r.Body).Decode(&payload)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		err = payload.Validate()
		if err != nil {
			util.Error(w, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("could not hash password")
			util.Error(w, errors.New("Error saving data, Please Submit a Support request if issue persists"))
			return
		}

		user, err := userProvider.CreateUser(r.Context(), payload.User(string(hash)))
		if err != nil {
			util.Error(w, err)
			return
		}

		util.JSON(w, map[string]interface{}{
			"message": "User registered successfully",
			"user":    user,
		}, http.StatusCreated)
	}
}
