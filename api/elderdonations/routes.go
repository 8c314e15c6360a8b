package elderdonations

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog/log"

	"github.com/hunger-busters/hunger-busters-api/auth"
	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
	"github.com/hunger-busters/hunger-busters-api/util"
)

// Routes creates a new Chi router with all of the routes for the
// elder donation resource, at the root level
func Routes(database db.Provider) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/", Create(database))
	router.Get("/", GetAll(database))

	// Admin-only routes
	router.Group(func(r chi.Router) {
		// Ensure the user has access
		r.Use(auth.AdminAuthenticated)

		r.Put("/{id}/approve", SetApproval(database, true))
		r.Put("/{id}/unapprove", SetApproval(database, false))
		r.Delete("/{id}", Delete(database))
	})
	return router
}

// GetAll gets all elder donation requests from the database,
// most recent first
func GetAll(donationProvider db.ElderDonationProvider) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		donations, err := donationProvider.GetAllElderDonations(r.Context())
		if err != nil {
			util.Error(w, err)
			return
		}

		// Return the list in a JSON object
		util.JSON(w, map[string]interface{}{
			"donations": donations,
		}, http.StatusOK)
	}
}

// Create raises a new elder donation request
func Create(donationProvider db.ElderDonationProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload types.ElderDonationCreate
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

		donation, err := donationProvider.CreateElderDonation(r.Context(), payload.Donation())
		if err != nil {
			log.Error().Err(err).Msg("could not persist elder donation")
			util.ErrorWithCode(w,
				errors.New("Error saving data, Please Submit a Support request if issue persists"),
				http.StatusBadRequest)
			return
		}

		util.JSON(w, map[string]interface{}{
			"message":  "Donation request submitted successfully",
			"donation": donation,
		}, http.StatusCreated)
	}
}

// SetApproval marks an elder donation request as approved or unapproved
func SetApproval(donationProvider db.ElderDonationProvider, approved bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		donation, err := donationProvider.SetElderDonationApproval(r.Context(), id, approved)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.JSON(w, donation, http.StatusOK)
	}
}

// Delete deletes an elder donation request in the database
func Delete(donationProvider db.ElderDonationProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		err := donationProvider.DeleteElderDonation(r.Context(), id)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Message(w, "Donation request deleted successfully", http.StatusOK)
	}
}
