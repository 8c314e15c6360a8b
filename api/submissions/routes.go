package submissions

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

// Routes creates a new Chi router with all of the routes
// for the food submission resource, at the root level
func Routes(database db.Provider) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/post", Create(database))
	router.Get("/get/{id}", GetSingle(database))
	router.Put("/put/{id}", Update(database))
	router.Delete("/delete/{id}", Delete(database))

	// Expert-only routes
	router.Group(func(r chi.Router) {
		// Ensure the user has review access
		r.Use(auth.ExpertAuthenticated)

		r.Put("/put/submit/{id}", Submit(database))
		r.Get("/get/dashboard-data", Dashboard(database))
		r.Get("/get/analytics", Analytics(database))
		r.Get("/get/food-data", FoodData(database))
	})
	return router
}

// decodeError translates a body decode failure into the field's
// validation message where one exists
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "foodLifeTime" {
		return types.NewValidationError("Food life time must be a number.")
	}

	return err
}

// Create creates a new food submission in the database
func Create(submissionProvider db.SubmissionProvider) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		var payload types.SubmissionCreate
		err := json.NewDecoder(r.Body).Decode(&payload)
		if err != nil {
			util.ErrorWithCode(w, decodeError(err), http.StatusBadRequest)
			return
		}

		err = payload.Validate()
		if err != nil {
			util.Error(w, err)
			return
		}

		err = submissionProvider.CreateSubmission(r.Context(), payload.Submission())
		if err != nil {
			log.Error().Err(err).Msg("could not persist submission")
			util.ErrorWithCode(w,
				errors.New("Error saving data, Please Submit a Support request if issue persists"),
				http.StatusBadRequest)
			return
		}

		util.JSON(w, "saved successfully !", http.StatusCreated)
	}
}

// GetSingle gets a single food submission from the database by its ID,
// with the internal fields projected out
func GetSingle(submissionProvider db.SubmissionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		submission, err := submissionProvider.GetSubmission(r.Context(), id)
		if err != nil {
			if util.ResponseCodeFromError(err) == http.StatusInternalServerError {
				log.Error().Err(err).Msg("could not fetch submission")
				util.ErrorWithCode(w,
					errors.New("Error retrieving Data, Please Submit a Support request if issue persists"),
					http.StatusInternalServerError)
				return
			}
			util.Error(w, err)
			return
		}

		util.JSON(w, submission.Detail(), http.StatusOK)
	}
}

// Update replaces the mutable fields of an existing food submission,
// applying the same validation as creation
func Update(submissionProvider db.SubmissionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		var payload types.SubmissionCreate
		err := json.NewDecoder(r.Body).Decode(&payload)
		if err != nil {
			util.ErrorWithCode(w, decodeError(err), http.StatusBadRequest)
			return
		}

		err = payload.Validate()
		if err != nil {
			util.Error(w, err)
			return
		}

		// Unlike creation, a full update names its target status explicitly
		if payload.Status == "" {
			util.Error(w, types.NewValidationError("Status is invalid. Choose a valid status."))
			return
		}

		updated, err := submissionProvider.UpdateSubmission(r.Context(), id, payload)
		if err != nil {
			if util.ResponseCodeFromError(err) == http.StatusInternalServerError {
				log.Error().Err(err).Msg("could not update submission")
				util.ErrorWithCode(w,
					errors.New("Error updating Item, Please Submit a Support request if issue persists"),
					http.StatusBadRequest)
				return
			}
			util.Error(w, err)
			return
		}

		util.JSON(w, updated, http.StatusOK)
	}
}

// Submit applies the restricted submit transition to a food submission,
// which only ever touches the status and shelf life
func Submit(submissionProvider db.SubmissionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		var payload types.SubmissionSubmit
		err := json.NewDecoder(r.Body).Decode(&payload)
		if err != nil {
			util.ErrorWithCode(w, decodeError(err), http.StatusBadRequest)
			return
		}

		err = payload.Validate()
		if err != nil {
			util.Error(w, err)
			return
		}

		_, err = submissionProvider.SubmitSubmission(r.Context(), id,
			payload.Status, *payload.FoodLifeTime)
		if err != nil {
			if util.ResponseCodeFromError(err) == http.StatusInternalServerError {
				log.Error().Err(err).Msg("could not submit submission")
				util.ErrorWithCode(w,
					errors.New("Error updating Item, Please submit a support request if the issue persists."),
					http.StatusInternalServerError)
				return
			}
			util.Error(w, err)
			return
		}

		util.Message(w, "Successfully submitted the item", http.StatusOK)
	}
}

// Delete deletes a food submission in the database
func Delete(submissionProvider db.SubmissionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		err := submissionProvider.DeleteSubmission(r.Context(), id)
		if err != nil {
			if util.ResponseCodeFromError(err) == http.StatusInternalServerError {
				log.Error().Err(err).Msg("could not delete submission")
				util.ErrorWithCode(w,
					errors.New("Error deleting Item, Please Submit a Support request if issue persists"),
					http.StatusInternalServerError)
				return
			}
			util.Error(w, err)
			return
		}

		util.Message(w, "Submission deleted successfully", http.StatusOK)
	}
}
