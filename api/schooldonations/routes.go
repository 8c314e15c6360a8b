package schooldonations

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog/log"

	"github.com/hunger-busters/hunger-busters-api/auth"
	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
	"github.com/hunger-busters/hunger-busters-api/upload"
	"github.com/hunger-busters/hunger-busters-api/util"
)

// multipartMaxMemory bounds how much of a form is buffered in memory
const multipartMaxMemory = 32 << 20

// Routes creates a new Chi router with all of the routes for the
// school donation resource, at the root level
func Routes(database db.Provider, uploadProvider upload.Provider) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/", Create(database, uploadProvider))
	router.Get("/", GetAll(database))

	// Admin-only routes
	router.Group(func(r chi.Router) {
		// Ensure the user has access
		r.Use(auth.AdminAuthenticated)

		r.Put("/{id}/approve", SetApproval(database, true))
		r.Put("/{id}/unapprove", SetApproval(database, false))
	})
	return router
}

// GetAll gets all school donation requests from the database
func GetAll(donationProvider db.SchoolDonationProvider) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		donations, err := donationProvider.GetAllSchoolDonations(r.Context())
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

// Create raises a new school donation request, storing the attached
// student-details document through the upload provider
func Create(donationProvider db.SchoolDonationProvider, uploadProvider upload.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Limit the read size to the configured size
		r.Body = http.MaxBytesReader(w, r.Body, uploadProvider.MaxBytes())

		err := r.ParseMultipartForm(multipartMaxMemory)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		payload := types.SchoolDonationCreate{
			SchoolName:    strings.TrimSpace(r.FormValue("schoolName")),
			ContactNumber: strings.TrimSpace(r.FormValue("contactNumber")),
			PrincipalName: strings.TrimSpace(r.FormValue("principalName")),
			Address:       strings.TrimSpace(r.FormValue("address")),
		}

		file, header, err := r.FormFile("studentDetailsFile")
		if err != nil {
			util.Error(w, payload.Validate(""))
			return
		}
		defer file.Close()

		// Reject incomplete requests before storing the document,
		// so nothing is left behind on failure
		err = payload.Validate(header.Filename)
		if err != nil {
			util.Error(w, err)
			return
		}

		documentPath, err := uploadProvider.Upload(r.Context(), file, header.Filename)
		if err != nil {
			util.Error(w, err)
			return
		}

		donation, err := donationProvider.CreateSchoolDonation(r.Context(),
			payload.Donation(documentPath))
		if err != nil {
			log.Error().Err(err).Msg("could not persist school donation")
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

// SetApproval marks a school donation request as approved or unapproved
func SetApproval(donationProvider db.SchoolDonationProvider, approved bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		donation, err := donationProvider.SetSchoolDonationApproval(r.Context(), id, approved)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.JSON(w, donation, http.StatusOK)
	}
}
