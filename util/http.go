package util

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/payments"
	"github.com/hunger-busters/hunger-busters-api/types"
)

// ResponseCodeFromError resolves a status code from an error
func ResponseCodeFromError(err error) int {
	switch err.(type) {
	case *types.ValidationError:
		return http.StatusBadRequest
	case *types.InvalidTransitionError:
		return http.StatusBadRequest
	case *db.NotFoundError:
		return http.StatusNotFound
	case *payments.NoCustomerError:
		return http.StatusNotFound
	case *db.DuplicateEmailError:
		return http.StatusConflict
	case *db.ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error creates a standardized error response,
// resolving the status code from the error's type
func Error(w http.ResponseWriter, originalError error) {
	ErrorWithCode(w, originalError, ResponseCodeFromError(originalError))
}

// ErrorWithCode creates a standardized error response with a status code
func ErrorWithCode(w http.ResponseWriter, originalError error, statusCode int) {
	// Unexpected failures get logged server-side;
	// the client only ever sees the generic message
	if statusCode == http.StatusInternalServerError {
		log.Error().Err(originalError).Msg("internal error while serving request")
	}

	response := types.ErrorResponse{
		Message: fmt.Sprint(originalError),
	}

	jsonResponse, err := json.Marshal(response)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonResponse)
}

// Message writes a standardized `{"message": ...}` JSON body
// with the given status code
func Message(w http.ResponseWriter, message string, statusCode int) {
	jsonResponse, err := json.Marshal(types.MessageResponse{
		Message: message,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonResponse)
}

// JSON marshals a value and writes it with the given status code
func JSON(w http.ResponseWriter, value interface{}, statusCode int) {
	jsonResponse, err := json.Marshal(value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonResponse)
}
