package subscriptions

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi"

	"github.com/hunger-busters/hunger-busters-api/payments"
	"github.com/hunger-busters/hunger-busters-api/types"
	"github.com/hunger-busters/hunger-busters-api/util"
)

// Routes creates a new Chi router with all of the routes for recurring
// donation subscriptions, at the root level
func Routes(paymentsProvider payments.Provider) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/subscriptions", List(paymentsProvider))
	router.Post("/unsubscribe", Cancel(paymentsProvider))
	return router
}

// List gets all subscriptions held by the payment customer
// with the given email
func List(paymentsProvider payments.Provider) http.HandlerFunc {
	// Use a closure to inject the payments provider
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if email == "" {
			util.Error(w, types.NewValidationError("Email is required"))
			return
		}

		subscriptions, err := paymentsProvider.ListSubscriptionsByEmail(r.Context(), email)
		if err != nil {
			util.Error(w, err)
			return
		}

		// Return the list in a JSON object
		util.JSON(w, map[string]interface{}{
			"subscriptions": subscriptions,
		}, http.StatusOK)
	}
}

type cancelRequest struct {
	SubscriptionID string `json:"subscriptionId"`
}

// Cancel cancels a subscription by its payment-provider ID
func Cancel(paymentsProvider payments.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cancelRequest
		err := json.NewDecoder(r.Body).Decode(&payload)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		if payload.SubscriptionID == "" {
			util.Error(w, types.NewValidationError("Subscription ID is required"))
			return
		}

		subscription, err := paymentsProvider.CancelSubscription(r.Context(), payload.SubscriptionID)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.JSON(w, map[string]interface{}{
			"message":      "Subscription cancelled successfully",
			"subscription": subscription,
		}, http.StatusOK)
	}
}
