package payments

import (
	"context"
	"time"
)

// Subscription is the external representation of a recurring donation
type Subscription struct {
	ID                string    `json:"id"`
	Status            string    `json:"status"`
	CurrentPeriodEnd  time.Time `json:"current_period_end"`
	CancelAtPeriodEnd bool      `json:"cancel_at_period_end"`
}

// Provider represents a payment provider implementation
// for recurring donation subscriptions
type Provider interface {
	ListSubscriptionsByEmail(ctx context.Context, email string) ([]Subscription, error)
	CancelSubscription(ctx context.Context, id string) (*Subscription, error)
}

// NoCustomerError is an error used to encode when no payment customer
// exists for a given email
type NoCustomerError struct {
	Email string
}

// NewNoCustomerError constructs a new NoCustomerError
func NewNoCustomerError(email string) *NoCustomerError {
	return &NoCustomerError{
		Email: email,
	}
}

func (e *NoCustomerError) Error() string {
	return "No customer found with this email"
}
