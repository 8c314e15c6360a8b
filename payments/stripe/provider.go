package stripe

import (
	"context"
	"time"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/hunger-busters/hunger-busters-api/env"
	"github.com/hunger-busters/hunger-busters-api/payments"
)

// Provider implements a payment provider against the Stripe API
type Provider struct {
	api *client.API
}

// NewProvider creates a new instance of a Provider
// and loads the secret key from the environment
func NewProvider() (*Provider, error) {
	secretKey, err := env.GetEnv("Stripe secret key", "STRIPE_SECRET_KEY")
	if err != nil {
		return nil, err
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &Provider{
		api: api,
	}, nil
}

// ListSubscriptionsByEmail looks up the Stripe customer for the given email
// and returns their subscriptions
func (p *Provider) ListSubscriptionsByEmail(ctx context.Context,
	email string) ([]payments.Subscription, error) {

	customerParams := &stripego.CustomerListParams{
		Email: stripego.String(email),
	}
	customerParams.Context = ctx

	customers := p.api.Customers.List(customerParams)
	if !customers.Next() {
		if err := customers.Err(); err != nil {
			return nil, err
		}
		return nil, payments.NewNoCustomerError(email)
	}
	customer := customers.Customer()

	subscriptionParams := &stripego.SubscriptionListParams{
		Customer: stripego.String(customer.ID),
	}
	subscriptionParams.Context = ctx

	// Return non-nil slice so JSON serialization is nice
	subscriptions := []payments.Subscription{}
	iter := p.api.Subscriptions.List(subscriptionParams)
	for iter.Next() {
		subscriptions = append(subscriptions, fromStripe(iter.Subscription()))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return subscriptions, nil
}

// CancelSubscription cancels a subscription by its Stripe ID
func (p *Provider) CancelSubscription(ctx context.Context,
	id string) (*payments.Subscription, error) {

	cancelParams := &stripego.SubscriptionCancelParams{}
	cancelParams.Context = ctx

	canceled, err := p.api.Subscriptions.Cancel(id, cancelParams)
	if err != nil {
		return nil, err
	}

	subscription := fromStripe(canceled)
	return &subscription, nil
}

func fromStripe(subscription *stripego.Subscription) payments.Subscription {
	return payments.Subscription{
		ID:                subscription.ID,
		Status:            string(subscription.Status),
		CurrentPeriodEnd:  time.Unix(subscription.CurrentPeriodEnd, 0),
		CancelAtPeriodEnd: subscription.CancelAtPeriodEnd,
	}
}
