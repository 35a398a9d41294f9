package stripe

import (
	"imaginify/internal/apperror"

	stripeapi "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const EventCheckoutCompleted = "checkout.session.completed"

// VerifyEvent checks the Stripe-Signature header against secret and decodes
// the event. The account's API version is not compared with the library's.
func VerifyEvent(payload []byte, header, secret string) (stripeapi.Event, error) {
	if secret == "" {
		return stripeapi.Event{}, apperror.Configuration("STRIPE_WEBHOOK_SECRET")
	}
	event, err := webhook.ConstructEventWithOptions(payload, header, secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return stripeapi.Event{}, apperror.Signature(err)
	}
	return event, nil
}
