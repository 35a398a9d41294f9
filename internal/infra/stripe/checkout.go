package stripe

import (
	"context"
	"strconv"

	"imaginify/internal/apperror"
	"imaginify/internal/domain/plans"

	stripeapi "github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// Metadata keys the webhook reads back from a completed session.
const (
	MetaPlan    = "plan"
	MetaCredits = "credits"
	MetaBuyerID = "buyerId"
)

// CheckoutParams builds a one-off payment session for a credit package.
func CheckoutParams(plan plans.Plan, buyerID, appURL string) *stripeapi.CheckoutSessionParams {
	params := &stripeapi.CheckoutSessionParams{
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		SuccessURL: stripeapi.String(appURL + "/profile"),
		CancelURL:  stripeapi.String(appURL + "/"),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripeapi.String(string(stripeapi.CurrencyUSD)),
					UnitAmount: stripeapi.Int64(plan.UnitAmount()),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String(plan.Name),
					},
				},
				Quantity: stripeapi.Int64(1),
			},
		},
		ClientReferenceID: stripeapi.String(buyerID),
	}
	params.AddMetadata(MetaPlan, plan.Name)
	params.AddMetadata(MetaCredits, strconv.Itoa(plan.Credits))
	params.AddMetadata(MetaBuyerID, buyerID)
	return params
}

// Checkout opens Stripe Checkout sessions with its own key instead of the
// package-level stripe.Key.
type Checkout struct {
	key    string
	appURL string
}

func NewCheckout(key, appURL string) *Checkout {
	return &Checkout{key: key, appURL: appURL}
}

// Create returns the hosted checkout URL for plan.
func (c *Checkout) Create(ctx context.Context, plan plans.Plan, buyerID string) (string, error) {
	if c.key == "" {
		return "", apperror.Configuration("STRIPE_SECRET_KEY")
	}
	if plan.Free() {
		return "", apperror.ValidationFailed("planId", "free plan needs no checkout")
	}

	params := CheckoutParams(plan, buyerID, c.appURL)
	params.Context = ctx
	client := checkoutsession.Client{B: stripeapi.GetBackend(stripeapi.APIBackend), Key: c.key}
	s, err := client.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}
