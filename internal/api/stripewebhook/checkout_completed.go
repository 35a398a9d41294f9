package stripewebhooks

import (
	"math"
	"strconv"
	"strings"
	"time"

	"imaginify/internal/actions"
	"imaginify/internal/domain/billing"
	stripeinfra "imaginify/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

// transactionFromSession reads the purchase out of a completed session.
// Missing fields become zero values.
func transactionFromSession(session *stripe.CheckoutSession) actions.CreateTransactionRequest {
	md := session.Metadata
	return actions.CreateTransactionRequest{
		StripeID:  session.ID,
		Amount:    billing.AmountFromMinor(session.AmountTotal),
		Plan:      md[stripeinfra.MetaPlan],
		Credits:   parseCredits(md[stripeinfra.MetaCredits]),
		BuyerID:   md[stripeinfra.MetaBuyerID],
		CreatedAt: time.Now(),
	}
}

// parseCredits accepts any numeric form ("100", " 100", "100.0") and
// truncates toward zero. Anything unparsable counts as 0.
func parseCredits(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
