package stripewebhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"imaginify/internal/actions"
	"imaginify/internal/apperror"
	"imaginify/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "whsec_test"

type captureCreator struct {
	got []actions.CreateTransactionRequest
	err error
}

func (c *captureCreator) CreateTransaction(_ context.Context, req actions.CreateTransactionRequest) (*billing.Transaction, error) {
	c.got = append(c.got, req)
	if c.err != nil {
		return nil, c.err
	}
	return &billing.Transaction{
		ID:       "tx-1",
		StripeID: req.StripeID,
		Amount:   req.Amount,
		Plan:     req.Plan,
		Credits:  req.Credits,
		BuyerID:  req.BuyerID,
	}, nil
}

func sign(payload []byte, key string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func event(typ, object string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","type":%q,"data":{"object":%s}}`, typ, object))
}

func post(t *testing.T, h *Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/webhooks/stripe", h.StripeWebhook)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestCheckoutCompletedRecordsTransaction(t *testing.T) {
	creator := &captureCreator{}
	h := NewHandler(secret, creator, quiet())
	payload := event("checkout.session.completed",
		`{"id":"cs_1","object":"checkout.session","amount_total":1999,"metadata":{"plan":"pro","credits":"100","buyerId":"u1"}}`)

	w := post(t, h, payload, sign(payload, secret))

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, creator.got, 1)
	got := creator.got[0]
	assert.Equal(t, "cs_1", got.StripeID)
	assert.Equal(t, 19.99, got.Amount)
	assert.Equal(t, 100, got.Credits)
	assert.Equal(t, "pro", got.Plan)
	assert.Equal(t, "u1", got.BuyerID)
	assert.False(t, got.CreatedAt.IsZero())

	var body struct {
		Message     string              `json:"message"`
		Transaction billing.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Message)
	assert.Equal(t, "cs_1", body.Transaction.StripeID)
}

func TestCheckoutCompletedDefaultsMissingFields(t *testing.T) {
	creator := &captureCreator{}
	h := NewHandler(secret, creator, quiet())
	payload := event("checkout.session.completed", `{"id":"cs_2","object":"checkout.session"}`)

	w := post(t, h, payload, sign(payload, secret))

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, creator.got, 1)
	got := creator.got[0]
	assert.Zero(t, got.Amount)
	assert.Zero(t, got.Credits)
	assert.Empty(t, got.Plan)
	assert.Empty(t, got.BuyerID)
}

func TestParseCredits(t *testing.T) {
	for raw, want := range map[string]int{
		"100":   100,
		" 100 ": 100,
		"100.0": 100,
		"99.9":  99,
		"":      0,
		"lots":  0,
		"NaN":   0,
	} {
		assert.Equal(t, want, parseCredits(raw), "credits %q", raw)
	}
}

// atomicLedger stores nothing when crediting the buyer fails.
type atomicLedger struct {
	rows      []billing.Transaction
	creditErr error
}

func (l *atomicLedger) CreateAndCredit(_ context.Context, t *billing.Transaction) (bool, error) {
	if t.BuyerID != "" && t.Credits != 0 && l.creditErr != nil {
		return false, l.creditErr
	}
	l.rows = append(l.rows, *t)
	return t.BuyerID != "", nil
}

func (l *atomicLedger) ListByBuyer(context.Context, string) ([]billing.Transaction, error) {
	return l.rows, nil
}

func (l *atomicLedger) List(context.Context) ([]billing.Transaction, error) { return l.rows, nil }

func TestCreditFailureLeavesNoTransaction(t *testing.T) {
	ledger := &atomicLedger{creditErr: errors.New("connection reset")}
	h := NewHandler(secret, actions.NewTransactionActions(ledger, nil, quiet()), quiet())
	payload := event("checkout.session.completed",
		`{"id":"cs_9","object":"checkout.session","amount_total":4000,"metadata":{"plan":"Pro Package","credits":"120","buyerId":"0b7e6f3e-7d0c-4a53-9b9e-3f7c2d1a5e11"}}`)

	w := post(t, h, payload, sign(payload, secret))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"OK","transaction":null}`, w.Body.String())
	assert.Empty(t, ledger.rows, "response and stored state agree")
}

func TestBadSignatureStillAnswers200(t *testing.T) {
	creator := &captureCreator{}
	h := NewHandler(secret, creator, quiet())
	payload := event("checkout.session.completed", `{"id":"cs_3","object":"checkout.session"}`)

	w := post(t, h, payload, sign(payload, "whsec_wrong"))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Webhook error", body["message"])
	assert.NotEmpty(t, body["error"])
	assert.Empty(t, creator.got)
}

func TestOtherEventsAnswerEmpty200(t *testing.T) {
	creator := &captureCreator{}
	h := NewHandler(secret, creator, quiet())
	payload := event("invoice.paid", `{"id":"in_1","object":"invoice"}`)

	w := post(t, h, payload, sign(payload, secret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, creator.got)
}

func TestDuplicateDeliveryIsSwallowed(t *testing.T) {
	creator := &captureCreator{err: apperror.Conflict("transaction", "cs_1")}
	h := NewHandler(secret, creator, quiet())
	payload := event("checkout.session.completed", `{"id":"cs_1","object":"checkout.session","amount_total":500}`)

	w := post(t, h, payload, sign(payload, secret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"OK","transaction":null}`, w.Body.String())
}

func TestMissingSecretIs500(t *testing.T) {
	h := NewHandler("", &captureCreator{}, quiet())
	payload := event("checkout.session.completed", `{"id":"cs_1","object":"checkout.session"}`)

	w := post(t, h, payload, sign(payload, secret))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "STRIPE_WEBHOOK_SECRET")
}
