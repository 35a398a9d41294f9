package admin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"imaginify/internal/apperror"
	"imaginify/internal/domain/billing"
	"imaginify/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers []users.User

func (m memUsers) List(context.Context) ([]users.User, error) { return m, nil }

func (m memUsers) FindByID(_ context.Context, id string) (*users.User, error) {
	for i := range m {
		if m[i].ID == id {
			return &m[i], nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (m memUsers) Count(context.Context) (int64, error) { return int64(len(m)), nil }

func (m memUsers) CountByPlan(context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, u := range m {
		out[u.PlanID]++
	}
	return out, nil
}

type memLedger struct {
	list  []billing.Transaction
	since time.Time
}

func (m *memLedger) List(context.Context) ([]billing.Transaction, error) { return m.list, nil }

func (m *memLedger) ListByBuyer(_ context.Context, buyerID string) ([]billing.Transaction, error) {
	var out []billing.Transaction
	for _, t := range m.list {
		if t.BuyerID == buyerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memLedger) Revenue(_ context.Context, since time.Time) (float64, float64, error) {
	m.since = since
	var total, recent float64
	for _, t := range m.list {
		total += t.Amount
		if !t.CreatedAt.Before(since) {
			recent += t.Amount
		}
	}
	return total, recent, nil
}

func fixture() (*Handler, *memLedger) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	free := users.New("c1", "a@example.com", "a")
	free.ID = "u1"
	pro := users.New("c2", "b@example.com", "b")
	pro.ID = "u2"
	pro.PlanID = "2"
	ledger := &memLedger{list: []billing.Transaction{
		{ID: "t1", StripeID: "cs_1", BuyerID: "u2", Amount: 40, CreatedAt: now.AddDate(0, -2, 0)},
		{ID: "t2", StripeID: "cs_2", BuyerID: "u2", Amount: 199, CreatedAt: now.AddDate(0, 0, -3)},
	}}
	h := NewHandler(memUsers{free, pro}, ledger, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.now = func() time.Time { return now }
	return h, ledger
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/users", h.ListAllUsers)
	r.GET("/admin/users/:id", h.GetUserDetails)
	r.GET("/admin/transactions", h.ListAllTransactions)
	r.GET("/admin/stats", h.GetAdminStats)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGetAdminStats(t *testing.T) {
	h, _ := fixture()

	w := serve(h, "/admin/stats")

	require.Equal(t, http.StatusOK, w.Code)
	var stats AdminStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 239.0, stats.TotalRevenue)
	assert.Equal(t, 199.0, stats.RecentRevenue)
	assert.Equal(t, map[string]int{"Free": 1, "Pro Package": 1}, stats.UsersPerPlan)
}

func TestListAllUsers(t *testing.T) {
	h, _ := fixture()

	w := serve(h, "/admin/users")

	require.Equal(t, http.StatusOK, w.Code)
	var got []AdminUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.NotNil(t, got[1].PlanName)
	assert.Equal(t, "Pro Package", *got[1].PlanName)
}

func TestListAllTransactions(t *testing.T) {
	h, _ := fixture()

	w := serve(h, "/admin/transactions")

	require.Equal(t, http.StatusOK, w.Code)
	var got []AdminTransaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2024-06-27 12:00", got[1].CreatedAt)
}

func TestGetUserDetails(t *testing.T) {
	h, _ := fixture()

	w := serve(h, "/admin/users/u2")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Transactions []AdminTransaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Transactions, 2)

	assert.Equal(t, http.StatusNotFound, serve(h, "/admin/users/nobody").Code)
}
