package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"imaginify/internal/apperror"
	"imaginify/internal/domain/billing"
	"imaginify/internal/domain/plans"
	"imaginify/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type UserStore interface {
	List(ctx context.Context) ([]users.User, error)
	FindByID(ctx context.Context, id string) (*users.User, error)
	Count(ctx context.Context) (int64, error)
	CountByPlan(ctx context.Context) (map[string]int, error)
}

type Ledger interface {
	List(ctx context.Context) ([]billing.Transaction, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]billing.Transaction, error)
	Revenue(ctx context.Context, since time.Time) (total, recent float64, err error)
}

type AdminUser struct {
	ID            string    `json:"id"`
	ClerkID       string    `json:"clerk_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	PlanName      *string   `json:"plan_name,omitempty"`
	CreditBalance int       `json:"credit_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

type AdminTransaction struct {
	ID        string  `json:"id"`
	StripeID  string  `json:"stripe_id"`
	BuyerID   string  `json:"buyer_id"`
	Plan      string  `json:"plan"`
	Credits   int     `json:"credits"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers    int            `json:"total_users"`
	TotalRevenue  float64        `json:"total_revenue"`
	RecentRevenue float64        `json:"recent_revenue"`
	UsersPerPlan  map[string]int `json:"users_per_plan"`
}

type Handler struct {
	users  UserStore
	ledger Ledger
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(users UserStore, ledger Ledger, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{users: users, ledger: ledger, logger: logger, now: time.Now}
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func planName(id string) *string {
	if p, ok := plans.Find(id); ok {
		return &p.Name
	}
	return nil
}

func (h *Handler) ListAllUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load users", err)
		return
	}

	adminUsers := make([]AdminUser, 0, len(list))
	for _, u := range list {
		adminUsers = append(adminUsers, AdminUser{
			ID:            u.ID,
			ClerkID:       u.ClerkID,
			Username:      u.Username,
			Email:         u.Email,
			Role:          u.Role,
			PlanName:      planName(u.PlanID),
			CreditBalance: u.CreditBalance,
			CreatedAt:     u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

func toAdminTransactions(list []billing.Transaction) []AdminTransaction {
	result := make([]AdminTransaction, 0, len(list))
	for _, t := range list {
		result = append(result, AdminTransaction{
			ID:        t.ID,
			StripeID:  t.StripeID,
			BuyerID:   t.BuyerID,
			Plan:      t.Plan,
			Credits:   t.Credits,
			Amount:    t.Amount,
			CreatedAt: t.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return result
}

func (h *Handler) ListAllTransactions(c *gin.Context) {
	list, err := h.ledger.List(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load transactions", err)
		return
	}

	c.JSON(http.StatusOK, toAdminTransactions(list))
}

func (h *Handler) GetAdminStats(c *gin.Context) {
	ctx := c.Request.Context()

	totalUsers, err := h.users.Count(ctx)
	if err != nil {
		h.fail(c, "Failed to load stats", err)
		return
	}

	thirtyDaysAgo := h.now().AddDate(0, 0, -30)
	totalRevenue, recentRevenue, err := h.ledger.Revenue(ctx, thirtyDaysAgo)
	if err != nil {
		h.fail(c, "Failed to load stats", err)
		return
	}

	counts, err := h.users.CountByPlan(ctx)
	if err != nil {
		h.fail(c, "Failed to load stats", err)
		return
	}

	stats := AdminStats{
		TotalUsers:    int(totalUsers),
		TotalRevenue:  totalRevenue,
		RecentRevenue: recentRevenue,
		UsersPerPlan:  map[string]int{},
	}
	for id, n := range counts {
		name := "No Plan"
		if p := planName(id); p != nil {
			name = *p
		}
		stats.UsersPerPlan[name] += n
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetUserDetails(c *gin.Context) {
	userID := c.Param("id")

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.fail(c, "Failed to load user", err)
		return
	}

	transactions, err := h.ledger.ListByBuyer(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "Failed to fetch transactions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"transactions": toAdminTransactions(transactions),
	})
}
