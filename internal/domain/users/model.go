package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPlanID        = "1"
	DefaultCreditBalance = 10
	RoleUser             = "user"
	RoleAdmin            = "admin"
)

// User mirrors an identity managed by Clerk. Rows are created from the Clerk
// user.created webhook and never deleted here.
type User struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	ClerkID   string `gorm:"not null;uniqueIndex:idx_users_clerk_id" json:"clerkId"`
	Email     string `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Username  string `gorm:"not null;uniqueIndex:idx_users_username" json:"username"`
	Photo     string `json:"photo,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`

	PlanID        string `gorm:"not null;default:'1'" json:"planId"`
	CreditBalance int    `gorm:"not null;default:10" json:"creditBalance"`
	Role          string `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns a user carrying the column defaults, so callers see the same
// values the database would assign.
func New(clerkID, email, username string) User {
	return User{
		ClerkID:       clerkID,
		Email:         email,
		Username:      username,
		PlanID:        DefaultPlanID,
		CreditBalance: DefaultCreditBalance,
		Role:          RoleUser,
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Update carries the profile fields Clerk can change.
type Update struct {
	FirstName string
	LastName  string
	Username  string
	Photo     string
}
