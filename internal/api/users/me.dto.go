package users

import "time"

type MeResponse struct {
	User UserDTO  `json:"user"`
	Plan *PlanDTO `json:"plan"`
}

type UserDTO struct {
	ID            string    `json:"id"`
	ClerkID       string    `json:"clerk_id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	FirstName     *string   `json:"first_name"`
	LastName      *string   `json:"last_name"`
	Photo         *string   `json:"photo"`
	Role          string    `json:"role"`
	CreditBalance int       `json:"credit_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

type PlanDTO struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Credits int     `json:"credits"`
}
