package users

import (
	"imaginify/internal/domain/plans"
	"imaginify/internal/domain/users"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		ClerkID:       u.ClerkID,
		Email:         u.Email,
		Username:      u.Username,
		FirstName:     stringPtrIfNotEmpty(u.FirstName),
		LastName:      stringPtrIfNotEmpty(u.LastName),
		Photo:         stringPtrIfNotEmpty(u.Photo),
		Role:          u.Role,
		CreditBalance: u.CreditBalance,
		CreatedAt:     u.CreatedAt,
	}
}

// BuildPlanDTO returns nil for a plan id the catalog no longer has.
func BuildPlanDTO(planID string) *PlanDTO {
	p, ok := plans.Find(planID)
	if !ok {
		return nil
	}
	return &PlanDTO{
		ID:      p.ID,
		Name:    p.Name,
		Price:   p.Price,
		Credits: p.Credits,
	}
}

func stringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
