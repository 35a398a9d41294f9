package store

import (
	"context"

	"imaginify/database"
	"imaginify/internal/apperror"
	"imaginify/internal/domain/users"

	"gorm.io/gorm"
)

type Users struct {
	db database.Connector
}

func NewUsers(db database.Connector) *Users {
	return &Users{db: db}
}

func (s *Users) Create(ctx context.Context, u *users.User) error {
	db, err := conn(ctx, s.db)
	if err != nil {
		return err
	}
	return translate(db.Create(u).Error, "user", u.ClerkID)
}

func (s *Users) FindByID(ctx context.Context, id string) (*users.User, error) {
	if !validID(id) {
		return nil, apperror.NotFound("user", id)
	}
	return s.first(ctx, "id = ?", id)
}

func (s *Users) FindByClerkID(ctx context.Context, clerkID string) (*users.User, error) {
	return s.first(ctx, "clerk_id = ?", clerkID)
}

func (s *Users) first(ctx context.Context, where string, key string) (*users.User, error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var u users.User
	if err := db.Where(where, key).First(&u).Error; err != nil {
		return nil, translate(err, "user", key)
	}
	return &u, nil
}

func (s *Users) UpdateByClerkID(ctx context.Context, clerkID string, upd users.Update) (*users.User, error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	res := db.Model(&users.User{}).
		Where("clerk_id = ?", clerkID).
		Updates(map[string]interface{}{
			"first_name": upd.FirstName,
			"last_name":  upd.LastName,
			"username":   upd.Username,
			"photo":      upd.Photo,
		})
	if res.Error != nil {
		return nil, translate(res.Error, "user", clerkID)
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "user", clerkID)
	}
	return s.FindByClerkID(ctx, clerkID)
}

// AddCredits changes the balance by delta in one statement.
func (s *Users) AddCredits(ctx context.Context, id string, delta int) (*users.User, error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if err := addCredits(db, id, delta); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// addCredits runs the balance update on db, which may be a transaction.
func addCredits(db *gorm.DB, id string, delta int) error {
	if !validID(id) {
		return apperror.NotFound("user", id)
	}
	res := db.Model(&users.User{}).
		Where("id = ?", id).
		Update("credit_balance", gorm.Expr("credit_balance + ?", delta))
	if res.Error != nil {
		return translate(res.Error, "user", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user", id)
	}
	return nil
}

func (s *Users) List(ctx context.Context) ([]users.User, error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var list []users.User
	if err := db.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Users) Count(ctx context.Context) (int64, error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.Model(&users.User{}).Count(&n).Error
	return n, err
}

// CountByPlan groups users by plan id.
func (s *Users) CountByPlan(ctx context.Context) (map[string]int, error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	type planCount struct {
		PlanID string
		Count  int
	}
	var rows []planCount
	if err := db.Model(&users.User{}).
		Select("plan_id, COUNT(id) AS count").
		Group("plan_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.PlanID] = r.Count
	}
	return out, nil
}
