package store

import (
	"context"
	"errors"
	"time"

	"imaginify/database"
	"imaginify/internal/apperror"
	"imaginify/internal/domain/billing"

	"gorm.io/gorm"
)

type Transactions struct {
	db database.Connector
}

func NewTransactions(db database.Connector) *Transactions {
	return &Transactions{db: db}
}

// CreateAndCredit inserts t and adds t.Credits to the buyer in one database
// transaction. There is no lookup for an existing row; a repeated StripeID
// fails on the unique index. A buyer that does not exist leaves the row in
// place and credited false; any other failure rolls the insert back.
func (s *Transactions) CreateAndCredit(ctx context.Context, t *billing.Transaction) (credited bool, err error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return false, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return translate(err, "transaction", t.StripeID)
		}
		if t.BuyerID == "" || t.Credits == 0 {
			return nil
		}
		switch err := addCredits(tx, t.BuyerID, t.Credits); {
		case errors.Is(err, apperror.ErrNotFound):
			return nil
		case err != nil:
			return err
		}
		credited = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return credited, nil
}

func (s *Transactions) ListByBuyer(ctx context.Context, buyerID string) ([]billing.Transaction, error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var list []billing.Transaction
	err = db.Where("buyer_id = ?", buyerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (s *Transactions) List(ctx context.Context) ([]billing.Transaction, error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var list []billing.Transaction
	err = db.Order("created_at DESC").Find(&list).Error
	return list, err
}

// Revenue sums all amounts, and those created at or after since.
func (s *Transactions) Revenue(ctx context.Context, since time.Time) (total, recent float64, err error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return 0, 0, err
	}
	if err = db.Model(&billing.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, 0, err
	}
	err = db.Model(&billing.Transaction{}).
		Where("created_at >= ?", since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&recent).Error
	return total, recent, err
}
