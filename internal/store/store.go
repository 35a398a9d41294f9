// Package store holds the gorm queries behind the action layer. Each store
// asks the connection manager for the shared handle on every call.
package store

import (
	"context"
	"errors"

	"imaginify/database"
	"imaginify/internal/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func conn(ctx context.Context, c database.Connector) (*gorm.DB, error) {
	db, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return db.WithContext(ctx), nil
}

// validID reports whether id can match a uuid primary key. Postgres rejects
// a malformed uuid with a cast error instead of returning no rows.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// translate maps gorm errors onto the application taxonomy.
func translate(err error, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &apperror.AppError{Err: apperror.ErrConflict, Message: apperror.Conflict(resource, id).Message + ": " + err.Error()}
	default:
		return err
	}
}
