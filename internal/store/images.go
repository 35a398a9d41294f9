package store

import (
	"context"
	"strings"

	"imaginify/database"
	"imaginify/internal/apperror"
	"imaginify/internal/domain/media"

	"gorm.io/gorm"
)

// publicAuthor loads only the author columns a public page may show.
func publicAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "first_name", "last_name", "photo")
}

type Images struct {
	db database.Connector
}

func NewImages(db database.Connector) *Images {
	return &Images{db: db}
}

func (s *Images) Create(ctx context.Context, img *media.Image) error {
	db, err := conn(ctx, s.db)
	if err != nil {
		return err
	}
	return translate(db.Create(img).Error, "image", img.PublicID)
}

func (s *Images) FindByID(ctx context.Context, id string) (*media.Image, error) {
	if !validID(id) {
		return nil, apperror.NotFound("image", id)
	}
	db, err := conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var img media.Image
	if err := db.Preload("Author", publicAuthor).Where("id = ?", id).First(&img).Error; err != nil {
		return nil, translate(err, "image", id)
	}
	return &img, nil
}

// List returns one page of images, newest first, and the total row count
// matching the query.
func (s *Images) List(ctx context.Context, q media.ListQuery) ([]media.Image, int64, error) {
	db, err := conn(ctx, s.db)
	if err != nil {
		return nil, 0, err
	}

	tx := db.Model(&media.Image{})
	if q.AuthorID != "" {
		tx = tx.Where("author_id = ?", q.AuthorID)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		tx = tx.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []media.Image
	if err := tx.Preload("Author", publicAuthor).
		Order("updated_at DESC").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
