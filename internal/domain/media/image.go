package media

import (
	"time"

	"imaginify/internal/domain/transform"
	"imaginify/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Image is a persisted transformation result. It is never updated after
// creation.
type Image struct {
	ID                 string                                        `gorm:"type:uuid;primaryKey" json:"id"`
	Title              string                                        `gorm:"not null" json:"title"`
	TransformationType transform.Kind                                `gorm:"type:varchar(32);not null;index" json:"transformationType"`
	PublicID           string                                        `gorm:"not null" json:"publicId"`
	SecureURL          string                                        `gorm:"not null" json:"secureURL"`
	Width              int                                           `json:"width,omitempty"`
	Height             int                                           `json:"height,omitempty"`
	Config             datatypes.JSONType[transform.Transformations] `gorm:"type:jsonb" json:"config"`
	TransformationURL  string                                        `json:"transformationURL,omitempty"`
	AspectRatio        string                                        `json:"aspectRatio,omitempty"`
	Color              string                                        `json:"color,omitempty"`
	Prompt             string                                        `json:"prompt,omitempty"`

	AuthorID string      `gorm:"type:uuid;not null;index" json:"authorId"`
	// Author is never serialised directly; handlers expose a public view.
	Author *users.User `gorm:"foreignKey:AuthorID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Transformations returns the stored configuration.
func (i Image) Transformations() transform.Transformations {
	return i.Config.Data()
}

// NewImage is the record a client asks to persist; the author is resolved
// by the action layer.
type NewImage struct {
	Title              string                    `json:"title"`
	PublicID           string                    `json:"publicId"`
	TransformationType transform.Kind            `json:"transformationType"`
	Width              int                       `json:"width"`
	Height             int                       `json:"height"`
	Config             transform.Transformations `json:"config"`
	SecureURL          string                    `json:"secureURL"`
	TransformationURL  string                    `json:"transformationURL"`
	AspectRatio        string                    `json:"aspectRatio,omitempty"`
	Prompt             string                    `json:"prompt,omitempty"`
	Color              string                    `json:"color,omitempty"`
}

// Build turns the request into a row owned by authorID.
func (n NewImage) Build(authorID string) Image {
	return Image{
		Title:              n.Title,
		TransformationType: n.TransformationType,
		PublicID:           n.PublicID,
		SecureURL:          n.SecureURL,
		Width:              n.Width,
		Height:             n.Height,
		Config:             datatypes.NewJSONType(n.Config.Clone()),
		TransformationURL:  n.TransformationURL,
		AspectRatio:        n.AspectRatio,
		Color:              n.Color,
		Prompt:             n.Prompt,
		AuthorID:           authorID,
	}
}

// ListQuery selects a page of images. Zero AuthorID lists everyone's.
type ListQuery struct {
	AuthorID string
	Search   string
	Page     int
	Limit    int
}

// Offset returns the row offset of the page (pages start at 1).
func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// TotalPages rounds count up to whole pages of limit.
func TotalPages(count int64, limit int) int {
	if limit <= 0 || count <= 0 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}
