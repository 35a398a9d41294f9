package images

import (
	"imaginify/internal/app/form"
	"imaginify/internal/domain/media"
	"imaginify/internal/domain/transform"
	"imaginify/internal/domain/users"
)

// FormRequest replays the editor's fields in the order a user sets them.
type FormRequest struct {
	Type        transform.Kind             `json:"type" binding:"required"`
	Title       string                     `json:"title"`
	AspectRatio string                     `json:"aspectRatio"`
	Prompt      *string                    `json:"prompt"`
	Color       *string                    `json:"color"`
	Image       *form.Image                `json:"image"`
	Config      *transform.Transformations `json:"config"`
}

type CreateResponse struct {
	Image    *media.Image `json:"image"`
	Redirect string       `json:"redirect"`
}

// Author is the public view of an image's owner. Contact details, the
// Clerk id, balance and role stay private.
type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

func toAuthor(u *users.User) *Author {
	if u == nil {
		return nil
	}
	return &Author{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, Photo: u.Photo}
}

type ImageResponse struct {
	*media.Image
	Author      *Author `json:"author,omitempty"`
	DownloadURL string  `json:"downloadUrl,omitempty"`
}
