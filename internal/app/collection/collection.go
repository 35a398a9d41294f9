// Package collection builds the paginated listing of saved images.
package collection

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"imaginify/internal/domain/media"
	"imaginify/internal/domain/transform"
)

const (
	Heading     = "Recent Edits"
	EmptyNotice = "Empty List"
)

type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

var ErrControlDisabled = errors.New("pagination control is disabled")

type Params struct {
	Images     []media.Image
	Page       int
	TotalPages int
	// URL is the current request URI; its other query parameters survive
	// page changes.
	URL       string
	HasSearch bool
}

type Card struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Type  transform.Kind `json:"transformationType"`
	Icon  string         `json:"icon,omitempty"`
	Image string         `json:"image"`
	Href  string         `json:"href"`
}

type Control struct {
	Disabled bool   `json:"disabled"`
	URL      string `json:"url,omitempty"`
}

type Pagination struct {
	Label string  `json:"label"`
	Prev  Control `json:"prev"`
	Next  Control `json:"next"`
}

type View struct {
	Heading    string      `json:"heading"`
	HasSearch  bool        `json:"hasSearch"`
	Items      []Card      `json:"items"`
	Empty      bool        `json:"empty"`
	EmptyText  string      `json:"emptyText,omitempty"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func Build(p Params) View {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}

	v := View{
		Heading:    Heading,
		HasSearch:  p.HasSearch,
		Items:      make([]Card, 0, len(p.Images)),
		Page:       p.Page,
		TotalPages: p.TotalPages,
	}
	for _, img := range p.Images {
		v.Items = append(v.Items, cardFor(img))
	}
	if len(v.Items) == 0 {
		v.Empty = true
		v.EmptyText = EmptyNotice
	}

	if p.TotalPages > 1 {
		v.Pagination = &Pagination{
			Label: fmt.Sprintf("%d / %d", p.Page, p.TotalPages),
			Prev:  control(p.URL, p.Page, p.TotalPages, Prev),
			Next:  control(p.URL, p.Page, p.TotalPages, Next),
		}
	}
	return v
}

func cardFor(img media.Image) Card {
	c := Card{
		ID:    img.ID,
		Title: img.Title,
		Type:  img.TransformationType,
		Image: img.SecureURL,
		Href:  "/transformations/" + img.ID,
	}
	if img.TransformationURL != "" {
		c.Image = img.TransformationURL
	}
	if t, ok := transform.Lookup(img.TransformationType); ok {
		c.Icon = t.Icon
	}
	return c
}

func control(current string, page, total int, dir Direction) Control {
	nav, err := Navigate(current, page, total, dir)
	if err != nil {
		return Control{Disabled: true}
	}
	return Control{URL: nav.URL}
}

// Navigation is a client-side URL change; Scroll is always false so the
// list keeps its position.
type Navigation struct {
	URL    string `json:"url"`
	Scroll bool   `json:"scroll"`
}

// Navigate moves one page in dir by rewriting the page query parameter of
// current.
func Navigate(current string, page, total int, dir Direction) (Navigation, error) {
	target := page
	switch dir {
	case Prev:
		if page <= 1 {
			return Navigation{}, ErrControlDisabled
		}
		target--
	case Next:
		if page >= total {
			return Navigation{}, ErrControlDisabled
		}
		target++
	default:
		return Navigation{}, fmt.Errorf("unknown direction %q", dir)
	}

	u, err := SetQuery(current, "page", strconv.Itoa(target))
	if err != nil {
		return Navigation{}, err
	}
	return Navigation{URL: u}, nil
}

// SetQuery returns current with key set to value, keeping the path and all
// other parameters.
func SetQuery(current, key, value string) (string, error) {
	u, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", current, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
