package actions

import (
	"context"
	"log/slog"

	"imaginify/internal/apperror"
	"imaginify/internal/domain/media"
)

// DefaultPageSize is the number of images on one collection page.
const DefaultPageSize = 9

type AddImageRequest struct {
	Image  media.NewImage
	UserID string
	// Path is the UI path whose cached rendering becomes stale.
	Path string
}

type ListImagesRequest struct {
	Page        int
	Limit       int
	SearchQuery string
}

type UserImagesRequest struct {
	UserID string
	Page   int
	Limit  int
}

type ImagePage struct {
	Data        []media.Image `json:"data"`
	TotalPages  int           `json:"totalPages"`
	SavedImages int64         `json:"savedImages"`
}

type ImageActions struct {
	images      ImageRepository
	users       UserRepository
	revalidator Revalidator
	publisher   Publisher
	logger      *slog.Logger
}

func NewImageActions(images ImageRepository, users UserRepository, rv Revalidator, pub Publisher, logger *slog.Logger) *ImageActions {
	if rv == nil {
		rv = noopRevalidator{}
	}
	if pub == nil {
		pub = noopPublisher{}
	}
	return &ImageActions{images: images, users: users, revalidator: rv, publisher: pub, logger: orDefault(logger)}
}

// AddImage stores an image owned by UserID. Nothing is written when the
// owner does not exist.
func (a *ImageActions) AddImage(ctx context.Context, req AddImageRequest) (*media.Image, error) {
	author, err := a.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, apperror.Handle(a.logger, "add image", err)
	}

	img := req.Image.Build(author.ID)
	if err := a.images.Create(ctx, &img); err != nil {
		return nil, apperror.Handle(a.logger, "add image", err)
	}

	if req.Path != "" {
		if err := a.revalidator.Revalidate(ctx, req.Path); err != nil {
			a.logger.Warn("revalidate failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		}
	}
	publish(ctx, a.publisher, a.logger, EventImageCreated, img)

	img.Author = author
	return &img, nil
}

func (a *ImageActions) GetImageByID(ctx context.Context, id string) (*media.Image, error) {
	img, err := a.images.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Handle(a.logger, "get image", err)
	}
	return img, nil
}

func (a *ImageActions) GetAllImages(ctx context.Context, req ListImagesRequest) (*ImagePage, error) {
	return a.list(ctx, "get images", media.ListQuery{
		Search: req.SearchQuery,
		Page:   req.Page,
		Limit:  req.Limit,
	})
}

func (a *ImageActions) GetUserImages(ctx context.Context, req UserImagesRequest) (*ImagePage, error) {
	if req.UserID == "" {
		return nil, apperror.Handle(a.logger, "get user images", apperror.ValidationFailed("userId", "user id is required"))
	}
	return a.list(ctx, "get user images", media.ListQuery{
		AuthorID: req.UserID,
		Page:     req.Page,
		Limit:    req.Limit,
	})
}

func (a *ImageActions) list(ctx context.Context, op string, q media.ListQuery) (*ImagePage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	data, total, err := a.images.List(ctx, q)
	if err != nil {
		return nil, apperror.Handle(a.logger, op, err)
	}
	if data == nil {
		data = []media.Image{}
	}
	return &ImagePage{
		Data:        data,
		TotalPages:  media.TotalPages(total, q.Limit),
		SavedImages: total,
	}, nil
}
