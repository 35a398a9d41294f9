package images

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"imaginify/internal/actions"
	"imaginify/internal/apperror"
	"imaginify/internal/app/form"
	"imaginify/internal/domain/media"
	"imaginify/internal/domain/transform"
	"imaginify/internal/infra/cloudinary"

	"github.com/gin-gonic/gin"
)

// HomePath is the UI path whose cached listing goes stale on a new image.
const HomePath = "/"

type ImageService interface {
	AddImage(ctx context.Context, req actions.AddImageRequest) (*media.Image, error)
	GetImageByID(ctx context.Context, id string) (*media.Image, error)
	GetAllImages(ctx context.Context, req actions.ListImagesRequest) (*actions.ImagePage, error)
	GetUserImages(ctx context.Context, req actions.UserImagesRequest) (*actions.ImagePage, error)
}

// CDN is the subset of the Cloudinary client the handlers use.
type CDN interface {
	form.Renderer
	DownloadURL(publicID string, cfg transform.Transformations, width, height int) (string, error)
	Upload(ctx context.Context, file io.Reader) (*cloudinary.Asset, error)
}

type Handler struct {
	images ImageService
	cdn    CDN
	logger *slog.Logger
}

// NewHandler accepts a nil cdn; upload and preview then answer with a
// configuration error.
func NewHandler(images ImageService, cdn CDN, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{images: images, cdn: cdn, logger: logger}
}

func (h *Handler) requireCDN(c *gin.Context) bool {
	if h.cdn == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperror.Configuration("CLOUDINARY_URL").Error()})
		return false
	}
	return true
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperror.HTTPStatus(err), gin.H{"error": apperror.PublicMessage(err)})
}

// ListTransformations serves the kinds users can pick and the fill aspect
// ratios.
func (h *Handler) ListTransformations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"types":        transform.Catalog(),
		"aspectRatios": transform.AspectRatios(),
	})
}

func (h *Handler) Upload(c *gin.Context) {
	if !h.requireCDN(c) {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file"})
		return
	}
	defer f.Close()

	asset, err := h.cdn.Upload(c.Request.Context(), f)
	if err != nil {
		h.logger.Error("upload failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upload failed"})
		return
	}
	c.JSON(http.StatusCreated, asset)
}
