package images

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"imaginify/internal/actions"
	"imaginify/internal/app/collection"
	"imaginify/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *Handler) GetImage(c *gin.Context) {
	img, err := h.images.GetImageByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ImageResponse{Image: img, Author: toAuthor(img.Author)}
	if h.cdn != nil {
		url, err := h.cdn.DownloadURL(img.PublicID, img.Transformations(), img.Width, img.Height)
		if err != nil {
			h.logger.Warn("build download url failed", slog.String("image", img.ID), slog.String("error", err.Error()))
		}
		resp.DownloadURL = url
	}
	c.JSON(http.StatusOK, resp)
}

// ListImages serves the home collection with optional title search.
func (h *Handler) ListImages(c *gin.Context) {
	page := pageParam(c)
	search := strings.TrimSpace(c.Query("searchQuery"))

	res, err := h.images.GetAllImages(c.Request.Context(), actions.ListImagesRequest{
		Page:        page,
		Limit:       actions.DefaultPageSize,
		SearchQuery: search,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	view := collection.Build(collection.Params{
		Images:     res.Data,
		Page:       page,
		TotalPages: res.TotalPages,
		URL:        c.Request.URL.RequestURI(),
		HasSearch:  true,
	})
	c.JSON(http.StatusOK, gin.H{"collection": view, "savedImages": res.SavedImages})
}

// ListProfileImages serves the signed-in user's own images.
func (h *Handler) ListProfileImages(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}
	page := pageParam(c)

	res, err := h.images.GetUserImages(c.Request.Context(), actions.UserImagesRequest{
		UserID: user.ID,
		Page:   page,
		Limit:  actions.DefaultPageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	view := collection.Build(collection.Params{
		Images:     res.Data,
		Page:       page,
		TotalPages: res.TotalPages,
		URL:        c.Request.URL.RequestURI(),
	})
	c.JSON(http.StatusOK, gin.H{
		"collection":    view,
		"savedImages":   res.SavedImages,
		"creditBalance": user.CreditBalance,
	})
}
