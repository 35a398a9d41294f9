package images

import (
	"context"
	"net/http"

	"imaginify/internal/app/form"
	"imaginify/internal/app/http/middleware"
	"imaginify/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func (h *Handler) replay(ctx context.Context, user *users.User, req FormRequest) (*form.Form, error) {
	f, err := form.New(form.Options{
		Action:        form.ActionAdd,
		UserID:        user.ID,
		Type:          req.Type,
		CreditBalance: user.CreditBalance,
		Config:        req.Config,
		Renderer:      h.cdn,
		Saver:         h.images,
		Path:          HomePath,
		Logger:        h.logger,
	})
	if err != nil {
		return nil, err
	}

	f.SetTitle(req.Title)
	if req.Image != nil {
		f.SetImage(*req.Image)
	}
	if req.AspectRatio != "" {
		if err := f.SelectAspectRatio(req.AspectRatio); err != nil {
			return nil, err
		}
	}
	// An empty prompt or color clears the field; kinds without that field
	// ignore it.
	if req.Prompt != nil {
		if err := f.SetPrompt(*req.Prompt); err != nil && *req.Prompt != "" {
			return nil, err
		}
	}
	if req.Color != nil {
		if err := f.SetColor(*req.Color); err != nil && *req.Color != "" {
			return nil, err
		}
	}
	if f.CanApply() {
		if err := f.Apply(ctx); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Preview applies the submitted fields and returns the resulting
// configuration and preview URL without saving anything.
func (h *Handler) Preview(c *gin.Context) {
	if !h.requireCDN(c) {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form payload"})
		return
	}

	f, err := h.replay(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f.Snapshot())
}

// CreateImage applies the submitted fields and saves the result for the
// signed-in user.
func (h *Handler) CreateImage(c *gin.Context) {
	if !h.requireCDN(c) {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form payload"})
		return
	}

	f, err := h.replay(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	img, err := f.Submit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreateResponse{Image: img, Redirect: f.Redirect()})
}
