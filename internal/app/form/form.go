// Package form holds the server-side model of the transformation editor: the
// fields a user fills in, the pending and active transformation
// configurations, and the apply/submit transitions between them.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"imaginify/internal/actions"
	"imaginify/internal/apperror"
	"imaginify/internal/domain/media"
	"imaginify/internal/domain/transform"
)

type State string

const (
	StateIdle        State = "idle"
	StateConfiguring State = "configuring"
	StatePreviewing  State = "previewing"
	StateSubmitting  State = "submitting"
	StateSaved       State = "saved"
	StateFailed      State = "failed"
)

type Action string

const (
	ActionAdd    Action = "Add"
	ActionUpdate Action = "Update"
)

// CreditFee is what one applied transformation costs.
const CreditFee = 1

var (
	ErrTransformInProgress = errors.New("transformation already in progress")
	ErrNothingToApply      = errors.New("no pending transformation")
	ErrSubmitInProgress    = errors.New("submission already in progress")
	ErrNoType              = errors.New("no transformation type selected")
)

// Renderer turns a configuration into a delivery URL for publicID.
type Renderer interface {
	RenderURL(ctx context.Context, publicID string, cfg transform.Transformations, width, height int) (string, error)
}

// Saver persists a submitted image.
type Saver interface {
	AddImage(ctx context.Context, req actions.AddImageRequest) (*media.Image, error)
}

// Values are the plain text fields of the form.
type Values struct {
	Title       string `json:"title"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	Color       string `json:"color,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
	PublicID    string `json:"publicId"`
}

// Image is the working copy of the picture being edited.
type Image struct {
	PublicID    string `json:"publicId,omitempty"`
	SecureURL   string `json:"secureURL,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

func (i Image) present() bool { return i.PublicID != "" }

type Options struct {
	Action        Action
	UserID        string
	Type          transform.Kind
	CreditBalance int
	// Data is the existing record when editing.
	Data *media.Image
	// Config seeds the active configuration.
	Config   *transform.Transformations
	Renderer Renderer
	Saver    Saver
	// Path is revalidated after a successful submit.
	Path   string
	Logger *slog.Logger
	// ClearOnTypeSwitch drops other kinds' parameters when the type changes.
	ClearOnTypeSwitch bool
}

type Form struct {
	mu sync.Mutex

	action        Action
	userID        string
	creditBalance int
	path          string
	clearOnSwitch bool
	renderer      Renderer
	saver         Saver
	logger        *slog.Logger

	state    State
	kind     transform.Kind
	values   Values
	initial  Values
	original Image
	image    Image

	seed         transform.Transformations
	pending      *transform.Transformations
	active       transform.Transformations
	previewURL   string
	transforming bool
	submitting   bool
	redirect     string
}

func New(opts Options) (*Form, error) {
	f := &Form{
		action:        opts.Action,
		userID:        opts.UserID,
		creditBalance: opts.CreditBalance,
		path:          opts.Path,
		clearOnSwitch: opts.ClearOnTypeSwitch,
		renderer:      opts.Renderer,
		saver:         opts.Saver,
		logger:        opts.Logger,
		state:         StateIdle,
	}
	if f.action == "" {
		f.action = ActionAdd
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if d := opts.Data; d != nil {
		f.initial = Values{
			Title:       d.Title,
			AspectRatio: d.AspectRatio,
			Color:       d.Color,
			Prompt:      d.Prompt,
			PublicID:    d.PublicID,
		}
		f.original = Image{
			PublicID:    d.PublicID,
			SecureURL:   d.SecureURL,
			Width:       d.Width,
			Height:      d.Height,
			AspectRatio: d.AspectRatio,
		}
	}
	if opts.Config != nil {
		f.seed = opts.Config.Clone()
	}
	f.values = f.initial
	f.image = f.original
	f.active = f.seed.Clone()

	if opts.Type != "" {
		if err := f.SelectType(opts.Type); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// SelectType picks the transformation kind.
func (f *Form) SelectType(kind transform.Kind) error {
	if _, ok := transform.Lookup(kind); !ok {
		return apperror.ValidationFailed("type", fmt.Sprintf("unknown transformation type %q", kind))
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.clearOnSwitch && f.kind != "" && f.kind != kind {
		f.active = f.active.Only(kind)
		if f.pending != nil {
			p := f.pending.Only(kind)
			f.pending = nilIfZero(p)
		}
	}
	f.kind = kind
	if f.state == StateIdle {
		f.state = StateConfiguring
	}
	f.autoConfigure()
	return nil
}

// autoConfigure fills pending for kinds that take no parameters once there
// is an image to apply them to.
func (f *Form) autoConfigure() {
	if f.kind == "" || f.kind.TakesParams() || !f.image.present() {
		return
	}
	def, _ := transform.Lookup(f.kind)
	f.setPending(def.Config)
}

func (f *Form) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Title = title
}

// SelectAspectRatio resizes the working image for generative fill and
// resets pending to the fill defaults.
func (f *Form) SelectAspectRatio(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kind != transform.KindFill {
		return apperror.ValidationFailed("aspectRatio", "aspect ratio applies to generative fill only")
	}
	ar, ok := transform.LookupAspectRatio(key)
	if !ok {
		return apperror.ValidationFailed("aspectRatio", fmt.Sprintf("unknown aspect ratio %q", key))
	}
	f.values.AspectRatio = key
	f.image.AspectRatio = key
	f.image.Width = ar.Width
	f.image.Height = ar.Height

	def, _ := transform.Lookup(transform.KindFill)
	f.setPending(def.Config)
	return nil
}

func (f *Form) SetPrompt(prompt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := transform.Transformations{}
	if f.pending != nil {
		next = f.pending.Clone()
	}
	switch f.kind {
	case transform.KindRemove:
		if next.Remove == nil {
			next.Remove = &transform.RemoveParams{}
		}
		next.Remove.Prompt = transform.String(prompt)
	case transform.KindRecolor:
		if next.Recolor == nil {
			next.Recolor = &transform.RecolorParams{}
		}
		next.Recolor.Prompt = transform.String(prompt)
	default:
		return apperror.ValidationFailed("prompt", "prompt applies to remove and recolor only")
	}
	f.values.Prompt = prompt
	f.setPending(next)
	return nil
}

func (f *Form) SetColor(color string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kind != transform.KindRecolor {
		return apperror.ValidationFailed("color", "color applies to recolor only")
	}

	next := transform.Transformations{}
	if f.pending != nil {
		next = f.pending.Clone()
	}
	if next.Recolor == nil {
		next.Recolor = &transform.RecolorParams{}
	}
	next.Recolor.To = transform.String(color)
	f.values.Color = color
	f.setPending(next)
	return nil
}

// SetImage records an uploaded source image.
func (f *Form) SetImage(img Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.image.AspectRatio != "" && img.AspectRatio == "" {
		img.AspectRatio = f.image.AspectRatio
	}
	f.image = img
	f.values.PublicID = img.PublicID
	f.autoConfigure()
}

func (f *Form) setPending(cfg transform.Transformations) {
	c := cfg.Clone()
	f.pending = &c
}

func (f *Form) CanApply() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending != nil && !f.transforming
}

// Apply merges pending over active, clears pending and renders a preview.
// Only one Apply runs at a time.
func (f *Form) Apply(ctx context.Context) error {
	f.mu.Lock()
	if f.transforming {
		f.mu.Unlock()
		return ErrTransformInProgress
	}
	if f.kind == "" {
		f.mu.Unlock()
		return ErrNoType
	}
	if f.pending == nil {
		f.mu.Unlock()
		return ErrNothingToApply
	}
	if f.creditBalance < CreditFee {
		f.mu.Unlock()
		return apperror.InsufficientCredits(f.creditBalance, CreditFee)
	}
	f.transforming = true
	f.active = f.active.Merge(*f.pending)
	f.pending = nil
	f.state = StatePreviewing
	active := f.active.Clone()
	img := f.image
	f.mu.Unlock()

	var url string
	var err error
	if f.renderer != nil && img.present() {
		url, err = f.renderer.RenderURL(ctx, img.PublicID, active, img.Width, img.Height)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.transforming = false
	if err != nil {
		f.logger.Error("render preview failed", slog.String("publicId", img.PublicID), slog.String("error", err.Error()))
		return fmt.Errorf("render preview: %w", err)
	}
	f.previewURL = url
	return nil
}

func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending == nil && f.image.present() && !f.submitting
}

// Submit persists the edited image. On success the form is reset and
// Redirect names the detail page of the new record.
func (f *Form) Submit(ctx context.Context) (*media.Image, error) {
	if f.action == ActionUpdate {
		return nil, apperror.Unsupported("updating a saved image is not supported")
	}

	f.mu.Lock()
	switch {
	case f.submitting:
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	case !f.image.present():
		f.mu.Unlock()
		return nil, apperror.ValidationFailed("publicId", "an image is required")
	case f.pending != nil:
		f.mu.Unlock()
		return nil, apperror.ValidationFailed("config", "apply the pending transformation first")
	case f.kind == "":
		f.mu.Unlock()
		return nil, ErrNoType
	}
	f.submitting = true
	f.state = StateSubmitting
	img := f.image
	active := f.active.Clone()
	rec := media.NewImage{
		Title:              f.values.Title,
		PublicID:           img.PublicID,
		TransformationType: f.kind,
		Width:              img.Width,
		Height:             img.Height,
		Config:             active,
		SecureURL:          img.SecureURL,
		AspectRatio:        f.values.AspectRatio,
		Prompt:             f.values.Prompt,
		Color:              f.values.Color,
	}
	f.mu.Unlock()

	saved, err := f.save(ctx, rec, img, active)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.logger.Error("submit transformation failed", slog.String("userId", f.userID), slog.String("error", err.Error()))
		f.state = StateFailed
		return nil, err
	}
	f.values = f.initial
	f.image = f.original
	f.active = f.seed.Clone()
	f.pending = nil
	f.previewURL = ""
	f.state = StateSaved
	f.redirect = "/transformations/" + saved.ID
	return saved, nil
}

func (f *Form) save(ctx context.Context, rec media.NewImage, img Image, active transform.Transformations) (*media.Image, error) {
	if f.saver == nil {
		return nil, errors.New("form has no saver")
	}
	if f.renderer != nil {
		url, err := f.renderer.RenderURL(ctx, img.PublicID, active, img.Width, img.Height)
		if err != nil {
			return nil, fmt.Errorf("render transformation url: %w", err)
		}
		rec.TransformationURL = url
	}
	return f.saver.AddImage(ctx, actions.AddImageRequest{Image: rec, UserID: f.userID, Path: f.path})
}

func nilIfZero(t transform.Transformations) *transform.Transformations {
	if t.IsZero() {
		return nil
	}
	return &t
}
