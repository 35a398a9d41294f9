package form

import "imaginify/internal/domain/transform"

// Snapshot is a copy of the form for rendering or JSON responses.
type Snapshot struct {
	State      State                      `json:"state"`
	Type       transform.Kind             `json:"type,omitempty"`
	Values     Values                     `json:"values"`
	Image      Image                      `json:"image"`
	Pending    *transform.Transformations `json:"pending"`
	Config     transform.Transformations  `json:"config"`
	PreviewURL string                     `json:"previewUrl,omitempty"`
	CanApply   bool                       `json:"canApply"`
	CanSubmit  bool                       `json:"canSubmit"`
	Redirect   string                     `json:"redirect,omitempty"`
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending *transform.Transformations
	if f.pending != nil {
		p := f.pending.Clone()
		pending = &p
	}
	return Snapshot{
		State:      f.state,
		Type:       f.kind,
		Values:     f.values,
		Image:      f.image,
		Pending:    pending,
		Config:     f.active.Clone(),
		PreviewURL: f.previewURL,
		CanApply:   f.pending != nil && !f.transforming,
		CanSubmit:  f.pending == nil && f.image.present() && !f.submitting,
		Redirect:   f.redirect,
	}
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Pending() *transform.Transformations {
	return f.Snapshot().Pending
}

func (f *Form) Active() transform.Transformations {
	return f.Snapshot().Config
}

func (f *Form) Redirect() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redirect
}
