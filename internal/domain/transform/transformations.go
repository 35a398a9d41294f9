package transform

import "fmt"

// Kind tags a class of image edit.
type Kind string

const (
	KindRestore          Kind = "restore"
	KindFill             Kind = "fill"
	KindRemove           Kind = "remove"
	KindRecolor          Kind = "recolor"
	KindRemoveBackground Kind = "removeBackground"
)

// Kinds lists every kind in catalog order.
var Kinds = []Kind{KindRestore, KindFill, KindRemove, KindRecolor, KindRemoveBackground}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown transformation type %q", s)
}

// TakesParams reports whether the kind needs user-entered parameters.
// restore and removeBackground are configured as soon as an image exists.
func (k Kind) TakesParams() bool {
	return k != KindRestore && k != KindRemoveBackground
}

// Parameter fields are pointers so a merge can tell "set to empty" from
// "not set": a nil field keeps the value underneath, a non-nil one replaces
// it even when empty.
type RemoveParams struct {
	Prompt       *string `json:"prompt,omitempty"`
	RemoveShadow *bool   `json:"removeShadow,omitempty"`
	Multiple     *bool   `json:"multiple,omitempty"`
}

func (p *RemoveParams) GetPrompt() string {
	if p == nil {
		return ""
	}
	return deref(p.Prompt)
}

type RecolorParams struct {
	Prompt   *string `json:"prompt,omitempty"`
	To       *string `json:"to,omitempty"`
	Multiple *bool   `json:"multiple,omitempty"`
}

func (p *RecolorParams) GetPrompt() string {
	if p == nil {
		return ""
	}
	return deref(p.Prompt)
}

func (p *RecolorParams) GetTo() string {
	if p == nil {
		return ""
	}
	return deref(p.To)
}

// Transformations is the configuration handed to the CDN. Each kind owns one
// optional field carrying only its own parameters; the JSON object is keyed
// by kind tag (fill serialises as "fillBackground").
type Transformations struct {
	Restore          *bool          `json:"restore,omitempty"`
	FillBackground   *bool          `json:"fillBackground,omitempty"`
	Remove           *RemoveParams  `json:"remove,omitempty"`
	Recolor          *RecolorParams `json:"recolor,omitempty"`
	RemoveBackground *bool          `json:"removeBackground,omitempty"`
}

func (t Transformations) IsZero() bool {
	return t.Restore == nil && t.FillBackground == nil && t.Remove == nil &&
		t.Recolor == nil && t.RemoveBackground == nil
}

// Has reports whether the configuration carries an entry for kind.
func (t Transformations) Has(kind Kind) bool {
	switch kind {
	case KindRestore:
		return t.Restore != nil
	case KindFill:
		return t.FillBackground != nil
	case KindRemove:
		return t.Remove != nil
	case KindRecolor:
		return t.Recolor != nil
	case KindRemoveBackground:
		return t.RemoveBackground != nil
	}
	return false
}

// Without returns a copy with the entry for kind dropped.
func (t Transformations) Without(kind Kind) Transformations {
	out := t.Clone()
	switch kind {
	case KindRestore:
		out.Restore = nil
	case KindFill:
		out.FillBackground = nil
	case KindRemove:
		out.Remove = nil
	case KindRecolor:
		out.Recolor = nil
	case KindRemoveBackground:
		out.RemoveBackground = nil
	}
	return out
}

// Only returns a copy holding just the entry for kind.
func (t Transformations) Only(kind Kind) Transformations {
	var out Transformations
	src := t.Clone()
	switch kind {
	case KindRestore:
		out.Restore = src.Restore
	case KindFill:
		out.FillBackground = src.FillBackground
	case KindRemove:
		out.Remove = src.Remove
	case KindRecolor:
		out.Recolor = src.Recolor
	case KindRemoveBackground:
		out.RemoveBackground = src.RemoveBackground
	}
	return out
}

// Clone deep-copies every pointer so callers can mutate the result freely.
func (t Transformations) Clone() Transformations {
	out := Transformations{
		Restore:          cloneBool(t.Restore),
		FillBackground:   cloneBool(t.FillBackground),
		RemoveBackground: cloneBool(t.RemoveBackground),
	}
	if t.Remove != nil {
		r := *t.Remove
		r.Prompt = cloneString(t.Remove.Prompt)
		r.RemoveShadow = cloneBool(t.Remove.RemoveShadow)
		r.Multiple = cloneBool(t.Remove.Multiple)
		out.Remove = &r
	}
	if t.Recolor != nil {
		r := *t.Recolor
		r.Prompt = cloneString(t.Recolor.Prompt)
		r.To = cloneString(t.Recolor.To)
		r.Multiple = cloneBool(t.Recolor.Multiple)
		out.Recolor = &r
	}
	return out
}

// Merge deep-merges src over t. Every non-nil field of src wins, empty
// strings included; nil fields keep t's.
func (t Transformations) Merge(src Transformations) Transformations {
	out := t.Clone()
	if src.Restore != nil {
		out.Restore = cloneBool(src.Restore)
	}
	if src.FillBackground != nil {
		out.FillBackground = cloneBool(src.FillBackground)
	}
	if src.RemoveBackground != nil {
		out.RemoveBackground = cloneBool(src.RemoveBackground)
	}
	if src.Remove != nil {
		if out.Remove == nil {
			out.Remove = &RemoveParams{}
		}
		if src.Remove.Prompt != nil {
			out.Remove.Prompt = cloneString(src.Remove.Prompt)
		}
		if src.Remove.RemoveShadow != nil {
			out.Remove.RemoveShadow = cloneBool(src.Remove.RemoveShadow)
		}
		if src.Remove.Multiple != nil {
			out.Remove.Multiple = cloneBool(src.Remove.Multiple)
		}
	}
	if src.Recolor != nil {
		if out.Recolor == nil {
			out.Recolor = &RecolorParams{}
		}
		if src.Recolor.Prompt != nil {
			out.Recolor.Prompt = cloneString(src.Recolor.Prompt)
		}
		if src.Recolor.To != nil {
			out.Recolor.To = cloneString(src.Recolor.To)
		}
		if src.Recolor.Multiple != nil {
			out.Recolor.Multiple = cloneBool(src.Recolor.Multiple)
		}
	}
	return out
}

// Equal compares two configurations field by field.
func (t Transformations) Equal(o Transformations) bool {
	if !boolEq(t.Restore, o.Restore) || !boolEq(t.FillBackground, o.FillBackground) ||
		!boolEq(t.RemoveBackground, o.RemoveBackground) {
		return false
	}
	if (t.Remove == nil) != (o.Remove == nil) || (t.Recolor == nil) != (o.Recolor == nil) {
		return false
	}
	if t.Remove != nil {
		if !stringEq(t.Remove.Prompt, o.Remove.Prompt) || !boolEq(t.Remove.RemoveShadow, o.Remove.RemoveShadow) ||
			!boolEq(t.Remove.Multiple, o.Remove.Multiple) {
			return false
		}
	}
	if t.Recolor != nil {
		if !stringEq(t.Recolor.Prompt, o.Recolor.Prompt) || !stringEq(t.Recolor.To, o.Recolor.To) ||
			!boolEq(t.Recolor.Multiple, o.Recolor.Multiple) {
			return false
		}
	}
	return true
}

func Bool(v bool) *bool { return &v }

func String(v string) *string { return &v }

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func boolEq(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func stringEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
