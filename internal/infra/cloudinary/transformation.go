package cloudinary

import (
	"net/url"
	"strconv"
	"strings"

	"imaginify/internal/domain/transform"
)

// Transformation renders cfg as a Cloudinary transformation string, one
// component per configured kind joined with "/". width and height size the
// generative fill canvas.
func Transformation(cfg transform.Transformations, width, height int) string {
	var parts []string

	if isSet(cfg.Restore) {
		parts = append(parts, "e_gen_restore")
	}
	if isSet(cfg.RemoveBackground) {
		parts = append(parts, "e_background_removal")
	}
	if r := cfg.Remove; r.GetPrompt() != "" {
		opts := []string{"prompt_" + escape(r.GetPrompt())}
		if isSet(r.Multiple) {
			opts = append(opts, "multiple_true")
		}
		if isSet(r.RemoveShadow) {
			opts = append(opts, "remove-shadow_true")
		}
		parts = append(parts, "e_gen_remove:"+strings.Join(opts, ";"))
	}
	if r := cfg.Recolor; r.GetPrompt() != "" && r.GetTo() != "" {
		opts := []string{
			"prompt_" + escape(r.GetPrompt()),
			"to-color_" + strings.TrimPrefix(r.GetTo(), "#"),
		}
		if isSet(r.Multiple) {
			opts = append(opts, "multiple_true")
		}
		parts = append(parts, "e_gen_recolor:"+strings.Join(opts, ";"))
	}
	if isSet(cfg.FillBackground) && width > 0 && height > 0 {
		parts = append(parts, "b_gen_fill,c_pad,w_"+strconv.Itoa(width)+",h_"+strconv.Itoa(height))
	}

	return strings.Join(parts, "/")
}

func isSet(b *bool) bool {
	return b != nil && *b
}

func escape(prompt string) string {
	return url.PathEscape(strings.TrimSpace(prompt))
}
