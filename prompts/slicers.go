// CLAUDE:SUMMARY Slicer dispatch: projects extractor payloads into canonical per-task JSON slices and decides emptiness.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hazyhaar/axaudit/checklist"
)

// Payloads bundles the three extractor outputs for one document.
type Payloads struct {
	Semantic *checklist.SemanticPayload
	Forms    *checklist.FormsPayload
	Nontext  *checklist.NontextPayload
}

type slicerFunc func(p Payloads) any

// slicers maps slicer names from the registry to their projections.
// Field filters flatten fields across all forms before selecting.
var slicers = map[string]slicerFunc{
	// CL01
	"slice_page_title": func(p Payloads) any { return p.Semantic.PageTitle },
	"slice_headings": func(p Payloads) any {
		return map[string]any{
			"page_title": p.Semantic.PageTitle,
			"headings":   p.Semantic.Headings,
		}
	},
	"slice_flagged_links": func(p Payloads) any { return p.Semantic.FlaggedLinks },
	"slice_tables":        func(p Payloads) any { return p.Semantic.Tables },
	"slice_iframes":       func(p Payloads) any { return p.Semantic.Iframes },
	"slice_landmarks":     func(p Payloads) any { return p.Semantic.Landmarks },
	"slice_cl01_full":     func(p Payloads) any { return p.Semantic },

	// CL02
	"slice_fields_with_labels": fieldFilter(func(f checklist.Field) bool {
		return f.EffectiveLabel != nil && *f.EffectiveLabel != ""
	}),
	"slice_placeholder_only_fields": fieldFilter(func(f checklist.Field) bool {
		return f.LabelSource == "placeholder_only"
	}),
	"slice_form_groups": func(p Payloads) any {
		groups := []checklist.Group{}
		for _, form := range p.Forms.Forms {
			groups = append(groups, form.Groups...)
		}
		return groups
	},
	"slice_required_fields": fieldFilter(func(f checklist.Field) bool {
		return f.Required
	}),
	"slice_fields_with_instructions": fieldFilter(func(f checklist.Field) bool {
		return f.Instructions != nil && *f.Instructions != ""
	}),
	"slice_cl02_full": func(p Payloads) any { return p.Forms },

	// CL03
	"slice_informative_images": func(p Payloads) any { return p.Nontext.Images.Informative },
	"slice_decorative_images":  func(p Payloads) any { return p.Nontext.Images.Decorative },
	"slice_actionable_images":  func(p Payloads) any { return p.Nontext.Images.Actionable },
	"slice_complex_images":     func(p Payloads) any { return p.Nontext.Images.Complex },
	"slice_svgs":               func(p Payloads) any { return p.Nontext.SVGs },
	"slice_icon_fonts":         func(p Payloads) any { return p.Nontext.IconFonts },
	"slice_media":              func(p Payloads) any { return p.Nontext.Media },
	"slice_cl03_full":          func(p Payloads) any { return p.Nontext },
}

func fieldFilter(keep func(checklist.Field) bool) slicerFunc {
	return func(p Payloads) any {
		fields := []checklist.Field{}
		for _, form := range p.Forms.Forms {
			for _, f := range form.Fields {
				if keep(f) {
					fields = append(fields, f)
				}
			}
		}
		return fields
	}
}

// Slice applies the task's slicer to the payloads and serializes the result
// canonically: struct field order is fixed, map keys are sorted, indent is
// two spaces. Identical input always yields byte-identical output.
func Slice(spec TaskSpec, p Payloads) (string, error) {
	fn, ok := slicers[spec.Slicer]
	if !ok {
		return "", fmt.Errorf("task %s: unknown slicer %q", spec.Name, spec.Slicer)
	}
	switch spec.Checklist {
	case ChecklistSemantic:
		if p.Semantic == nil {
			return "", fmt.Errorf("task %s: semantic payload missing", spec.Name)
		}
	case ChecklistForms:
		if p.Forms == nil {
			return "", fmt.Errorf("task %s: forms payload missing", spec.Name)
		}
	case ChecklistNontext:
		if p.Nontext == nil {
			return "", fmt.Errorf("task %s: non-text payload missing", spec.Name)
		}
	}

	b, err := json.MarshalIndent(fn(p), "", "  ")
	if err != nil {
		return "", fmt.Errorf("task %s: serialize slice: %w", spec.Name, err)
	}
	return string(b), nil
}

// IsEmpty reports whether a serialized slice carries nothing worth
// evaluating. A slice is empty when it is an empty collection, null, or an
// object whose members are all empty collections or blank strings. The
// member check is shallow: one level only, numbers and booleans ignored.
func IsEmpty(sliceJSON string) bool {
	trimmed := strings.TrimSpace(sliceJSON)
	switch trimmed {
	case "", "null", "[]", "{}":
		return true
	}

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return false
	}

	switch val := v.(type) {
	case []any:
		return len(val) == 0
	case map[string]any:
		for _, member := range val {
			switch m := member.(type) {
			case []any:
				if len(m) > 0 {
					return false
				}
			case map[string]any:
				if len(m) > 0 {
					return false
				}
			case string:
				if strings.TrimSpace(m) != "" {
					return false
				}
			}
		}
		return true
	case string:
		return strings.TrimSpace(val) == ""
	}
	return false
}
