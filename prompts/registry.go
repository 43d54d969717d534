// CLAUDE:SUMMARY Static task registry: binds each evaluation task to its payload slicer, template section and guideline metadata.
package prompts

import "fmt"

// Checklist identifiers, one per extractor payload.
const (
	ChecklistSemantic = "CL01"
	ChecklistForms    = "CL02"
	ChecklistNontext  = "CL03"
)

// Output shape tags.
const (
	OutputArray   = "array"
	OutputObject  = "object"
	OutputSummary = "summary"
)

// TaskSpec defines one element-specific evaluation task. The catalog is
// static; specs are never mutated after construction.
type TaskSpec struct {
	// Name uniquely identifies the task, e.g. "link_clarity".
	Name string
	// Checklist selects the source payload, one of the CL* constants.
	Checklist string
	// TemplateFile and TemplateIndex locate the instruction text: the
	// file under instructions/ and the 1-based numbered section in it.
	TemplateFile  string
	TemplateIndex int
	// Slicer names the projection applied to the payload before filling.
	Slicer string
	// Criteria are the guideline success criteria the task evaluates,
	// carried as opaque strings.
	Criteria []string
	// ElementTypes are the tags the task is relevant to, informational.
	ElementTypes []string
	// OutputType tags the expected response shape.
	OutputType string
	// IsSummary tasks only run when summaries are explicitly requested.
	IsSummary bool
	// SkipIfEmpty tasks are skipped without an evaluation call when the
	// slice is empty.
	SkipIfEmpty bool
}

const (
	fileSemantic = "semantic_checklist_01.txt"
	fileForms    = "forms_checklist_02.txt"
	fileNontext  = "nontext_checklist_03.txt"
)

var registry = []TaskSpec{
	// CL01: semantic structure
	{
		Name: "page_title", Checklist: ChecklistSemantic,
		TemplateFile: fileSemantic, TemplateIndex: 1,
		Slicer:   "slice_page_title",
		Criteria: []string{"2.4.2"}, ElementTypes: []string{"title", "h1"},
		OutputType: OutputObject, SkipIfEmpty: true,
	},
	{
		Name: "heading_structure", Checklist: ChecklistSemantic,
		TemplateFile: fileSemantic, TemplateIndex: 2,
		Slicer:   "slice_headings",
		Criteria: []string{"1.3.1", "2.4.6"},
		ElementTypes: []string{"h1", "h2", "h3", "h4", "h5", "h6"},
		OutputType: OutputObject, SkipIfEmpty: true,
	},
	{
		Name: "link_clarity", Checklist: ChecklistSemantic,
		TemplateFile: fileSemantic, TemplateIndex: 3,
		Slicer:   "slice_flagged_links",
		Criteria: []string{"2.4.4"}, ElementTypes: []string{"a"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "table_semantics", Checklist: ChecklistSemantic,
		TemplateFile: fileSemantic, TemplateIndex: 4,
		Slicer:   "slice_tables",
		Criteria: []string{"1.3.1"}, ElementTypes: []string{"table", "th", "caption"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "iframe_titles", Checklist: ChecklistSemantic,
		TemplateFile: fileSemantic, TemplateIndex: 5,
		Slicer:   "slice_iframes",
		Criteria: []string{"4.1.2"}, ElementTypes: []string{"iframe"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "landmark_structure", Checklist: ChecklistSemantic,
		TemplateFile: fileSemantic, TemplateIndex: 6,
		Slicer:   "slice_landmarks",
		Criteria: []string{"1.3.1"},
		ElementTypes: []string{"main", "nav", "header", "footer", "aside"},
		OutputType: OutputObject, SkipIfEmpty: true,
	},
	{
		Name: "semantic_summary", Checklist: ChecklistSemantic,
		TemplateFile: fileSemantic, TemplateIndex: 7,
		Slicer:   "slice_cl01_full",
		Criteria: []string{"1.3.1", "2.4.2", "2.4.4", "2.4.6", "3.1.1", "4.1.2"},
		OutputType: OutputSummary, IsSummary: true, SkipIfEmpty: true,
	},
	// CL02: forms
	{
		Name: "label_quality", Checklist: ChecklistForms,
		TemplateFile: fileForms, TemplateIndex: 1,
		Slicer:   "slice_fields_with_labels",
		Criteria: []string{"1.3.1", "2.4.6"},
		ElementTypes: []string{"input", "select", "textarea", "label"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "placeholder_as_label", Checklist: ChecklistForms,
		TemplateFile: fileForms, TemplateIndex: 2,
		Slicer:   "slice_placeholder_only_fields",
		Criteria: []string{"1.3.1"},
		ElementTypes: []string{"input", "select", "textarea"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "group_labels", Checklist: ChecklistForms,
		TemplateFile: fileForms, TemplateIndex: 3,
		Slicer:   "slice_form_groups",
		Criteria: []string{"1.3.1"}, ElementTypes: []string{"fieldset", "legend"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "required_field_indicators", Checklist: ChecklistForms,
		TemplateFile: fileForms, TemplateIndex: 4,
		Slicer:   "slice_required_fields",
		Criteria: []string{"3.3.2"},
		ElementTypes: []string{"input", "select", "textarea"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "form_instructions", Checklist: ChecklistForms,
		TemplateFile: fileForms, TemplateIndex: 5,
		Slicer:   "slice_fields_with_instructions",
		Criteria: []string{"3.3.2"},
		ElementTypes: []string{"input", "select", "textarea"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "form_summary", Checklist: ChecklistForms,
		TemplateFile: fileForms, TemplateIndex: 6,
		Slicer:   "slice_cl02_full",
		Criteria: []string{"1.3.1", "2.4.6", "3.3.2"},
		OutputType: OutputSummary, IsSummary: true, SkipIfEmpty: true,
	},
	// CL03: non-text content
	{
		Name: "informative_alt_quality", Checklist: ChecklistNontext,
		TemplateFile: fileNontext, TemplateIndex: 1,
		Slicer:   "slice_informative_images",
		Criteria: []string{"1.1.1"}, ElementTypes: []string{"img"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "decorative_verification", Checklist: ChecklistNontext,
		TemplateFile: fileNontext, TemplateIndex: 2,
		Slicer:   "slice_decorative_images",
		Criteria: []string{"1.1.1"}, ElementTypes: []string{"img"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "actionable_image_alt", Checklist: ChecklistNontext,
		TemplateFile: fileNontext, TemplateIndex: 3,
		Slicer:   "slice_actionable_images",
		Criteria: []string{"1.1.1", "2.4.4"}, ElementTypes: []string{"img", "a", "button"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "complex_descriptions", Checklist: ChecklistNontext,
		TemplateFile: fileNontext, TemplateIndex: 4,
		Slicer:   "slice_complex_images",
		Criteria: []string{"1.1.1"}, ElementTypes: []string{"img"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "svg_accessibility", Checklist: ChecklistNontext,
		TemplateFile: fileNontext, TemplateIndex: 5,
		Slicer:   "slice_svgs",
		Criteria: []string{"1.1.1"}, ElementTypes: []string{"svg"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "icon_font_accessibility", Checklist: ChecklistNontext,
		TemplateFile: fileNontext, TemplateIndex: 6,
		Slicer:   "slice_icon_fonts",
		Criteria: []string{"1.1.1"}, ElementTypes: []string{"i", "span"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "media_captions", Checklist: ChecklistNontext,
		TemplateFile: fileNontext, TemplateIndex: 7,
		Slicer:   "slice_media",
		Criteria: []string{"1.2.1", "1.2.2", "1.2.3"},
		ElementTypes: []string{"video", "audio"},
		OutputType: OutputArray, SkipIfEmpty: true,
	},
	{
		Name: "nontext_summary", Checklist: ChecklistNontext,
		TemplateFile: fileNontext, TemplateIndex: 8,
		Slicer:   "slice_cl03_full",
		Criteria: []string{"1.1.1", "1.2.1", "1.2.2", "1.2.3"},
		OutputType: OutputSummary, IsSummary: true, SkipIfEmpty: true,
	},
}

// Registry returns the full task catalog in evaluation order. Callers must
// not mutate the returned slice.
func Registry() []TaskSpec {
	return registry
}

// Lookup finds a task by name.
func Lookup(name string) (TaskSpec, error) {
	for _, spec := range registry {
		if spec.Name == name {
			return spec, nil
		}
	}
	return TaskSpec{}, fmt.Errorf("unknown task %q", name)
}
