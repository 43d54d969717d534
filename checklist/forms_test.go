package checklist

import (
	"testing"
)

func TestLabelSourcePrecedence(t *testing.T) {
	doc := parse(t, `<form action="/signup">
		<label for="a">Name</label><input id="a">
		<label>Email <input id="b"></label>
		<span id="lbl-c">Phone</span><input id="c" aria-labelledby="lbl-c">
		<input id="d" aria-label="Company">
		<input id="e" title="Fax">
		<input id="f" placeholder="Street">
		<input id="g">
	</form>`)

	p := ExtractForms(doc)
	if len(p.Forms) != 1 {
		t.Fatalf("forms = %d", len(p.Forms))
	}
	fields := p.Forms[0].Fields
	if len(fields) != 7 {
		t.Fatalf("fields = %d", len(fields))
	}

	tests := []struct {
		id        string
		source    string
		effective string // "" means null
	}{
		{"a", "label_for", "Name"},
		{"b", "wrapping_label", "Email"},
		{"c", "aria_labelledby", "Phone"},
		{"d", "aria_label", "Company"},
		{"e", "title", "Fax"},
		{"f", "placeholder_only", ""},
		{"g", "none", ""},
	}
	for i, tt := range tests {
		f := fields[i]
		if f.ID == nil || *f.ID != tt.id {
			t.Errorf("field %d id = %v, want %q", i, f.ID, tt.id)
			continue
		}
		if f.LabelSource != tt.source {
			t.Errorf("field %s label_source = %q, want %q", tt.id, f.LabelSource, tt.source)
		}
		switch {
		case tt.effective == "" && f.EffectiveLabel != nil:
			t.Errorf("field %s effective_label = %q, want null", tt.id, *f.EffectiveLabel)
		case tt.effective != "" && (f.EffectiveLabel == nil || *f.EffectiveLabel != tt.effective):
			t.Errorf("field %s effective_label = %v, want %q", tt.id, f.EffectiveLabel, tt.effective)
		}
	}
}

func TestPlaceholderOnlyField(t *testing.T) {
	doc := parse(t, `<form><input id="email" type="email" placeholder="Email"></form>`)

	p := ExtractForms(doc)
	f := p.Forms[0].Fields[0]

	if f.LabelSource != "placeholder_only" {
		t.Errorf("label_source = %q", f.LabelSource)
	}
	if f.EffectiveLabel != nil {
		t.Errorf("effective_label = %q, want null", *f.EffectiveLabel)
	}
	if f.Placeholder == nil || *f.Placeholder != "Email" {
		t.Errorf("placeholder = %v", f.Placeholder)
	}
}

func TestRequiredAndInstructions(t *testing.T) {
	doc := parse(t, `<form>
		<label for="pw">Password *</label>
		<input id="pw" type="password" required aria-describedby="pw-hint">
		<p id="pw-hint">At least 12 characters.</p>
		<input id="tos" type="checkbox" aria-required="true" aria-label="Accept terms">
	</form>`)

	p := ExtractForms(doc)
	fields := p.Forms[0].Fields

	if !fields[0].Required {
		t.Error("required attribute not detected")
	}
	if fields[0].Instructions == nil || *fields[0].Instructions != "At least 12 characters." {
		t.Errorf("instructions = %v", fields[0].Instructions)
	}
	if !fields[1].Required {
		t.Error(`aria-required="true" not detected`)
	}
}

func TestGroupsAndGroupLabels(t *testing.T) {
	doc := parse(t, `<form>
		<fieldset>
			<legend>Shipping method</legend>
			<input type="radio" id="std" name="ship">
			<input type="radio" id="exp" name="ship">
		</fieldset>
		<fieldset>
			<input type="checkbox" id="gift">
		</fieldset>
	</form>`)

	p := ExtractForms(doc)
	f := p.Forms[0]

	if len(f.Groups) != 2 {
		t.Fatalf("groups = %d", len(f.Groups))
	}
	if f.Groups[0].Legend == nil || *f.Groups[0].Legend != "Shipping method" {
		t.Errorf("group[0] legend = %v", f.Groups[0].Legend)
	}
	if f.Groups[1].Legend != nil {
		t.Errorf("group[1] legend = %v, want null", *f.Groups[1].Legend)
	}
	if len(f.Groups[0].InputTypes) != 2 || f.Groups[0].InputTypes[0] != "radio" {
		t.Errorf("group[0] input_types = %v", f.Groups[0].InputTypes)
	}
	if f.Fields[0].GroupLabel == nil || *f.Fields[0].GroupLabel != "Shipping method" {
		t.Errorf("field group_label = %v", f.Fields[0].GroupLabel)
	}
	if f.Fields[2].GroupLabel != nil {
		t.Errorf("legendless field group_label = %v, want null", *f.Fields[2].GroupLabel)
	}
}

func TestSkippedInputTypes(t *testing.T) {
	doc := parse(t, `<form>
		<input type="hidden" name="csrf">
		<input type="submit" value="Go">
		<input type="text" id="q">
		<select id="s"><option>A</option></select>
		<textarea id="msg"></textarea>
	</form>`)

	p := ExtractForms(doc)
	fields := p.Forms[0].Fields

	if len(fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(fields))
	}
	if fields[0].Type != "text" || fields[1].Type != "select" || fields[2].Type != "textarea" {
		t.Errorf("types = %q %q %q", fields[0].Type, fields[1].Type, fields[2].Type)
	}
}

func TestOrphanLabels(t *testing.T) {
	doc := parse(t, `
		<form><label for="ok">Fine</label><input id="ok"></form>
		<label for="ghost">Nobody home</label>
		<label for="outside">Points at a div</label><div id="outside"></div>`)

	p := ExtractForms(doc)

	if len(p.OrphanLabels) != 2 {
		t.Fatalf("orphans = %+v", p.OrphanLabels)
	}
	if p.OrphanLabels[0].For != "ghost" || p.OrphanLabels[0].TargetTag != nil {
		t.Errorf("orphan[0] = %+v", p.OrphanLabels[0])
	}
	if p.OrphanLabels[1].For != "outside" {
		t.Errorf("orphan[1] = %+v", p.OrphanLabels[1])
	}
	if p.OrphanLabels[1].TargetTag == nil || *p.OrphanLabels[1].TargetTag != "div" {
		t.Errorf("orphan[1] target_tag = %v", p.OrphanLabels[1].TargetTag)
	}
}

func TestFormlessDocument(t *testing.T) {
	doc := parse(t, `<p>No forms at all.</p>`)
	p := ExtractForms(doc)
	if len(p.Forms) != 0 || len(p.OrphanLabels) != 0 {
		t.Errorf("payload = %+v", p)
	}
	if p.Forms == nil || p.OrphanLabels == nil {
		t.Error("slices must be non-nil so they serialize as [] not null")
	}
}
