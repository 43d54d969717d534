package evaluate

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hazyhaar/axaudit/checklist"
	"github.com/hazyhaar/axaudit/prompts"
)

// fakeEvaluator counts calls and fails any prompt containing failOn, so
// tests can verify gates never reach the model and one task's failure stays
// contained.
type fakeEvaluator struct {
	calls  atomic.Int64
	failOn string
}

func (f *fakeEvaluator) Evaluate(_ context.Context, prompt string) (*Response, error) {
	f.calls.Add(1)
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return nil, errors.New("model exploded")
	}
	return &Response{
		Text:         "[]",
		Model:        "fake-model",
		InputTokens:  100,
		OutputTokens: 25,
	}, nil
}

func (f *fakeEvaluator) Model() string { return "fake-model" }

func sp(s string) *string { return &s }

// populatedPayloads activates exactly five tasks: page_title,
// heading_structure, link_clarity, landmark_structure, and
// informative_alt_quality. Everything else slices to an empty collection.
func populatedPayloads() prompts.Payloads {
	return prompts.Payloads{
		Semantic: &checklist.SemanticPayload{
			PageTitle:    checklist.PageTitle{Title: "Acme Store", H1: "Welcome to Acme"},
			FlaggedLinks: []checklist.FlaggedLink{{Text: sp("Click here")}},
			Landmarks:    []checklist.Landmark{{Tag: "main"}},
		},
		Forms: &checklist.FormsPayload{},
		Nontext: &checklist.NontextPayload{
			Images: checklist.ImagePartition{
				Informative: []checklist.Image{
					{Src: "hero.jpg", Alt: sp("a barn"), AltFlags: []string{}},
				},
			},
		},
	}
}

func emptyPayloads() prompts.Payloads {
	return prompts.Payloads{
		Semantic: &checklist.SemanticPayload{},
		Forms:    &checklist.FormsPayload{},
		Nontext:  &checklist.NontextPayload{},
	}
}

func resultFor(t *testing.T, results []TaskResult, task string) TaskResult {
	t.Helper()
	for _, r := range results {
		if r.Task == task {
			return r
		}
	}
	t.Fatalf("no result for task %q", task)
	return TaskResult{}
}

func TestDispatcherRun(t *testing.T) {
	fake := &fakeEvaluator{}
	d := NewDispatcher(fake, DispatcherConfig{Logger: discardLogger()})
	results := d.Run(context.Background(), prompts.Registry(), populatedPayloads())

	if len(results) != len(prompts.Registry()) {
		t.Fatalf("got %d results, want %d", len(results), len(prompts.Registry()))
	}

	counts := CountByStatus(results)
	if counts[StatusSuccess] != 5 {
		t.Errorf("success count = %d, want 5: %v", counts[StatusSuccess], counts)
	}
	if counts[StatusSkipped] != 16 {
		t.Errorf("skipped count = %d, want 16: %v", counts[StatusSkipped], counts)
	}
	if got := fake.calls.Load(); got != 5 {
		t.Errorf("model called %d times, want 5", got)
	}

	pt := resultFor(t, results, "page_title")
	if pt.Status != StatusSuccess {
		t.Fatalf("page_title status = %q (%s)", pt.Status, pt.Error)
	}
	if pt.Response != "[]" || pt.Model != "fake-model" {
		t.Errorf("page_title result = %+v", pt)
	}
	if !strings.Contains(pt.Slice, "Acme Store") {
		t.Errorf("page_title slice not recorded: %q", pt.Slice)
	}
	if len(pt.Criteria) == 0 {
		t.Error("page_title criteria not carried over")
	}

	usage := TotalUsage(results)
	if usage.InputTokens != 500 || usage.OutputTokens != 125 {
		t.Errorf("usage = %+v, want 500/125", usage)
	}
}

func TestDispatcherSkipsEmptySlices(t *testing.T) {
	fake := &fakeEvaluator{}
	d := NewDispatcher(fake, DispatcherConfig{Logger: discardLogger()})

	var specs []prompts.TaskSpec
	for _, name := range []string{"page_title", "link_clarity", "label_quality", "svg_accessibility"} {
		spec, err := prompts.Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		specs = append(specs, spec)
	}

	results := d.Run(context.Background(), specs, emptyPayloads())
	for _, r := range results {
		if r.Status != StatusSkipped {
			t.Errorf("%s: status = %q, want skipped", r.Task, r.Status)
		}
		if r.SkipReason != SkipEmptyPayload {
			t.Errorf("%s: skip reason = %q", r.Task, r.SkipReason)
		}
		if r.Slice == "" {
			t.Errorf("%s: slice not recorded on skip", r.Task)
		}
	}
	if got := fake.calls.Load(); got != 0 {
		t.Errorf("model called %d times on empty payloads", got)
	}
}

func TestDispatcherSummaryGate(t *testing.T) {
	fake := &fakeEvaluator{}
	p := populatedPayloads()

	d := NewDispatcher(fake, DispatcherConfig{Logger: discardLogger()})
	results := d.Run(context.Background(), prompts.Registry(), p)
	for _, name := range []string{"semantic_summary", "form_summary", "nontext_summary"} {
		r := resultFor(t, results, name)
		if r.Status != StatusSkipped || r.SkipReason != SkipSummaryNotRequested {
			t.Errorf("%s without flag: status=%q reason=%q", name, r.Status, r.SkipReason)
		}
	}

	d = NewDispatcher(fake, DispatcherConfig{IncludeSummaries: true, Logger: discardLogger()})
	results = d.Run(context.Background(), prompts.Registry(), p)
	for _, r := range results {
		if r.SkipReason == SkipSummaryNotRequested {
			t.Errorf("%s still gated with summaries enabled", r.Task)
		}
	}
	if r := resultFor(t, results, "semantic_summary"); r.Status != StatusSuccess {
		t.Errorf("semantic_summary with flag: status = %q (%s)", r.Status, r.Error)
	}
}

func TestDispatcherFaultIsolation(t *testing.T) {
	// The marker only appears in the link_clarity slice.
	fake := &fakeEvaluator{failOn: "Click here"}
	d := NewDispatcher(fake, DispatcherConfig{Logger: discardLogger()})
	results := d.Run(context.Background(), prompts.Registry(), populatedPayloads())

	lc := resultFor(t, results, "link_clarity")
	if lc.Status != StatusError {
		t.Fatalf("link_clarity status = %q, want error", lc.Status)
	}
	if !strings.Contains(lc.Error, "model exploded") {
		t.Errorf("link_clarity error = %q", lc.Error)
	}
	if lc.InputTokens != 0 || lc.Response != "" {
		t.Errorf("failed task carries response data: %+v", lc)
	}

	for _, name := range []string{"page_title", "heading_structure", "landmark_structure", "informative_alt_quality"} {
		if r := resultFor(t, results, name); r.Status != StatusSuccess {
			t.Errorf("%s dragged down by failing task: status=%q err=%q", name, r.Status, r.Error)
		}
	}
}

func TestDispatcherDryRun(t *testing.T) {
	fake := &fakeEvaluator{}
	d := NewDispatcher(fake, DispatcherConfig{DryRun: true, Logger: discardLogger()})
	results := d.Run(context.Background(), prompts.Registry(), populatedPayloads())

	counts := CountByStatus(results)
	if counts[StatusDryRun] != 5 {
		t.Errorf("dry_run count = %d, want 5: %v", counts[StatusDryRun], counts)
	}
	if counts[StatusSkipped] != 16 {
		t.Errorf("skipped count = %d, want 16: %v", counts[StatusSkipped], counts)
	}
	if got := fake.calls.Load(); got != 0 {
		t.Errorf("model called %d times during dry run", got)
	}
	if r := resultFor(t, results, "page_title"); r.Slice == "" {
		t.Error("dry run did not record the slice")
	}
}

func TestDispatcherMissingPayload(t *testing.T) {
	fake := &fakeEvaluator{}
	d := NewDispatcher(fake, DispatcherConfig{Logger: discardLogger()})

	spec, err := prompts.Lookup("page_title")
	if err != nil {
		t.Fatal(err)
	}
	results := d.Run(context.Background(), []prompts.TaskSpec{spec}, prompts.Payloads{})
	if results[0].Status != StatusError {
		t.Fatalf("status = %q, want error", results[0].Status)
	}
	if !strings.Contains(results[0].Error, "payload missing") {
		t.Errorf("error = %q", results[0].Error)
	}
	if fake.calls.Load() != 0 {
		t.Error("model called for unsliceable task")
	}
}

func TestDispatcherCancelledContext(t *testing.T) {
	fake := &fakeEvaluator{}
	d := NewDispatcher(fake, DispatcherConfig{Logger: discardLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := d.Run(ctx, prompts.Registry(), populatedPayloads())

	if r := resultFor(t, results, "page_title"); r.Status != StatusError ||
		!strings.Contains(r.Error, "cancelled") {
		t.Errorf("page_title after cancel: status=%q err=%q", r.Status, r.Error)
	}
	if fake.calls.Load() != 0 {
		t.Error("model called after cancellation")
	}
}
