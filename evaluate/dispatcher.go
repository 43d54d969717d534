// CLAUDE:SUMMARY Evaluation dispatcher: bounded worker pool running eligible tasks with isolated failures and token accounting.
package evaluate

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/axaudit/prompts"
)

// Task result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
	StatusDryRun  = "dry_run"
)

// Skip reasons recorded on skipped tasks.
const (
	SkipSummaryNotRequested = "summary (not requested)"
	SkipEmptyPayload        = "empty payload"
)

// TaskResult is the terminal record of one task in one run.
type TaskResult struct {
	Task         string        `json:"task"`
	Status       string        `json:"status"`
	SkipReason   string        `json:"skip_reason,omitempty"`
	Slice        string        `json:"payload_slice,omitempty"`
	Response     string        `json:"response,omitempty"`
	Error        string        `json:"error,omitempty"`
	Model        string        `json:"model,omitempty"`
	Criteria     []string      `json:"wcag_criteria"`
	InputTokens  int           `json:"input_tokens"`
	OutputTokens int           `json:"output_tokens"`
	Duration     time.Duration `json:"duration_ns"`
}

// Usage is the token total across a run.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// DispatcherConfig tunes one evaluation run.
type DispatcherConfig struct {
	// Workers bounds concurrent outbound calls. Default: 4.
	Workers int `json:"workers" yaml:"workers"`

	// TaskTimeout boxes each call independently. Default: 120s.
	TaskTimeout time.Duration `json:"task_timeout" yaml:"task_timeout"`

	// IncludeSummaries enables summary tasks, which never run otherwise.
	IncludeSummaries bool `json:"include_summaries" yaml:"include_summaries"`

	// DryRun records the slice for every eligible task without calling
	// the model.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *DispatcherConfig) defaults() {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = 120 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Dispatcher runs registry tasks against one document's payloads through a
// bounded worker pool. Each task writes to its own result slot; one task's
// failure never affects another's.
type Dispatcher struct {
	ev  Evaluator
	cfg DispatcherConfig
}

func NewDispatcher(ev Evaluator, cfg DispatcherConfig) *Dispatcher {
	cfg.defaults()
	return &Dispatcher{ev: ev, cfg: cfg}
}

// Run executes every task in specs against the payloads. Slicing and gate
// checks run inline; only model calls go through the pool. Cancelling ctx
// stops issuing new calls but already-completed results are kept, so a
// partial result set is valid output.
func (d *Dispatcher) Run(ctx context.Context, specs []prompts.TaskSpec, p prompts.Payloads) []TaskResult {
	results := make([]TaskResult, len(specs))

	g := &errgroup.Group{}
	g.SetLimit(d.cfg.Workers)

	for i, spec := range specs {
		res := &results[i]
		res.Task = spec.Name
		res.Criteria = spec.Criteria

		sliceJSON, err := prompts.Slice(spec, p)
		if err != nil {
			res.Status = StatusError
			res.Error = err.Error()
			continue
		}
		res.Slice = sliceJSON

		// The two gates are independent: a summary task never runs
		// without the flag, and any task skips on an empty slice.
		if spec.IsSummary && !d.cfg.IncludeSummaries {
			res.Status = StatusSkipped
			res.SkipReason = SkipSummaryNotRequested
			continue
		}
		if spec.SkipIfEmpty && prompts.IsEmpty(sliceJSON) {
			res.Status = StatusSkipped
			res.SkipReason = SkipEmptyPayload
			continue
		}

		prompt, err := prompts.Fill(spec, sliceJSON)
		if err != nil {
			res.Status = StatusError
			res.Error = err.Error()
			continue
		}

		if d.cfg.DryRun {
			res.Status = StatusDryRun
			continue
		}

		g.Go(func() error {
			d.runTask(ctx, res, prompt)
			return nil
		})
	}

	g.Wait()
	return results
}

func (d *Dispatcher) runTask(ctx context.Context, res *TaskResult, prompt string) {
	if err := ctx.Err(); err != nil {
		res.Status = StatusError
		res.Error = "run cancelled: " + err.Error()
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, d.cfg.TaskTimeout)
	defer cancel()

	start := time.Now()
	resp, err := d.ev.Evaluate(callCtx, prompt)
	res.Duration = time.Since(start)

	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		d.cfg.Logger.Warn("task evaluation failed",
			"task", res.Task, "duration", res.Duration, "error", err)
		return
	}

	res.Status = StatusSuccess
	res.Response = resp.Text
	res.Model = resp.Model
	res.InputTokens = resp.InputTokens
	res.OutputTokens = resp.OutputTokens
	d.cfg.Logger.Debug("task evaluated",
		"task", res.Task,
		"duration", res.Duration,
		"input_tokens", res.InputTokens,
		"output_tokens", res.OutputTokens)
}

// TotalUsage sums token counts over a result set. Pure reduction, computed
// after all tasks finish or are abandoned.
func TotalUsage(results []TaskResult) Usage {
	var u Usage
	for _, r := range results {
		u.InputTokens += r.InputTokens
		u.OutputTokens += r.OutputTokens
	}
	return u
}

// CountByStatus tallies results per status for run manifests.
func CountByStatus(results []TaskResult) map[string]int {
	counts := map[string]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
