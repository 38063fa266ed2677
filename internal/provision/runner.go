// Package provision runs the ordered steps that bring up one site.
//
// Steps run one after another. The first failure stops the run, is reported
// under the step's name and leaves every earlier step in place.
package provision

import (
	"context"
	"time"

	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/logger"
)

// Step statuses.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusPending = "pending"
	StatusPlanned = "planned"
)

// Step is one named side effect.
type Step struct {
	Name        string
	Description string
	Run         func(ctx context.Context) error
}

// StepResult is the outcome of one step.
type StepResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
}

// Report is the outcome of a run or plan.
type Report struct {
	Domain string       `json:"domain"`
	DryRun bool         `json:"dry_run"`
	Status string       `json:"status"`
	Steps  []StepResult `json:"steps"`
}

// Failed returns the failed step, if any.
func (r *Report) Failed() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return s, true
		}
	}
	return StepResult{}, false
}

var now = time.Now

// Run executes steps in order and stops at the first error.
// Steps after the failure are reported as pending.
func Run(ctx context.Context, domain string, steps []Step) (*Report, error) {
	report := &Report{
		Domain: domain,
		Status: StatusOK,
		Steps:  make([]StepResult, 0, len(steps)),
	}

	for i, step := range steps {
		result := StepResult{Name: step.Name, Description: step.Description}

		err := ctx.Err()
		if err == nil {
			logger.Debug("[%s] started", step.Name)
			startedAt := now()
			err = step.Run(ctx)
			result.DurationMS = now().Sub(startedAt).Milliseconds()
		}

		if err != nil {
			result.Status = StatusFailed
			result.Error = err.Error()
			report.Steps = append(report.Steps, result)
			report.Status = StatusFailed
			for _, rest := range steps[i+1:] {
				report.Steps = append(report.Steps, StepResult{Name: rest.Name, Description: rest.Description, Status: StatusPending})
			}
			logger.Error("[%s] failed: %v", step.Name, err)
			return report, errors.StepFailed(step.Name, err)
		}

		result.Status = StatusOK
		report.Steps = append(report.Steps, result)
		logger.DebugFields("step finished", map[string]interface{}{
			"step":        step.Name,
			"duration_ms": result.DurationMS,
		})
	}

	return report, nil
}

// Plan describes steps without running them.
func Plan(domain string, steps []Step) *Report {
	report := &Report{
		Domain: domain,
		DryRun: true,
		Status: StatusPlanned,
		Steps:  make([]StepResult, 0, len(steps)),
	}
	for _, step := range steps {
		report.Steps = append(report.Steps, StepResult{
			Name:        step.Name,
			Description: step.Description,
			Status:      StatusPlanned,
		})
	}
	return report
}
