package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a headless command execution
type RunnerConfig struct {
	Title      string   // Command title (e.g., "Server Ping")
	Command    string   // Full command (e.g., "mmprobe ping --once")
	Params     []Detail // Parameters to display in header
	TotalSteps int      // Total number of steps
	StepNames  []string // Names for each step
	// Hints turns a failure into troubleshooting tips. May be nil.
	Hints  func(error) []string
	Output io.Writer // Output writer (default: os.Stdout)
	Width  int       // Render width (default: terminal width)
}

// Runner orchestrates the header, step list and result box of a
// one-shot command.
type Runner struct {
	config   RunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
}

// NewRunner creates a new runner for a one-shot command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}

	header := NewHeader(config.Title, config.Command, config.Params...)
	header.SetWidth(width)

	var progress *Progress
	if config.TotalSteps > 0 {
		progress = NewProgress(config.TotalSteps)
		progress.SetStepNames(config.StepNames)
	}

	return &Runner{
		config:   config,
		header:   header,
		progress: progress,
		output:   config.Output,
		width:    width,
	}
}

// Operation is the work a command performs. It reports progress through
// onStep and returns the details shown in the success box.
type Operation func(ctx context.Context, onStep StepCallback) ([]Detail, error)

// Run prints the header, executes the operation and prints the result.
// The operation's error is returned unchanged.
func (r *Runner) Run(ctx context.Context, operation Operation) ([]Detail, error) {
	start := time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := operation(ctx, r.stepCallback())
	if err == nil {
		err = ctx.Err()
	}
	duration := time.Since(start)

	_, _ = fmt.Fprintln(r.output)
	if err != nil {
		r.printFailure(err, duration)
	} else {
		r.printSuccess(details, duration)
	}

	return details, err
}

// Progress returns the step tracker, nil when the command has no steps
func (r *Runner) Progress() *Progress {
	return r.progress
}

func (r *Runner) stepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}
		if name != "" {
			r.progress.Steps[stepNumber-1].Name = name
		}
		r.progress.UpdateStep(stepNumber, status, message)

		line := r.progress.renderStepLine(r.progress.Steps[stepNumber-1])
		switch {
		case status.Settled():
			_, _ = fmt.Fprintln(r.output, line)
		case status == StepRunning:
			// Overwritten when the step settles
			_, _ = fmt.Fprint(r.output, line+"\r")
		}
	}
}

func (r *Runner) printSuccess(details []Detail, duration time.Duration) {
	details = append(details, Detail{Key: "Duration", Value: duration.Round(time.Millisecond).String()})
	result := NewSuccessResult(r.config.Title+" complete", details...)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
}

func (r *Runner) printFailure(err error, duration time.Duration) {
	var tips []string
	if r.config.Hints != nil {
		tips = r.config.Hints(err)
	}
	result := NewFailureResult(r.config.Title+" failed", err, tips)
	result.AddDetail("Duration", duration.Round(time.Millisecond).String())
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
}
