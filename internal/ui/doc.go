// Package ui renders the one-shot output of the non-interactive mmprobe
// commands.
//
// Unlike the interactive screens in package tui, these components print
// once and exit. A Runner prints a Header, reports each Step of an
// Operation as it settles, then prints a Result box:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:      "Server Ping",
//	    Command:    "mmprobe ping --once",
//	    Params:     []ui.Detail{{Key: "Server", Value: base}},
//	    TotalSteps: 2,
//	})
//
//	details, err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Detail, error) {
//	    onStep(1, "GET /api/v4/system/ping", ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, "", ui.StepComplete, "12ms")
//	    return []ui.Detail{{Key: "Status", Value: "OK"}}, nil
//	})
//
// Logging is controlled by MMPROBE_LOG_LEVEL. When it is unset zap is
// silent and only this package writes to the terminal.
package ui
