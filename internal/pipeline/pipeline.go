// Package pipeline sequences the three phases of a multi-night run:
// calibrate each session, merge the preprocessed frames, stack the result.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/dusk-obs/multinight/internal/merge"
	"github.com/dusk-obs/multinight/internal/pathutil"
	"github.com/dusk-obs/multinight/internal/siril"
)

// Pipeline runs the calibrate/merge/stack sequence against one Siril session.
// Phases run strictly in order with no retry: the first error aborts the run
// at whatever phase it occurred in, leaving partial output on disk.
type Pipeline struct {
	cfg      Config
	console  *siril.Console
	progress *ProgressReporter
}

// New creates a Pipeline driving the given Siril client. The configuration is
// normalized but not validated; call Config.Validate first.
func New(cfg Config, client siril.Client) *Pipeline {
	cfg.Normalize()
	return &Pipeline{
		cfg:      cfg,
		console:  siril.NewConsole(client),
		progress: NewProgressReporter(),
	}
}

// Progress returns a channel that emits progress events.
func (p *Pipeline) Progress() <-chan ProgressEvent {
	return p.progress.Subscribe()
}

// Close shuts down the progress reporter. Callers should invoke this when the
// pipeline is no longer needed.
func (p *Pipeline) Close() {
	p.progress.Close()
}

// Run executes the full pipeline inside a single tool session:
//
//  1. Calibrate each session with the calibration script, scoped to that
//     session's directory.
//  2. Merge every session's preprocessed frames into the output directory
//     under one renumbered sequence (absolute paths, no scoping needed).
//  3. Stack the merged sequence with the stacking script, scoped to the
//     output directory.
//
// The output directory is created before calibration begins if it does not
// exist; existing contents are never removed.
func (p *Pipeline) Run(ctx context.Context) error {
	outAbs, err := pathutil.Resolve(p.cfg.OutputPath)
	if err != nil {
		return err
	}
	calibrateAbs, err := pathutil.Resolve(p.cfg.CalibrateScript)
	if err != nil {
		return err
	}
	stackAbs, err := pathutil.Resolve(p.cfg.StackScript)
	if err != nil {
		return err
	}

	// Session paths are resolved once, up front, so the tool's cd targets
	// and the merge phase agree about which directory a session is.
	sessions := make([]string, len(p.cfg.SessionPaths))
	for i, session := range p.cfg.SessionPaths {
		if sessions[i], err = pathutil.Resolve(session); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(outAbs, 0o755); err != nil {
		return fmt.Errorf("pipeline: create output directory: %w", err)
	}

	return p.console.WithSession(ctx, func(ctx context.Context) error {
		if err := p.calibrate(ctx, calibrateAbs, sessions); err != nil {
			return err
		}
		if err := p.merge(outAbs, sessions); err != nil {
			return err
		}
		return p.stack(ctx, outAbs, stackAbs)
	})
}

// calibrate runs the calibration script once per session, in order, each
// scoped to its session's directory.
func (p *Pipeline) calibrate(ctx context.Context, script string, sessions []string) error {
	for _, session := range sessions {
		p.progress.Emit(ProgressEvent{Phase: PhaseCalibrate, Session: session, Status: ProgressWorking})

		err := p.console.WithDirectory(ctx, session, func(ctx context.Context) error {
			return p.console.RunScript(ctx, script)
		})
		if err != nil {
			p.progress.Emit(ProgressEvent{Phase: PhaseCalibrate, Session: session, Status: ProgressFailed, Message: err.Error()})
			return fmt.Errorf("pipeline: calibrate session %s: %w", session, err)
		}
	}

	p.progress.Emit(ProgressEvent{Phase: PhaseCalibrate, Status: ProgressComplete})
	return nil
}

// merge renumbers every session's preprocessed frames into outAbs.
func (p *Pipeline) merge(outAbs string, sessions []string) error {
	p.progress.Emit(ProgressEvent{Phase: PhaseMerge, Status: ProgressWorking})

	manifest, err := merge.Sessions(sessions, outAbs, p.cfg.ProcessDir, p.cfg.SeqName)
	if err != nil {
		p.progress.Emit(ProgressEvent{Phase: PhaseMerge, Status: ProgressFailed, Message: err.Error()})
		return fmt.Errorf("pipeline: merge sessions: %w", err)
	}

	p.progress.Emit(ProgressEvent{
		Phase:   PhaseMerge,
		Status:  ProgressComplete,
		Message: fmt.Sprintf("%d frames", manifest.Len()),
	})
	return nil
}

// stack runs the stacking script scoped to the output directory.
func (p *Pipeline) stack(ctx context.Context, outAbs, script string) error {
	p.progress.Emit(ProgressEvent{Phase: PhaseStack, Status: ProgressWorking})

	err := p.console.WithDirectory(ctx, outAbs, func(ctx context.Context) error {
		return p.console.RunScript(ctx, script)
	})
	if err != nil {
		p.progress.Emit(ProgressEvent{Phase: PhaseStack, Status: ProgressFailed, Message: err.Error()})
		return fmt.Errorf("pipeline: stack merged sessions: %w", err)
	}

	p.progress.Emit(ProgressEvent{Phase: PhaseStack, Status: ProgressComplete})
	return nil
}
