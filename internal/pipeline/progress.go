package pipeline

import "fmt"

// ProgressStatus is the state of a phase (or of one session within the
// calibrate phase).
type ProgressStatus string

const (
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// ProgressEvent is emitted to the operator while the pipeline runs. These
// events are the operator-facing narrative; the tool's own transcript goes to
// the log file instead.
type ProgressEvent struct {
	Phase   Phase
	Session string // session path during calibration, empty otherwise
	Status  ProgressStatus
	Message string
}

// progressBuffer holds a long run's worth of events; three per phase plus one
// per session stays well under it.
const progressBuffer = 64

// ProgressReporter fans the run narrative out to the CLI over a buffered
// channel. Events are advisory: a slow consumer loses events, it never stalls
// the pipeline.
type ProgressReporter struct {
	ch chan ProgressEvent
}

func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, progressBuffer),
	}
}

// Emit queues an event without blocking. A full buffer drops the event.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
	}
}

// Subscribe returns the channel events arrive on.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close ends the event stream; Subscribe's channel drains and closes.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch {
	case event.Phase == PhaseCalibrate && event.Status == ProgressWorking:
		return fmt.Sprintf("Calibrating session: %s ...", event.Session)
	case event.Phase == PhaseMerge && event.Status == ProgressWorking:
		return "Merging sessions together ..."
	case event.Phase == PhaseStack && event.Status == ProgressWorking:
		return "Stacking merged sessions ..."
	case event.Status == ProgressComplete:
		return fmt.Sprintf("  ✓ %s complete", event.Phase)
	case event.Status == ProgressFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", event.Phase, event.Message)
	default:
		return fmt.Sprintf("  ? %s (%s)", event.Phase, event.Status)
	}
}
