package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressReporter_EmitAndSubscribe(t *testing.T) {
	pr := NewProgressReporter()
	defer pr.Close()

	ch := pr.Subscribe()
	want := ProgressEvent{
		Phase:   PhaseCalibrate,
		Session: "/data/night1",
		Status:  ProgressWorking,
	}

	pr.Emit(want)

	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress event")
	}
}

func TestProgressReporter_EmitWhenFull_DoesNotBlock(t *testing.T) {
	pr := NewProgressReporter()
	defer pr.Close()

	// Emitting well past the buffer size must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < progressBuffer+50; i++ {
			pr.Emit(ProgressEvent{Phase: PhaseMerge, Status: ProgressWorking})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked when the channel was full")
	}
}

func TestFormatProgress_Narrative(t *testing.T) {
	assert.Equal(t, "Calibrating session: /data/n1 ...",
		FormatProgress(ProgressEvent{Phase: PhaseCalibrate, Session: "/data/n1", Status: ProgressWorking}))
	assert.Equal(t, "Merging sessions together ...",
		FormatProgress(ProgressEvent{Phase: PhaseMerge, Status: ProgressWorking}))
	assert.Equal(t, "Stacking merged sessions ...",
		FormatProgress(ProgressEvent{Phase: PhaseStack, Status: ProgressWorking}))
}

func TestFormatProgress_Failure(t *testing.T) {
	got := FormatProgress(ProgressEvent{Phase: PhaseStack, Status: ProgressFailed, Message: "sequence not found"})
	assert.Contains(t, got, "stack")
	assert.Contains(t, got, "sequence not found")
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "calibrate", PhaseCalibrate.String())
	assert.Equal(t, "merge", PhaseMerge.String())
	assert.Equal(t, "stack", PhaseStack.String())
	assert.Equal(t, "unknown", Phase(9).String())
}
