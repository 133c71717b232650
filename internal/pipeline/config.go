package pipeline

import "fmt"

// Defaults matching Siril's own naming conventions for OSC preprocessing.
const (
	// DefaultProcessDir is the subdirectory each calibration script leaves
	// its preprocessed frames in.
	DefaultProcessDir = "process"

	// DefaultSeqName is the sequence-name prefix of preprocessed light frames.
	DefaultSeqName = "pp_light"
)

// LogFilename is the fixed name of the Siril transcript log written into the
// output directory for each run.
const LogFilename = "siril-mulit-night.log"

// Config holds everything one multi-night run needs.
type Config struct {
	// SessionPaths are the capture-session directories, in the order they
	// are calibrated and merged. Order determines sequence numbering.
	SessionPaths []string

	// OutputPath is the directory merged frames, the conversion manifest,
	// and the final stack land in. Created if absent; reused untouched if
	// present.
	OutputPath string

	// CalibrateScript is the Siril script run once per session.
	CalibrateScript string

	// StackScript is the Siril script run once against the merged output.
	StackScript string

	// ProcessDir is the name of each session's process subdirectory.
	ProcessDir string

	// SeqName is the sequence-name prefix of preprocessed light frames.
	SeqName string
}

// Normalize fills in defaulted fields.
func (c *Config) Normalize() {
	if c.ProcessDir == "" {
		c.ProcessDir = DefaultProcessDir
	}
	if c.SeqName == "" {
		c.SeqName = DefaultSeqName
	}
}

// Validate rejects configurations missing a required parameter. It is called
// before the pipeline starts so usage errors never reach Siril.
func (c *Config) Validate() error {
	if len(c.SessionPaths) == 0 {
		return fmt.Errorf("pipeline: no sessions given")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("pipeline: no output directory given")
	}
	if c.CalibrateScript == "" {
		return fmt.Errorf("pipeline: no calibration script given")
	}
	if c.StackScript == "" {
		return fmt.Errorf("pipeline: no stacking script given")
	}
	return nil
}
