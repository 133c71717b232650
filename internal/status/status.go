// Package status reports how far a multi-night run has progressed by
// inspecting what each phase has left on disk.
package status

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/dusk-obs/multinight/internal/merge"
	"github.com/dusk-obs/multinight/internal/pathutil"
)

// SessionInfo describes the calibration state of a single session.
type SessionInfo struct {
	Path       string // resolved session path
	Calibrated bool   // process directory exists with at least one frame
	FrameCount int    // matching preprocessed frames found
}

// RunStatus holds the observed state of one multi-night run.
type RunStatus struct {
	Sessions    []SessionInfo
	HasOutput   bool // an output directory was configured at all
	Merged      bool // output directory holds a conversion manifest
	MergedCount int  // renumbered frames present in the output directory
}

// Scan inspects the sessions and output directory and reports which phases
// have produced output. It never fails: unreadable directories simply count
// as not done.
func Scan(sessionPaths []string, outputPath, processDir, seqName string) RunStatus {
	frameRe := regexp.MustCompile("^" + regexp.QuoteMeta(seqName) + `_.*\.fit$`)

	var st RunStatus
	for _, sessionPath := range sessionPaths {
		resolved, err := pathutil.Resolve(sessionPath)
		if err != nil {
			resolved = sessionPath
		}
		count := countFrames(filepath.Join(resolved, processDir), frameRe)
		st.Sessions = append(st.Sessions, SessionInfo{
			Path:       resolved,
			Calibrated: count > 0,
			FrameCount: count,
		})
	}

	// An unconfigured output path must not fall through to the working
	// directory and report its contents as merge state.
	if outputPath == "" {
		return st
	}
	st.HasOutput = true

	outAbs, err := pathutil.Resolve(outputPath)
	if err != nil {
		outAbs = outputPath
	}
	if _, err := os.Stat(filepath.Join(outAbs, merge.ManifestFilename)); err == nil {
		st.Merged = true
	}
	st.MergedCount = countFrames(outAbs, frameRe)

	return st
}

// countFrames counts directory entries whose names match the frame pattern.
func countFrames(dir string, frameRe *regexp.Regexp) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !frameRe.MatchString(entry.Name()) {
			continue
		}
		count++
	}
	return count
}
