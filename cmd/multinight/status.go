package main

import (
	"fmt"

	"github.com/dusk-obs/multinight/internal/pipeline"
	"github.com/dusk-obs/multinight/internal/status"
)

// runStatus prints what each phase has left on disk without touching Siril.
func runStatus(cfg pipeline.Config) error {
	if len(cfg.SessionPaths) == 0 {
		return fmt.Errorf("status: no sessions given")
	}

	st := status.Scan(cfg.SessionPaths, cfg.OutputPath, cfg.ProcessDir, cfg.SeqName)

	for _, s := range st.Sessions {
		label := "not calibrated"
		if s.Calibrated {
			label = fmt.Sprintf("%d frames", s.FrameCount)
		}
		fmt.Printf("  session %-40s [%s]\n", s.Path, label)
	}

	switch {
	case !st.HasOutput:
		fmt.Println("  merged  no output directory configured")
	case st.Merged:
		fmt.Printf("  merged  %d frames in output\n", st.MergedCount)
	default:
		fmt.Println("  merged  not yet")
	}
	return nil
}
