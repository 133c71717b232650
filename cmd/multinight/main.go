package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dusk-obs/multinight/internal/config"
	"github.com/dusk-obs/multinight/internal/pathutil"
	"github.com/dusk-obs/multinight/internal/pipeline"
	"github.com/dusk-obs/multinight/internal/siril"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Sessions        stringList
	Output          string
	CalibrateScript string
	StackScript     string
	ProcessDir      string
	SeqName         string
	SirilBinary     string
	Status          bool
	Version         bool
}

// stringList accumulates repeated or comma-separated flag values.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("multinight", flag.ContinueOnError)
	fs.Var(&flags.Sessions, "sessions", "session directories, comma-separated (repeatable)")
	fs.StringVar(&flags.Output, "o", "", "output directory (shorthand)")
	fs.StringVar(&flags.Output, "output", "", "output directory for the merged sequence")
	fs.StringVar(&flags.CalibrateScript, "calibrate-script", "", "Siril script run once per session")
	fs.StringVar(&flags.StackScript, "stack-script", "", "Siril script run against the merged output")
	fs.StringVar(&flags.ProcessDir, "p", "", "process directory name (shorthand)")
	fs.StringVar(&flags.ProcessDir, "process-dir", "", "name of each session's process directory")
	fs.StringVar(&flags.SeqName, "seq-name", "", "sequence name of the preprocessed light frames")
	fs.StringVar(&flags.SirilBinary, "siril", "", "path to the siril binary")
	fs.BoolVar(&flags.Status, "status", false, "report phase completion instead of running")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	fileCfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading multinight.yml: %w", err)
	}

	cfg := buildConfig(flags, fileCfg)

	if flags.Status {
		return runStatus(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	outAbs, err := pathutil.Resolve(cfg.OutputPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outAbs, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// Everything Siril prints during the run is captured here; the operator
	// narrative stays on stderr.
	logFile, err := os.Create(filepath.Join(outAbs, pipeline.LogFilename))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	binary := flags.SirilBinary
	if binary == "" {
		binary = fileCfg.SirilBinary
	}
	client := siril.NewPipeClient(binary, siril.WithTranscript(logFile))

	p := pipeline.New(cfg, client)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range p.Progress() {
			fmt.Fprintln(os.Stderr, pipeline.FormatProgress(event))
		}
	}()

	runErr := p.Run(context.Background())
	p.Close()
	<-done

	return runErr
}

// buildConfig merges flag values over the project config file.
func buildConfig(flags cliFlags, fileCfg *config.ProjectConfig) pipeline.Config {
	cfg := pipeline.Config{
		SessionPaths:    flags.Sessions,
		OutputPath:      flags.Output,
		CalibrateScript: flags.CalibrateScript,
		StackScript:     flags.StackScript,
		ProcessDir:      flags.ProcessDir,
		SeqName:         flags.SeqName,
	}
	if len(cfg.SessionPaths) == 0 {
		cfg.SessionPaths = fileCfg.Sessions
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = fileCfg.Output
	}
	if cfg.CalibrateScript == "" {
		cfg.CalibrateScript = fileCfg.CalibrateScript
	}
	if cfg.StackScript == "" {
		cfg.StackScript = fileCfg.StackScript
	}
	if cfg.ProcessDir == "" {
		cfg.ProcessDir = fileCfg.ProcessDir
	}
	if cfg.SeqName == "" {
		cfg.SeqName = fileCfg.SeqName
	}
	cfg.Normalize()
	return cfg
}
