package siril

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Compile-time interface check.
var _ Client = (*PipeClient)(nil)

// reply is the tool's verdict on one submitted command.
type reply struct {
	ok      bool
	message string
}

// PipeClient drives a siril binary in pipe mode ("siril -p"): commands are
// written to the process's stdin one per line, and the process answers each
// with a "status:" line after any amount of log output. Scripts are executed
// by replaying their command lines one at a time, the same way pysiril does.
//
// Everything the tool prints is copied to the transcript sink, so a run's
// full Siril output can be captured to a log file while operator-facing
// progress goes elsewhere.
type PipeClient struct {
	binary     string
	args       []string
	transcript io.Writer

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	replies chan reply
	pump    *errgroup.Group
}

// PipeOption configures a PipeClient.
type PipeOption func(*PipeClient)

// WithTranscript directs everything the tool prints to w. Defaults to
// io.Discard.
func WithTranscript(w io.Writer) PipeOption {
	return func(c *PipeClient) {
		c.transcript = w
	}
}

// WithArgs appends extra arguments to the siril invocation.
func WithArgs(args ...string) PipeOption {
	return func(c *PipeClient) {
		c.args = append(c.args, args...)
	}
}

// NewPipeClient creates a client for the given siril binary. An empty binary
// selects "siril" from PATH.
func NewPipeClient(binary string, opts ...PipeOption) *PipeClient {
	if binary == "" {
		binary = "siril"
	}
	c := &PipeClient{
		binary:     binary,
		args:       []string{"-p"},
		transcript: io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open launches the siril process and waits for its ready handshake.
func (c *PipeClient) Open(ctx context.Context) error {
	if c.cmd != nil {
		return fmt.Errorf("siril: session already open")
	}

	cmd := exec.CommandContext(ctx, c.binary, c.args...)
	cmd.Stderr = c.transcript

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("siril: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("siril: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("siril: start %s: %w", c.binary, err)
	}

	c.cmd = cmd
	c.stdin = stdin
	// Buffered so a chatty tool can't wedge the pump between commands.
	c.replies = make(chan reply, 16)

	c.pump = &errgroup.Group{}
	c.pump.Go(func() error {
		defer close(c.replies)
		return c.readTranscript(stdout)
	})

	// Siril announces itself with a ready line before accepting commands.
	if err := c.await(ctx); err != nil {
		c.Close()
		return fmt.Errorf("siril: waiting for ready: %w", err)
	}
	return nil
}

// Close shuts the command stream down and reaps the process.
func (c *PipeClient) Close() error {
	if c.cmd == nil {
		return nil
	}

	c.stdin.Close()
	pumpErr := c.pump.Wait()
	waitErr := c.cmd.Wait()
	c.cmd = nil

	if waitErr != nil {
		return fmt.Errorf("siril: process exit: %w", waitErr)
	}
	if pumpErr != nil {
		return fmt.Errorf("siril: transcript: %w", pumpErr)
	}
	return nil
}

// ChangeDirectory issues a cd command.
func (c *PipeClient) ChangeDirectory(ctx context.Context, dir string) error {
	return c.send(ctx, fmt.Sprintf("cd %q", dir))
}

// RunScript replays the script file's commands one at a time, stopping at the
// first command the tool rejects.
func (c *PipeClient) RunScript(ctx context.Context, path string) error {
	commands, err := scriptCommands(path)
	if err != nil {
		return err
	}
	for _, command := range commands {
		if err := c.send(ctx, command); err != nil {
			return fmt.Errorf("script %s: %w", path, err)
		}
	}
	return nil
}

// send submits one command line and blocks for the tool's status reply.
func (c *PipeClient) send(ctx context.Context, command string) error {
	if c.cmd == nil {
		return fmt.Errorf("siril: session not open")
	}
	if _, err := fmt.Fprintln(c.stdin, command); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	if err := c.await(ctx); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}

// await blocks for the next ready/status reply from the tool.
func (c *PipeClient) await(ctx context.Context) error {
	select {
	case r, open := <-c.replies:
		if !open {
			return fmt.Errorf("tool exited")
		}
		if !r.ok {
			return fmt.Errorf("%s", r.message)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readTranscript copies tool output to the transcript sink and forwards
// command verdicts to the replies channel.
func (c *PipeClient) readTranscript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintln(c.transcript, line)

		switch {
		case line == "ready":
			c.replies <- reply{ok: true}
		case strings.HasPrefix(line, "status: success"):
			c.replies <- reply{ok: true}
		case strings.HasPrefix(line, "status: error"):
			c.replies <- reply{ok: false, message: line}
		}
	}
	return scanner.Err()
}

// scriptCommands reads a Siril script file and returns its command lines,
// skipping blanks and # comments.
func scriptCommands(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("siril: read script: %w", err)
	}

	var commands []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		commands = append(commands, line)
	}
	return commands, nil
}
