// Package siril drives a Siril instance through its command interface.
//
// The pipeline depends only on the narrow Client capability surface; the
// concrete PipeClient in this package speaks to a real siril binary, and
// tests substitute their own fakes.
package siril

import "context"

// Client is the capability surface the pipeline needs from Siril. A client
// represents one potential session with the tool: Open before issuing
// commands, Close when done.
//
// Siril keeps one mutable working directory per session, so command order
// matters; callers are expected to go through Console for scoped directory
// changes rather than calling ChangeDirectory directly.
type Client interface {
	// Open starts a session with the tool.
	Open(ctx context.Context) error

	// Close ends the session and releases the underlying process or
	// connection. Close is safe to call after a failed command.
	Close() error

	// ChangeDirectory sets the tool's working directory.
	ChangeDirectory(ctx context.Context, dir string) error

	// RunScript executes a Siril script file. It blocks until the script
	// finishes and returns an error if any command in it fails.
	RunScript(ctx context.Context, path string) error
}
