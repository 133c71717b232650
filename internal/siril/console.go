package siril

import (
	"context"
	"fmt"
	"os"
)

// Console layers scoped session and working-directory handling on top of a
// Client. It tracks the directory it has told the tool to use so that nested
// WithDirectory calls restore state in LIFO order.
//
// A Console is not safe for concurrent use; the underlying tool has a single
// working directory, so calls must be sequential anyway.
type Console struct {
	client Client
	cwd    string
}

// NewConsole wraps client. The tracked working directory starts as the
// current process working directory, which is where Siril starts out when
// launched by this process.
func NewConsole(client Client) *Console {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Console{client: client, cwd: cwd}
}

// WithSession opens a session, runs fn, and closes the session on every exit
// path. A close failure after a successful fn is reported; after a failed fn
// the fn error wins.
func (c *Console) WithSession(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err := c.client.Open(ctx); err != nil {
		return fmt.Errorf("siril: open session: %w", err)
	}
	defer func() {
		closeErr := c.client.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("siril: close session: %w", closeErr)
		}
	}()

	return fn(ctx)
}

// WithDirectory changes the tool's working directory to dir, runs fn, and
// changes back to the previous directory on every exit path, including when
// fn fails. If the initial change fails, fn never runs and no restore is
// attempted.
func (c *Console) WithDirectory(ctx context.Context, dir string, fn func(ctx context.Context) error) (err error) {
	saved := c.cwd

	if err := c.client.ChangeDirectory(ctx, dir); err != nil {
		return fmt.Errorf("siril: cd %s: %w", dir, err)
	}
	c.cwd = dir

	defer func() {
		restoreErr := c.client.ChangeDirectory(ctx, saved)
		c.cwd = saved
		if err == nil && restoreErr != nil {
			err = fmt.Errorf("siril: restore directory %s: %w", saved, restoreErr)
		}
	}()

	return fn(ctx)
}

// RunScript executes a script file in the tool's current working directory.
func (c *Console) RunScript(ctx context.Context, path string) error {
	if err := c.client.RunScript(ctx, path); err != nil {
		return fmt.Errorf("siril: run script %s: %w", path, err)
	}
	return nil
}
