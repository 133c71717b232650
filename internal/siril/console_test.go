package siril

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records every call in order and can be told to fail specific
// operations.
type fakeClient struct {
	calls []string

	openErr   error
	closeErr  error
	cdErr     map[string]error // keyed by target directory
	scriptErr map[string]error // keyed by script path
}

func (f *fakeClient) Open(ctx context.Context) error {
	f.calls = append(f.calls, "open")
	return f.openErr
}

func (f *fakeClient) Close() error {
	f.calls = append(f.calls, "close")
	return f.closeErr
}

func (f *fakeClient) ChangeDirectory(ctx context.Context, dir string) error {
	f.calls = append(f.calls, "cd "+dir)
	return f.cdErr[dir]
}

func (f *fakeClient) RunScript(ctx context.Context, path string) error {
	f.calls = append(f.calls, "script "+path)
	return f.scriptErr[path]
}

func TestConsole_WithDirectory_RestoresOnSuccess(t *testing.T) {
	fake := &fakeClient{}
	console := NewConsole(fake)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	err = console.WithDirectory(context.Background(), "/data/night1", func(ctx context.Context) error {
		return console.RunScript(ctx, "/scripts/calibrate.ssf")
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"cd /data/night1",
		"script /scripts/calibrate.ssf",
		"cd " + cwd,
	}, fake.calls)
}

func TestConsole_WithDirectory_RestoresOnError(t *testing.T) {
	fake := &fakeClient{}
	console := NewConsole(fake)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	boom := errors.New("script blew up")
	err = console.WithDirectory(context.Background(), "/data/night1", func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The restore cd must still have happened.
	assert.Equal(t, []string{"cd /data/night1", "cd " + cwd}, fake.calls)
}

func TestConsole_WithDirectory_EnterFailureSkipsBody(t *testing.T) {
	fake := &fakeClient{cdErr: map[string]error{"/nope": errors.New("no such directory")}}
	console := NewConsole(fake)

	ran := false
	err := console.WithDirectory(context.Background(), "/nope", func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, ran, "body must not run when entering the directory fails")
	// No restore either: the directory never changed.
	assert.Equal(t, []string{"cd /nope"}, fake.calls)
}

func TestConsole_WithDirectory_NestedRestoresLIFO(t *testing.T) {
	fake := &fakeClient{}
	console := NewConsole(fake)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	err = console.WithDirectory(context.Background(), "/outer", func(ctx context.Context) error {
		return console.WithDirectory(ctx, "/inner", func(ctx context.Context) error {
			return nil
		})
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"cd /outer",
		"cd /inner",
		"cd /outer",
		"cd " + cwd,
	}, fake.calls)
}

func TestConsole_WithDirectory_RestoreFailureReported(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	fake := &fakeClient{cdErr: map[string]error{cwd: errors.New("tool hung up")}}
	console := NewConsole(fake)

	err = console.WithDirectory(context.Background(), "/data", func(ctx context.Context) error {
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore directory")
}

func TestConsole_WithSession_ClosesOnSuccessAndError(t *testing.T) {
	for _, failure := range []error{nil, errors.New("phase failed")} {
		fake := &fakeClient{}
		console := NewConsole(fake)

		err := console.WithSession(context.Background(), func(ctx context.Context) error {
			return failure
		})
		if failure == nil {
			require.NoError(t, err)
		} else {
			require.ErrorIs(t, err, failure)
		}
		assert.Equal(t, []string{"open", "close"}, fake.calls,
			fmt.Sprintf("failure=%v", failure))
	}
}

func TestConsole_WithSession_OpenFailureSkipsBody(t *testing.T) {
	fake := &fakeClient{openErr: errors.New("siril not found")}
	console := NewConsole(fake)

	ran := false
	err := console.WithSession(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, ran)
	assert.Equal(t, []string{"open"}, fake.calls, "close must not run for a session that never opened")
}
