package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chazu/trazo/pkg/sketch"
)

// execute runs the command tree with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { sketch.SetLogger(nil) })

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "error"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.lisp")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestEvalSummary(t *testing.T) {
	script := writeScript(t, `(rect 0 0 100 50)`)
	out, _, err := execute(t, "eval", "--summary", script)
	require.NoError(t, err)

	var got evalOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 4, got.Points)
	assert.Equal(t, 4, got.Edges)
	assert.Equal(t, 1, got.Faces)
	assert.Nil(t, got.Sketch)
}

func TestEvalFullSketch(t *testing.T) {
	script := writeScript(t, `(tool :line) (line 0 0 100 0)`)
	out, _, err := execute(t, "eval", script)
	require.NoError(t, err)
	assert.Contains(t, out, "sketch:")
	assert.Contains(t, out, "tool: line")
}

func TestEvalScriptError(t *testing.T) {
	script := writeScript(t, `(rect 0 0`)
	_, stderr, err := execute(t, "eval", script)
	assert.ErrorIs(t, err, errScript)
	assert.Contains(t, stderr, script)
}

func TestEvalMissingScript(t *testing.T) {
	_, _, err := execute(t, "eval", filepath.Join(t.TempDir(), "missing.lisp"))
	assert.Error(t, err)
}

func TestEvalPrintsWarnings(t *testing.T) {
	script := writeScript(t, "(line 0 0 100 0)\n(line 100 0 0 0)")
	_, stderr, err := execute(t, "eval", "-s", script)
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning:")
}

func TestRenderPNGAndSVG(t *testing.T) {
	script := writeScript(t, `(rect 10 10 90 60)`)
	dir := t.TempDir()

	for _, name := range []string{"out.png", "out.svg"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			out, _, err := execute(t, "render", script, "-o", path, "--width", "120", "--height", "80")
			require.NoError(t, err)
			assert.Contains(t, out, "1 faces")

			b, err := os.ReadFile(path)
			require.NoError(t, err)
			if strings.HasSuffix(name, ".svg") {
				assert.Contains(t, string(b), `width="120"`)
			} else {
				assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")), "png signature")
			}
		})
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	script := writeScript(t, `(rect 10 10 90 60)`)
	_, _, err := execute(t, "render", script, "-o", filepath.Join(t.TempDir(), "x.bmp"), "-f", "bmp")
	assert.ErrorContains(t, err, "unknown format")
}

func TestRenderRequiresOutput(t *testing.T) {
	script := writeScript(t, `(rect 10 10 90 60)`)
	_, _, err := execute(t, "render", script)
	assert.Error(t, err)
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		format, path, want string
	}{
		{"", "a.png", "png"},
		{"", "a.SVG", "svg"},
		{"", "a", "png"},
		{"svg", "a.png", "svg"},
	}
	for _, tt := range tests {
		got, err := outputFormat(tt.format, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q %q", tt.format, tt.path)
	}
}

func TestExtrude(t *testing.T) {
	script := writeScript(t, "(rect 0 0 40 40)\n(rect 100 0 140 40)")

	out, _, err := execute(t, "extrude", script, "--height", "5", "--cells", "16")
	require.NoError(t, err)
	assert.Contains(t, out, "MESH")
	assert.Contains(t, out, "face-5")
	assert.Contains(t, out, "face-10")

	out, _, err = execute(t, "extrude", script, "--cells", "16", "--merge")
	require.NoError(t, err)
	assert.Contains(t, out, "sketch")
	assert.NotContains(t, out, "face-5")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trazo.yaml")
	out, _, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"--config", path, "config", "show"})
	require.NoError(t, root.Execute())
	t.Cleanup(func() { sketch.SetLogger(nil) })
	assert.Contains(t, stdout.String(), "snap_radius_px: 10")
}

func TestBadLogLevel(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "loud", "config", "show"})
	assert.Error(t, root.Execute())
}

func TestWatchFile(t *testing.T) {
	path := writeScript(t, `(rect 0 0 10 10)`)

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, func() error {
			calls.Add(1)
			return nil
		}, ready)
	}()

	<-ready
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 10*time.Millisecond,
		"initial render")

	require.NoError(t, os.WriteFile(path, []byte(`(rect 0 0 20 20)`), 0o644))
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond,
		"render after write")

	// Other files in the directory are ignored.
	before := calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchFile did not stop after cancel")
	}
}

func TestWatchFileLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	sketch.SetLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { sketch.SetLogger(nil) })

	path := writeScript(t, `(rect 0 0 10 10)`)
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)
	var calls atomic.Int32
	go func() {
		done <- watchFile(ctx, path, func() error {
			calls.Add(1)
			return errors.New("boom")
		}, ready)
	}()

	<-ready
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	watchWarn(path, "watcher error", errors.New("queue overflow"))

	dec := json.NewDecoder(&buf)
	var msgs []string
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		assert.Equal(t, path, rec["path"])
		assert.Contains(t, rec, "err")
		assert.NotContains(t, rec, "error")
		msgs = append(msgs, rec["msg"].(string))
	}
	assert.Equal(t, []string{"watch: update failed", "watch: watcher error"}, msgs)
}
