package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/chazu/trazo/pkg/sketch"
)

// watchFile calls onChange once up front and again after every write to
// path, until ctx is done. The parent directory is watched so editors that
// replace the file on save are followed. ready, if non-nil, is closed once
// the watcher is installed.
func watchFile(ctx context.Context, path string, onChange func() error, ready chan<- struct{}) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	if ready != nil {
		close(ready)
	}

	run := func() {
		if err := onChange(); err != nil {
			watchWarn(path, "update failed", err)
		}
	}
	run()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			sketch.Logger().Debug("watch: change", "path", path, "op", event.Op.String())
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			watchWarn(path, "watcher error", err)
		}
	}
}

func watchWarn(path, msg string, err error) {
	sketch.Logger().Warn("watch: "+msg, "path", path, "err", err)
}

func newWatchCmd(c *cli) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "watch SCRIPT",
		Short: "Re-render a script every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script := args[0]
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s (Ctrl-C to stop)\n", script)
			return watchFile(cmd.Context(), script, func() error {
				err := c.render(script, f, cmd)
				if errors.Is(err, errScript) {
					return nil
				}
				return err
			}, nil)
		},
	}
	f.register(cmd)
	return cmd
}
