package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/chazu/meshlens/pkg/analysis"
)

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-inspect a file every time it is written",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s := analysis.NewSession(c.analyzer())
			defer s.Close()

			out := cmd.OutOrStdout()
			show := func(r *analysis.Report, err error) {
				if err != nil {
					c.logger.Error("reload failed", "file", path, "err", err)
					return
				}
				writeReport(out, r)
				fmt.Fprintln(out)
			}

			w, err := newFileWatcher(path, c.logger)
			if err != nil {
				return err
			}
			defer w.Close()

			show(reload(s, path))
			c.logger.Info("watching", "file", path, "session", s.ID)
			return w.Run(ctx, func() { show(reload(s, path)) })
		},
	}
}

func reload(s *analysis.Session, path string) (*analysis.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.Clear()
		return nil, err
	}
	return s.Load(path, data)
}

// fileWatcher reports writes to one file. It watches the parent directory
// so editors that replace the file by rename are still seen.
type fileWatcher struct {
	fsnotify *fsnotify.Watcher
	target   string
	logger   *log.Logger
}

func newFileWatcher(path string, logger *log.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	return &fileWatcher{fsnotify: fw, target: abs, logger: logger}, nil
}

// Run calls changed after each create or write of the target until ctx is
// done.
func (w *fileWatcher) Run(ctx context.Context, changed func()) error {
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != w.target {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.logger.Debug("file changed", "file", e.Name, "op", e.Op)
				changed()
			}
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *fileWatcher) Close() error {
	return w.fsnotify.Close()
}
