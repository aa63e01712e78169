package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

const debounce = 500 * time.Millisecond

// watchPaths lists the directories whose changes require a reload. In git
// mode only the refs matter.
func (c *content) watchPaths() []string {
	if c.git {
		return []string{filepath.Join(c.path, ".git"), filepath.Join(c.path, ".git", "refs", "heads")}
	}
	var dirs []string
	filepath.WalkDir(c.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("cannot walk content", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != c.path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}

// watchContent calls onChange once a burst of file system events in dirs
// has settled.
func watchContent(ctx context.Context, dirs []string, onChange func() error) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			slog.Warn("cannot watch", slog.String("dir", dir), slog.Any("error", err))
		}
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				slog.Debug("change detected", slog.String("file", event.Name), slog.String("op", event.Op.String()))
				if event.Has(fsnotify.Create) && isDir(event.Name) {
					if err := watcher.Add(event.Name); err != nil {
						slog.Warn("cannot watch", slog.String("dir", event.Name), slog.Any("error", err))
					}
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					if err := onChange(); err != nil {
						slog.Error("reload failed", slog.Any("error", err))
						return
					}
					slog.Info("content reloaded")
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("watcher error", slog.Any("error", err))
			}
		}
	}()
	return watcher, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
