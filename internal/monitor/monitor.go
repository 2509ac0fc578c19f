// Package monitor watches the on-disk configuration files and requests a
// process restart when any of them changes. The core never re-reads
// configuration after startup; the service manager restarts the process and
// the fresh process loads the new files.
package monitor

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Monitor signals exit on configuration change. It never mutates any state
// of the running pipeline; its only output is the exit request callback.
type Monitor struct {
	log logrus.FieldLogger
	// requestExit is invoked once, on the first observed change.
	requestExit func()
	paths       map[string]struct{}
}

// New builds a monitor for the given files. Missing files are tolerated;
// their directories are watched so creation is observed too.
func New(log logrus.FieldLogger, requestExit func(), paths ...string) *Monitor {
	cleaned := lo.Map(paths, func(p string, _ int) string { return filepath.Clean(p) })
	return &Monitor{
		log:         log,
		requestExit: requestExit,
		paths:       lo.Associate(cleaned, func(p string) (string, struct{}) { return p, struct{}{} }),
	}
}

// Run watches until a change is observed or the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := map[string]struct{}{}
	for path := range m.paths {
		dir := filepath.Dir(path)
		if _, ok := watched[dir]; ok {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			m.log.Warnf("not watching %s: %v", dir, err)
			continue
		}
		if err := watcher.Add(dir); err != nil {
			m.log.Warnf("not watching %s: %v", dir, err)
			continue
		}
		watched[dir] = struct{}{}
	}

	m.log.Infof("watching %d config director(ies) for changes", len(watched))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, ours := m.paths[filepath.Clean(event.Name)]; !ours {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			m.log.Warnf("config file %s changed (%s), requesting restart", event.Name, event.Op)
			m.requestExit()
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.log.Warnf("config watcher error: %v", err)
		}
	}
}
