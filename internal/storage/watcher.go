package storage

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadCallback is called with a collection whose file was changed by
// another process.
type ReloadCallback func(c Collection)

const reloadDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the FS data directory and calls cb for
// every collection file edited outside this process, until ctx is
// cancelled. Bursts of events are coalesced, and writes made through f
// itself are recognised by checksum and ignored.
func Watch(ctx context.Context, f *FS, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(f.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", f.Root()))

	pending := make(map[Collection]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDelay)
			timerCh = timer.C
		} else {
			timer.Reset(reloadDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			for c := range pending {
				delete(pending, c)
				data, err := os.ReadFile(f.path(c))
				if err != nil {
					logger.Warn("watcher: read failed", slog.String("collection", string(c)), slog.String("error", err.Error()))
					continue
				}
				if !f.Changed(c, data) {
					continue
				}
				logger.Debug("watcher: external change", slog.String("collection", string(c)))
				cb(c)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			c, ok := f.collectionAt(ev.Name)
			if !ok {
				continue
			}
			pending[c] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
