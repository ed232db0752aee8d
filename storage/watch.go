package storage

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// WatchRoot is a development helper: it logs create/write/remove events
// under root so an operator can watch day files get written during
// manual testing, without polling the filesystem. NewFilesystemBackend
// starts it automatically when Settings.Debug is set; it plays no part
// in the query or commit path itself.
func WatchRoot(root string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(root); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				slog.Debug("chronostore: filesystem event", "op", event.Op.String(), "path", event.Name)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("chronostore: watch error", "err", err)
			}
		}
	}()

	return w, nil
}
