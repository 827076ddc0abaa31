package catalog

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher invokes a callback whenever a catalog data file changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

var watchedFiles = map[string]bool{
	"catalog.yaml":  true,
	"features.yaml": true,
	"coverage.yaml": true,
	"personas.yaml": true,
}

// Watch starts watching the store's directory. onChange runs once per
// write or create event on a data file, with the file's base name.
func (s *Store) Watch(onChange func(name string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(s.Dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{watcher: fw, done: make(chan struct{})}
	go w.run(onChange)
	return w, nil
}

func (w *Watcher) run(onChange func(name string)) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			base := filepath.Base(event.Name)
			if watchedFiles[base] && (event.Op&fsnotify.Write != 0 || event.Op&fsnotify.Create != 0) {
				onChange(base)
			}
		case <-w.watcher.Errors:
			// Keep watching.
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
