package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/gamesystem/engine/core"
)

// Watcher reloads a config file whenever it changes on disk and publishes
// the decoded result. Only the latest config is kept if the consumer lags.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	updates chan Config
	wake    func()
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// Watch starts watching path. wake, when not nil, is called after every
// published update so a blocked event loop can pick it up.
func Watch(path string, wake func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := FormatFromPath(abs); err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// editors often replace the file, so watch the directory
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
	}

	w := &Watcher{
		path:    abs,
		fsw:     fsw,
		updates: make(chan Config, 1),
		wake:    wake,
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	core.LogInfo("watching config %s", abs)
	return w, nil
}

func (w *Watcher) Updates() <-chan Config {
	return w.updates
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
		close(w.updates)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadFile(w.path)
			if err != nil {
				core.LogWarn("ignoring config change: %s", err)
				continue
			}
			w.publish(cfg)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			core.LogWarn("config watcher: %s", err)
		}
	}
}

func (w *Watcher) publish(cfg Config) {
	for {
		select {
		case w.updates <- cfg:
			if w.wake != nil {
				w.wake()
			}
			return
		default:
		}
		// drop the stale config
		select {
		case <-w.updates:
		default:
		}
	}
}
