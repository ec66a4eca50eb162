// theme_watch.go - Re-render whenever the preset file changes

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

const WATCH_DEBOUNCE = 250 * time.Millisecond

// watchPreset re-runs render on every change to the preset file, until
// interrupted. Editors typically replace files by rename, so the watch
// covers the directory and filters on the base name. A failed render is
// reported and watching continues.
func watchPreset(path string, render func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %v", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch: %s: %v", dir, err)
	}
	base := filepath.Base(path)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	debounce := time.NewTimer(WATCH_DEBOUNCE)
	if !debounce.Stop() {
		<-debounce.C
	}

	fmt.Printf("Watching %s (ctrl-c to stop)\n", path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(WATCH_DEBOUNCE)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("Watch error: %v\n", err)
		case <-debounce.C:
			if err := render(); err != nil {
				fmt.Printf("Render failed: %v\n", err)
			}
		case <-interrupt:
			fmt.Println("\nStopped")
			return nil
		}
	}
}
