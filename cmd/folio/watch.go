package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is the quiet period after the last change before re-rendering.
const debounce = 300 * time.Millisecond

// watchFiles calls onChange with the changed files, in argument order, after
// each burst of modifications. It returns when ctx is done.
//
// Directories are watched rather than the files themselves, so that editors
// replacing a file by rename are noticed.
func watchFiles(ctx context.Context, files []string, onChange func(changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	order := make(map[string]int, len(files))
	dirs := make(map[string]bool)
	for i, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		order[abs] = i
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	tracer().Infof("watching %d file(s)", len(files))

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := order[abs]; !ok {
				continue
			}
			tracer().Debugf("change detected: %s (%s)", event.Name, event.Op)
			pending[abs] = true
			timer.Reset(debounce)
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for abs := range pending {
				changed = append(changed, abs)
			}
			sort.Slice(changed, func(i, j int) bool { return order[changed[i]] < order[changed[j]] })
			for i, abs := range changed {
				changed[i] = files[order[abs]]
			}
			pending = make(map[string]bool)
			onChange(changed)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			tracer().Errorf("watcher error: %v", err)
		}
	}
}
