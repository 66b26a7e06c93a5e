package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/drydock-dev/drydock/pkg/watch/exclude"
)

// DefaultDebounce batches rapid file changes into one redeploy
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher
type Options struct {
	// ManifestPath is the deployment manifest to watch for edits
	ManifestPath string

	// AppDir is an optional source directory watched recursively
	AppDir string

	// Exclude filters AppDir changes; nil uses the default patterns
	// with .gitignore support
	Exclude *exclude.Config

	// Debounce is the quiet period before OnChange fires
	Debounce time.Duration

	// OnChange receives the batch of changed paths after each quiet period
	OnChange func(paths []string)
}

// Watcher triggers redeploys when the manifest or application source
// changes
type Watcher struct {
	watcher    *fsnotify.Watcher
	excludeMgr *exclude.Manager
	opts       Options
	stopChan   chan struct{}
}

// New creates a Watcher for the manifest and optional app directory
func New(opts Options) (*Watcher, error) {
	if opts.OnChange == nil {
		return nil, fmt.Errorf("OnChange callback is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsWatcher,
		opts:     opts,
		stopChan: make(chan struct{}),
	}

	// Watch the manifest's directory; editors replace the file on save,
	// so watching the file itself misses rename-based writes
	if opts.ManifestPath != "" {
		if err := fsWatcher.Add(filepath.Dir(opts.ManifestPath)); err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("failed to watch manifest: %w", err)
		}
	}

	if opts.AppDir != "" {
		excludeCfg := exclude.Config{BasePath: opts.AppDir, UseGitignore: true}
		if opts.Exclude != nil {
			excludeCfg = *opts.Exclude
		}

		excludeMgr, err := exclude.NewManager(excludeCfg)
		if err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("failed to create exclude manager: %w", err)
		}
		w.excludeMgr = excludeMgr

		if err := addDirRecursive(fsWatcher, opts.AppDir, excludeMgr); err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("failed to watch directory: %w", err)
		}
	}

	return w, nil
}

// Start begins watching in the background until Stop is called or the
// context is cancelled
func (w *Watcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
}

// Stop terminates the watcher
func (w *Watcher) Stop() error {
	close(w.stopChan)
	return w.watcher.Close()
}

// addDirRecursive adds directory and subdirectories to watcher
func addDirRecursive(watcher *fsnotify.Watcher, path string, excludeMgr *exclude.Manager) error {
	return filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if excludeMgr != nil && excludeMgr.ShouldExcludeDir(walkPath) {
				return filepath.SkipDir
			}

			return watcher.Add(walkPath)
		}

		return nil
	})
}

// watchLoop monitors file changes and fires OnChange after the debounce
// quiet period. The timer fires back into this loop so pending is only
// ever touched by one goroutine.
func (w *Watcher) watchLoop(ctx context.Context) {
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]bool)

	for {
		select {
		case <-w.stopChan:
			return

		case <-ctx.Done():
			return

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			pending = make(map[string]bool)

			w.opts.OnChange(paths)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only handle writes, creates and renames (editor save patterns)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if !w.relevant(event.Name) {
				continue
			}

			// New subdirectories need watching too
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = addDirRecursive(w.watcher, event.Name, w.excludeMgr)
				continue
			}

			pending[event.Name] = true

			// Restart the quiet period
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.opts.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}

// relevant reports whether a change to the path should trigger a redeploy
func (w *Watcher) relevant(path string) bool {
	if w.opts.ManifestPath != "" {
		absManifest, err := filepath.Abs(w.opts.ManifestPath)
		absPath, pathErr := filepath.Abs(path)
		if err == nil && pathErr == nil && absPath == absManifest {
			return true
		}

		// Ignore sibling files in the manifest's directory unless they
		// fall under the watched app dir
		if w.opts.AppDir == "" {
			return false
		}
	}

	if w.opts.AppDir != "" {
		if w.excludeMgr != nil && w.excludeMgr.ShouldExclude(path) {
			return false
		}
		absDir, err := filepath.Abs(w.opts.AppDir)
		absPath, pathErr := filepath.Abs(path)
		if err == nil && pathErr == nil {
			rel, relErr := filepath.Rel(absDir, absPath)
			return relErr == nil && !isOutside(rel)
		}
	}

	return false
}

func isOutside(rel string) bool {
	return rel == ".." || filepath.IsAbs(rel) ||
		(len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator))
}
