// Package watch triggers full rebuilds when documentation sources change.
//
// Every change notification requests a rebuild through a one-slot channel:
// while a rebuild runs at most one further request waits, and requests
// arriving meanwhile are absorbed by it. Rebuilds recompute everything from
// the files on disk, so dropped or reordered notifications are harmless.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/paths"
)

// Roots are the directories to watch and the directories whose changes are
// produced by the build itself.
type Roots struct {
	Watch  []string
	Ignore []string
}

// Add appends watch roots, skipping empty and duplicate entries.
func (r *Roots) Add(dirs ...string) {
	r.Watch = appendUnique(r.Watch, dirs...)
}

// AddIgnored appends ignore roots.
func (r *Roots) AddIgnored(dirs ...string) {
	r.Ignore = appendUnique(r.Ignore, dirs...)
}

func appendUnique(list []string, dirs ...string) []string {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			abs = d
		}
		found := false
		for _, existing := range list {
			if existing == abs {
				found = true
				break
			}
		}
		if !found {
			list = append(list, abs)
		}
	}
	return list
}

// Relevant reports whether a change at p should trigger a rebuild.
func (r Roots) Relevant(p string) bool {
	if ShouldIgnore(p) {
		return false
	}
	for _, dir := range r.Ignore {
		if within(p, dir) {
			return false
		}
	}
	for _, dir := range r.Watch {
		if within(p, dir) {
			return true
		}
	}
	return false
}

// RebuildFunc recomputes the site. reason names the change that caused it.
type RebuildFunc func(ctx context.Context, reason string) error

// Watcher runs rebuilds on change.
type Watcher struct {
	roots        Roots
	rebuild      RebuildFunc
	pollInterval time.Duration
	logger       *slog.Logger

	requests chan string
	mu       sync.Mutex
	watched  map[string]bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithPollInterval adds periodic rebuilds.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

func New(roots Roots, rebuild RebuildFunc, opts ...Option) *Watcher {
	w := &Watcher{
		roots:    roots,
		rebuild:  rebuild,
		logger:   slog.Default(),
		requests: make(chan string, 1),
		watched:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Trigger requests a rebuild. It reports false when a request is already
// pending and this one was absorbed by it.
func (w *Watcher) Trigger(reason string) bool {
	select {
	case w.requests <- reason:
		return true
	default:
		return false
	}
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.InternalError("create file watcher", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, root := range w.roots.Watch {
		w.addRoot(fsw, root)
	}

	if w.pollInterval > 0 {
		stop, err := w.startPolling()
		if err != nil {
			return err
		}
		defer stop()
	}

	done := w.startWorker(ctx)
	defer func() { <-done }()

	w.logger.Info("Watching documentation sources", logfields.Count(len(w.roots.Watch)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// startWorker runs rebuilds one at a time until ctx is done.
func (w *Watcher) startWorker(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case reason := <-w.requests:
				w.logger.Info("Change detected; rebuilding", slog.String("reason", reason))
				if err := w.rebuild(ctx, reason); err != nil {
					w.logger.Warn("Rebuild failed", logfields.Error(err))
				}
			}
		}
	}()
	return done
}

func (w *Watcher) startPolling() (func(), error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.InternalError("create poll scheduler", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.pollInterval),
		gocron.NewTask(func() { w.Trigger("poll") }),
		gocron.WithName("poll-rebuild"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.InternalError("schedule polling", err)
	}
	s.Start()
	w.logger.Debug("Polling for changes", slog.Duration("interval", w.pollInterval))
	return func() {
		if err := s.Shutdown(); err != nil {
			w.logger.Warn("Stopping poll scheduler failed", logfields.Error(err))
		}
	}, nil
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			// A created directory may be a watch root or lead to one.
			for _, root := range w.roots.Watch {
				if within(ev.Name, root) || within(root, ev.Name) {
					w.addRoot(fsw, root)
				}
			}
		}
	}
	if !w.roots.Relevant(ev.Name) {
		return
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.Trigger(ev.Name)
}

// addRoot watches root recursively. A missing root is approached through its
// nearest existing ancestor so its creation is noticed.
func (w *Watcher) addRoot(fsw *fsnotify.Watcher, root string) {
	if fi, err := os.Stat(root); err == nil && fi.IsDir() {
		w.addDirsRecursive(fsw, root)
		return
	}
	if ancestor := nearestExisting(root); ancestor != "" {
		w.add(fsw, ancestor)
	}
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			for _, ignored := range w.roots.Ignore {
				if within(p, ignored) {
					return filepath.SkipDir
				}
			}
			w.add(fsw, p)
		}
		return nil
	})
}

func (w *Watcher) add(fsw *fsnotify.Watcher, dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return
	}
	if err := fsw.Add(dir); err != nil {
		w.logger.Warn("Watch add failed", logfields.Path(dir), logfields.Error(err))
		return
	}
	w.watched[dir] = true
}

// nearestExisting returns the closest existing directory at or above p.
func nearestExisting(p string) string {
	for {
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return ""
		}
		p = parent
	}
}

// ShouldIgnore reports editor and OS artefacts that never affect a build.
func ShouldIgnore(p string) bool {
	base := filepath.Base(p)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}

func within(p, dir string) bool {
	absP, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return paths.IsWithin(filepath.ToSlash(absP), filepath.ToSlash(absDir))
}
