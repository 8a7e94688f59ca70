package site

import (
	"context"

	"git.home.luguber.info/inful/partialdocs/internal/integration"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/watch"
)

// Roots lists the directories whose changes require a rebuild.
func (s *Site) Roots() watch.Roots {
	var roots watch.Roots
	roots.Add(s.cfg.Site.DocsDir)
	for _, p := range s.packages.Enabled() {
		roots.Add(p.SourceDir)
	}
	for _, w := range integration.Find[integration.Watcher](s.integrations) {
		roots.Add(w.WatchRoots()...)
		roots.AddIgnored(w.IgnoreRoots()...)
	}
	roots.AddIgnored(s.cfg.Site.Output)
	return roots
}

// Watch writes the site and rewrites it whenever a source changes, until ctx
// is done. Integration files are removed on return.
func (s *Site) Watch(ctx context.Context) error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Warn("Cleanup failed", logfields.Error(err))
		}
	}()

	if _, err := s.Write(ctx); err != nil {
		// Keep watching: the next change may fix the sources.
		s.logger.Error("Initial build failed", logfields.Error(err))
	}

	w := watch.New(s.Roots(), func(ctx context.Context, reason string) error {
		res, err := s.Write(ctx)
		if err != nil {
			return err
		}
		s.logger.Info("Rebuilt site",
			logfields.Path(reason),
			logfields.Count(len(res.Changes.Added)+len(res.Changes.Modified)+len(res.Changes.Removed)))
		return nil
	}, watch.WithPollInterval(s.cfg.PollInterval()), watch.WithLogger(s.logger))
	return w.Run(ctx)
}
