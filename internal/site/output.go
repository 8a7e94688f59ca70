package site

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/overlay"
)

// Result describes a build written to the output directory.
type Result struct {
	Report    overlay.Report
	Changes   overlay.Changes
	Redirects int
	Output    string
}

// Write builds the site and materialises the merged file set in the output
// directory. Files dropped since the previous Write are removed.
func (s *Site) Write(ctx context.Context) (Result, error) {
	s.mu.Lock()
	prev := s.last
	s.mu.Unlock()

	files, report, err := s.Build(ctx)
	if err != nil {
		return Result{Report: report}, err
	}
	out := s.cfg.Site.Output
	res := Result{Report: report, Output: out}

	if prev == nil && s.cfg.Site.Clean {
		if err := os.RemoveAll(out); err != nil {
			return res, errors.IO("clean output", out, err)
		}
	}

	changes, err := files.Diff(prev)
	if err != nil {
		return res, err
	}
	res.Changes = changes
	for _, p := range changes.Removed {
		target := filepath.Join(out, filepath.FromSlash(p))
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return res, errors.IO("remove stale file", target, err)
		}
	}

	if err := files.WriteTo(out); err != nil {
		return res, err
	}

	written := make(map[string]bool)
	if s.redirects != nil {
		stubs, err := s.redirects.Stubs()
		if err != nil {
			return res, errors.InternalError("render redirects", err)
		}
		for p, data := range stubs {
			if files.Has(p) {
				s.logger.Warn("Redirect stub would replace a page, skipping", logfields.Path(p))
				continue
			}
			target := filepath.Join(out, filepath.FromSlash(p))
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return res, errors.IO("create directory", filepath.Dir(target), err)
			}
			if err := os.WriteFile(target, data, 0o600); err != nil {
				return res, errors.IO("write redirect", target, err)
			}
			written[p] = true
			res.Redirects++
		}
	}
	for p := range s.stubs {
		if written[p] || files.Has(p) {
			continue
		}
		target := filepath.Join(out, filepath.FromSlash(p))
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return res, errors.IO("remove stale redirect", target, err)
		}
	}
	s.stubs = written

	s.logger.Info("Site written", logfields.Path(out),
		logfields.Count(files.Len()),
		logfields.BuildID(report.BuildID))
	return res, nil
}
