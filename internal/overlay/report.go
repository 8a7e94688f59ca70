package overlay

import (
	"context"
	stderrors "errors"
	"time"
)

// Report summarises a build or a single package overlay.
type Report struct {
	BuildID   string
	Packages  int
	Documents int
	Media     int
	// Merged counts documents merged into an existing page.
	Merged int
	// Rejected counts media files dropped because the destination was taken.
	Rejected int
	// Skipped counts files and packages left out on purpose.
	Skipped  int
	Duration time.Duration
}

func (r *Report) add(o Report) {
	r.Packages += o.Packages
	r.Documents += o.Documents
	r.Media += o.Media
	r.Merged += o.Merged
	r.Rejected += o.Rejected
	r.Skipped += o.Skipped
}

func isCanceled(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
