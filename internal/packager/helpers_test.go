package packager

import "git.home.luguber.info/inful/partialdocs/internal/metrics"

type countingRecorder struct {
	metrics.NoopRecorder
	success, failed, canceled int
	bytes                     int64
}

func (r *countingRecorder) IncPackOutcome(o metrics.OutcomeLabel) {
	switch o {
	case metrics.OutcomeSuccess:
		r.success++
	case metrics.OutcomeFailed:
		r.failed++
	case metrics.OutcomeCanceled:
		r.canceled++
	}
}

func (r *countingRecorder) ObserveArchiveBytes(n int64) { r.bytes += n }
