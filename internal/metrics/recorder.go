package metrics

import "time"

// FileKind labels overlaid files.
type FileKind string

const (
	KindDocument FileKind = "document"
	KindMedia    FileKind = "media"
)

// CollisionLabel labels what happened when two packages wrote the same path.
type CollisionLabel string

const (
	CollisionMerged   CollisionLabel = "merged"
	CollisionRejected CollisionLabel = "rejected"
)

// OutcomeLabel enumerates final results of a build or pack.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for overlay builds and packaging runs.
type Recorder interface {
	ObserveOverlayDuration(pkg string, d time.Duration)
	IncFilesOverlaid(kind FileKind)
	IncCollision(label CollisionLabel)
	IncBuildOutcome(outcome OutcomeLabel)
	ObservePackDuration(d time.Duration)
	IncPackOutcome(outcome OutcomeLabel)
	ObserveArchiveBytes(n int64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveOverlayDuration(string, time.Duration) {}
func (NoopRecorder) IncFilesOverlaid(FileKind)                    {}
func (NoopRecorder) IncCollision(CollisionLabel)                  {}
func (NoopRecorder) IncBuildOutcome(OutcomeLabel)                 {}
func (NoopRecorder) ObservePackDuration(time.Duration)            {}
func (NoopRecorder) IncPackOutcome(OutcomeLabel)                  {}
func (NoopRecorder) ObserveArchiveBytes(int64)                    {}
