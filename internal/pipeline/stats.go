package pipeline

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// RunStats tracks aggregate counters across a batch run. Completion and
// failure counters are atomic because jobs finish on worker goroutines.
type RunStats struct {
	RunID  uuid.UUID // Identifies the batch in logs.
	Images int       // Classified source images.
	Total  int       // Planned jobs across all phases.

	done   atomic.Int64
	failed atomic.Int64

	InputBytes  int64 // Sum of classified source sizes.
	OutputBytes int64 // Sum of artifact sizes, filled in after the run.
}

// NewRunStats creates stats for a batch over the given number of images.
func NewRunStats(images int) *RunStats {
	return &RunStats{RunID: uuid.New(), Images: images}
}

// JobDone records one finished job; failed marks it as a per-item failure.
func (s *RunStats) JobDone(failed bool) {
	s.done.Add(1)
	if failed {
		s.failed.Add(1)
	}
}

// Done returns the number of finished jobs (succeeded or failed).
func (s *RunStats) Done() int { return int(s.done.Load()) }

// Failed returns the number of per-item failures.
func (s *RunStats) Failed() int { return int(s.failed.Load()) }

// Succeeded returns the number of jobs that produced their artifact.
func (s *RunStats) Succeeded() int { return s.Done() - s.Failed() }
