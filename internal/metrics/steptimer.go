package metrics

import (
	"time"

	"github.com/san-kum/gravlab/internal/engine"
)

// StepTimer reports the average wall time, in seconds, between successive
// observations. Useful for comparing evaluator cost across runs.
type StepTimer struct {
	name    string
	last    time.Time
	sum     float64
	samples int
}

func NewStepTimer() *StepTimer {
	return &StepTimer{
		name: "step_seconds",
	}
}

func (s *StepTimer) Name() string { return s.name }

func (s *StepTimer) Observe(bodies []*engine.Body, t float64) {
	now := time.Now()
	if !s.last.IsZero() {
		s.sum += now.Sub(s.last).Seconds()
		s.samples++
	}
	s.last = now
}

func (s *StepTimer) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *StepTimer) Reset() {
	s.last = time.Time{}
	s.sum = 0
	s.samples = 0
}
