package logging

import (
	"bluenoise/pkg/bluenoise"
)

// progressStep is the share of cells between debug progress records.
const progressStep = 10

// PhaseLogger reports generator phases through a Logger.
type PhaseLogger struct {
	log      *Logger
	lastStep int
}

var _ bluenoise.Observer = (*PhaseLogger)(nil)

// NewPhaseLogger returns an Observer that logs to l.
func NewPhaseLogger(l *Logger) *PhaseLogger {
	return &PhaseLogger{log: l, lastStep: -1}
}

// PhaseStarted implements bluenoise.Observer.
func (p *PhaseLogger) PhaseStarted(phase bluenoise.Phase) {
	p.log.Debug("phase started", "phase", phase.String())
}

// Progress implements bluenoise.Observer. Records are emitted every
// progressStep percent.
func (p *PhaseLogger) Progress(ranked, total int) {
	if total <= 0 {
		return
	}
	step := ranked * 100 / total / progressStep
	if step == p.lastStep {
		return
	}
	p.lastStep = step
	p.log.Debug("ranking", "ranked", ranked, "total", total)
}

// PhaseDone implements bluenoise.Observer.
func (p *PhaseLogger) PhaseDone(s bluenoise.PhaseStats) {
	attrs := []any{
		"phase", s.Phase.String(),
		"ranked", s.Ranked,
		"ones", s.Ones,
		"elapsed", s.Elapsed,
	}
	if s.Phase == bluenoise.PhaseInitialPattern {
		attrs = append(attrs, "iterations", s.Iterations)
		if !s.Converged {
			p.log.Warn("initial pattern hit the iteration cap", attrs...)
			return
		}
	}
	p.log.Info("phase completed", attrs...)
}
