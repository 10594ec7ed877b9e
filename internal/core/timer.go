package core

import "time"

// LevelSweep advances a threshold level through [0, 256) at a steady
// levels-per-second rate, wrapping back to zero after the last level.
type LevelSweep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	level       int
	now         func() time.Time
}

// NewLevelSweep constructs a sweep targeting the given levels per second.
func NewLevelSweep(lps int) *LevelSweep {
	s := &LevelSweep{now: time.Now}
	s.SetRate(lps)
	return s
}

// SetRate changes the sweep rate. Non-positive rates fall back to 30.
func (s *LevelSweep) SetRate(lps int) {
	if lps <= 0 {
		lps = 30
	}
	s.step = time.Second / time.Duration(lps)
}

// Level returns the current level.
func (s *LevelSweep) Level() int { return s.level }

// Reset rewinds the sweep to level zero.
func (s *LevelSweep) Reset() {
	s.level = 0
	s.accumulator = 0
	s.last = time.Time{}
}

// Step advances one level immediately.
func (s *LevelSweep) Step() {
	s.level = (s.level + 1) % 256
}

// Tick consumes elapsed time and reports whether the level changed.
func (s *LevelSweep) Tick() bool {
	now := s.now()
	if s.last.IsZero() {
		s.last = now
	}
	s.accumulator += now.Sub(s.last)
	s.last = now
	advanced := false
	for s.accumulator >= s.step {
		s.accumulator -= s.step
		s.level = (s.level + 1) % 256
		advanced = true
	}
	return advanced
}
