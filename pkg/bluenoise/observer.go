package bluenoise

import (
	"fmt"
	"time"
)

// Phase identifies a step of the void-and-cluster algorithm.
type Phase int

const (
	// PhaseInitialPattern places random points and relaxes them.
	PhaseInitialPattern Phase = iota
	// PhaseSerialize ranks the initial points by removal order.
	PhaseSerialize
	// PhaseFillHalf ranks voids until half the cells are set.
	PhaseFillHalf
	// PhaseFillComplete ranks the remaining cells on the inverted bitmap.
	PhaseFillComplete
	// PhaseThreshold maps ranks to the 8-bit threshold map.
	PhaseThreshold
)

var phaseNames = [...]string{
	PhaseInitialPattern: "initial pattern",
	PhaseSerialize:      "serialize initial points",
	PhaseFillHalf:       "fill to half",
	PhaseFillComplete:   "fill to completion",
	PhaseThreshold:      "threshold map",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// PhaseStats summarises a finished phase.
type PhaseStats struct {
	Phase Phase
	// Ranked is the number of cells holding a rank after the phase.
	Ranked int
	// Ones is the number of set bits after the phase.
	Ones int
	// Iterations counts relocation steps (initial pattern only).
	Iterations int
	// Converged is false when the initial pattern hit the iteration cap.
	Converged bool
	Elapsed   time.Duration
}

// Observer receives callbacks at phase boundaries and whenever a rank is
// assigned. Callbacks run on the generating goroutine.
type Observer interface {
	PhaseStarted(p Phase)
	Progress(ranked, total int)
	PhaseDone(stats PhaseStats)
}

// ObserverFuncs adapts optional functions to the Observer interface.
type ObserverFuncs struct {
	OnStart    func(Phase)
	OnProgress func(ranked, total int)
	OnDone     func(PhaseStats)
}

var _ Observer = ObserverFuncs{}

// PhaseStarted implements Observer.
func (o ObserverFuncs) PhaseStarted(p Phase) {
	if o.OnStart != nil {
		o.OnStart(p)
	}
}

// Progress implements Observer.
func (o ObserverFuncs) Progress(ranked, total int) {
	if o.OnProgress != nil {
		o.OnProgress(ranked, total)
	}
}

// PhaseDone implements Observer.
func (o ObserverFuncs) PhaseDone(s PhaseStats) {
	if o.OnDone != nil {
		o.OnDone(s)
	}
}
