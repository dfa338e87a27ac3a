package engine

import (
	"time"

	"github.com/marlowe-engine/mtcore/internal/board"
)

// UCILimits contains UCI time control parameters for one search.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (unused by the formula, kept for UCI compatibility)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Depth     int              // maximum search depth
	Nodes     uint64           // node limit from `go nodes`; the search does not enforce it
	Infinite  bool             // search until stopped
	Ponder    bool             // ponder mode
}

// Divisors in the soft/hard deadline formula: hard gets a much bigger
// slice of the remaining-time term than soft, so the engine can keep
// thinking past the soft deadline when nothing forces a stop, but the hard
// deadline still arrives with room to spare before actually running out
// of clock.
const (
	TimeHardDiv = 2
	TimeSoftDiv = 20
)

// TimeManager computes and tracks the soft/hard stop deadlines for a
// single search, following max=max(t-25,0), hard=min(max, 0.75*inc +
// (t-inc)/TimeHardDiv), soft=min(max, 0.75*inc + (t-inc)/TimeSoftDiv).
type TimeManager struct {
	softTime  time.Duration
	hardTime  time.Duration
	startTime time.Time
	infinite  bool
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock and computes the soft/hard deadlines for us from
// limits. MoveTime sets both deadlines to MoveTime. Infinite or no clock
// maps to "infinite": hard/soft stop never fire and the caller must bound
// search by depth or an external stop.
func (tm *TimeManager) Init(limits UCILimits, us board.Color) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		tm.softTime = limits.MoveTime
		tm.hardTime = limits.MoveTime
		tm.infinite = false
		return
	}

	if limits.Infinite || limits.Time[us] <= 0 {
		tm.infinite = true
		return
	}

	tm.infinite = false

	t := limits.Time[us]
	inc := limits.Inc[us]

	max := t - 25*time.Millisecond
	if max < 0 {
		max = 0
	}

	rem := t - inc
	incTerm := inc * 3 / 4

	hard := incTerm + rem/TimeHardDiv
	if hard > max {
		hard = max
	}
	if hard < 0 {
		hard = 0
	}

	soft := incTerm + rem/TimeSoftDiv
	if soft > max {
		soft = max
	}
	if soft < 0 {
		soft = 0
	}

	tm.hardTime = hard
	tm.softTime = soft
}

// Elapsed returns the time elapsed since the search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// HardStop reports whether the hard deadline has passed. Never true under
// an infinite time control.
func (tm *TimeManager) HardStop() bool {
	if tm.infinite {
		return false
	}
	return tm.Elapsed() >= tm.hardTime
}

// SoftStop reports whether the soft deadline has passed. Never true under
// an infinite time control.
func (tm *TimeManager) SoftStop() bool {
	if tm.infinite {
		return false
	}
	return tm.Elapsed() >= tm.softTime
}

// SoftTime returns the computed soft deadline.
func (tm *TimeManager) SoftTime() time.Duration {
	return tm.softTime
}

// HardTime returns the computed hard deadline.
func (tm *TimeManager) HardTime() time.Duration {
	return tm.hardTime
}
