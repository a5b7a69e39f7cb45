package lifecycle

import (
	"time"

	"github.com/lotboard/lotboard-service/internal/domain/lot"
)

// DisplayStatus is the UI-facing status derived from the raw upstream status
// and the lot's schedule. It is distinct from the raw status on purpose: the
// upstream enum and the dates can briefly disagree, and the display layer
// always gets a usable value.
type DisplayStatus string

const (
	StatusDraft    DisplayStatus = "draft"
	StatusApproved DisplayStatus = "approved"
	StatusActive   DisplayStatus = "active"
	StatusEnded    DisplayStatus = "ended"
)

// Timer labels shown next to the countdown.
const (
	LabelDraft    = "DRAFT"
	LabelStartsIn = "STARTS IN"
	LabelEndsIn   = "ENDS IN"
	LabelEnded    = "ENDED"
)

// Inconsistency flags a disagreement between the raw status and the schedule.
// It is informational only; classification already resolved it defensively.
type Inconsistency string

const (
	InconsistencyNone              Inconsistency = ""
	InconsistencyActivePastEnd     Inconsistency = "active-past-end"
	InconsistencyActiveBeforeStart Inconsistency = "active-before-start"
)

// State is the derived lifecycle of a lot at a single point in time. It is
// recomputed for every render and never stored.
type State struct {
	DisplayStatus   DisplayStatus `json:"displayStatus"`
	TimerLabel      string        `json:"timerLabel"`
	CountdownTarget *time.Time    `json:"countdownTarget,omitempty"`
	Clickable       bool          `json:"clickable"`
	Inconsistency   Inconsistency `json:"-"`
}

// Classify derives the display state for a lot at the given time. It is pure:
// the same (lot, now) pair always yields the same state, and it never panics,
// whatever the upstream shipped.
//
// The raw status is authoritative, with a date-based fallback so a card stays
// usable when the upstream hasn't flipped APPROVED to ACTIVE exactly at the
// start date.
func Classify(l lot.Lot, now time.Time) State {
	switch l.NormalizedStatus() {
	case lot.StatusCompleted:
		return endedState()
	case lot.StatusDraft:
		return State{DisplayStatus: StatusDraft, TimerLabel: LabelDraft}
	case lot.StatusApproved:
		return classifyBySchedule(l, now, InconsistencyNone, InconsistencyNone)
	case lot.StatusActive:
		// An ACTIVE lot outside its window means the upstream status and
		// schedule disagree. Resolve by the schedule and flag it.
		return classifyBySchedule(l, now, InconsistencyActiveBeforeStart, InconsistencyActivePastEnd)
	default:
		// Missing or unrecognized status: pure date comparison.
		return classifyBySchedule(l, now, InconsistencyNone, InconsistencyNone)
	}
}

// classifyBySchedule places now against the lot's start/end window. The two
// inconsistency arguments are attached when the lot lands before its start or
// past its end, respectively.
func classifyBySchedule(l lot.Lot, now time.Time, beforeStart, pastEnd Inconsistency) State {
	// Malformed dates decode to the zero time. Fail safe: no countdown, not
	// clickable, shown as ended.
	if l.StartDate.IsZero() || l.EndDate.IsZero() {
		return endedState()
	}

	switch {
	case now.Before(l.StartDate):
		target := l.StartDate
		return State{
			DisplayStatus:   StatusApproved,
			TimerLabel:      LabelStartsIn,
			CountdownTarget: &target,
			Clickable:       true,
			Inconsistency:   beforeStart,
		}
	case !now.After(l.EndDate):
		target := l.EndDate
		return State{
			DisplayStatus:   StatusActive,
			TimerLabel:      LabelEndsIn,
			CountdownTarget: &target,
			Clickable:       true,
		}
	default:
		s := endedState()
		s.Inconsistency = pastEnd
		return s
	}
}

func endedState() State {
	return State{DisplayStatus: StatusEnded, TimerLabel: LabelEnded}
}
