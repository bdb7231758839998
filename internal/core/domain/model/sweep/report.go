package sweep

import "time"

// Mode names the pass that produced a Report.
type Mode string

const (
	ModeInline        Mode = "inline"
	ModeDelegated     Mode = "delegated"
	ModeRejectExpired Mode = "reject_expired"
)

// Report summarizes one pass.
type Report struct {
	Mode     Mode
	Now      time.Time
	Checked  int
	Assigned int
	Rejected int
	Errors   int

	// Failure is set when the pass could not start, for example when the
	// pending orders could not be fetched. Outcomes is then empty.
	Failure string

	Outcomes []Outcome
}

// NewReport counts outcomes into a Report.
func NewReport(mode Mode, now time.Time, outcomes []Outcome) Report {
	r := Report{
		Mode:     mode,
		Now:      now,
		Checked:  len(outcomes),
		Outcomes: outcomes,
	}
	if r.Outcomes == nil {
		r.Outcomes = []Outcome{}
	}

	for _, o := range outcomes {
		switch o.Kind {
		case Assigned:
			r.Assigned++
		case Rejected:
			r.Rejected++
		case Error:
			r.Errors++
		case StillPending:
		}
	}

	return r
}

// FailedReport describes a pass that could not run at all.
func FailedReport(mode Mode, now time.Time, err error) Report {
	r := NewReport(mode, now, nil)
	r.Failure = err.Error()
	return r
}

// StillPending returns how many orders were left for a later pass.
func (r Report) StillPending() int {
	return r.Checked - r.Assigned - r.Rejected - r.Errors
}
