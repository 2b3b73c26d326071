// Package alert models the one-shot notification banner of the mint page.
package alert

import "time"

// Severity mirrors the banner colors: "success" | "info" | "warning" | "error".
// The empty value means no severity.
type Severity string

const (
	SeverityNone    Severity = ""
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// AutoHide is how long an open alert stays visible.
const AutoHide = 6000 * time.Millisecond

func (s Severity) Valid() bool {
	switch s {
	case SeverityNone, SeveritySuccess, SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// State is the current banner. A page holds exactly one State; showing a new
// alert replaces the previous one.
type State struct {
	Open     bool      `json:"open"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity,omitempty"`
	ShownAt  time.Time `json:"shownAt,omitempty"`
}

// Show returns an open alert shown at now.
func Show(severity Severity, message string, now time.Time) State {
	if !severity.Valid() {
		severity = SeverityNone
	}
	return State{
		Open:     true,
		Message:  message,
		Severity: severity,
		ShownAt:  now.UTC(),
	}
}

// Success / Failure are shorthands for the two alerts the mint action shows.
func Success(message string, now time.Time) State { return Show(SeveritySuccess, message, now) }
func Failure(message string, now time.Time) State { return Show(SeverityError, message, now) }

// Dismiss closes the alert and keeps its message and severity.
func (s State) Dismiss() State {
	s.Open = false
	return s
}

// At returns the alert as seen at now: an open alert older than AutoHide is closed.
func (s State) At(now time.Time) State {
	if s.Open && !s.ShownAt.IsZero() && now.Sub(s.ShownAt) >= AutoHide {
		s.Open = false
	}
	return s
}
