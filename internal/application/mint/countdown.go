package mint

import (
	"fmt"
	"time"
)

// Countdown is the time left until activation. Days are folded into Hours.
type Countdown struct {
	Completed bool   `json:"completed"`
	Hours     int    `json:"hours"`
	Minutes   int    `json:"minutes"`
	Seconds   int    `json:"seconds"`
	Text      string `json:"text,omitempty"`
}

// NewCountdown computes the countdown to target as seen at now.
func NewCountdown(target, now time.Time) Countdown {
	left := target.Sub(now)
	if target.IsZero() || left <= 0 {
		return Countdown{Completed: true}
	}

	total := int(left / time.Second)
	c := Countdown{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
	c.Text = fmt.Sprintf("Escape starts in %d hours, %d minutes, %d seconds", c.Hours, c.Minutes, c.Seconds)
	return c
}
