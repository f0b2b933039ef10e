// Package monitor decides when the ease probability has changed and drives
// the fetch, extract, notify loop.
package monitor

import (
	"fmt"
	"strconv"
)

// State is the monitoring state carried from one tick to the next. The zero
// value means no probability has been observed yet.
type State struct {
	previous float64
	observed bool
}

// Observed returns the state after observing v.
func Observed(v float64) State {
	return State{previous: v, observed: true}
}

// Previous returns the last observed value and whether one exists.
func (s State) Previous() (float64, bool) {
	return s.previous, s.observed
}

func (s State) String() string {
	if !s.observed {
		return "uninitialized"
	}
	return "observed(" + formatPercent(s.previous) + ")"
}

// Detect decides whether current should be alerted given state. The returned
// state always holds current, so an unchanged value never alerts twice.
func Detect(state State, current float64, notifyOnStart bool) (bool, State) {
	alert := false
	switch {
	case notifyOnStart && !state.observed:
		alert = true
	case state.observed && current != state.previous:
		alert = true
	}
	return alert, Observed(current)
}

// FormatMessage renders the alert text for a transition from previous to
// current.
func FormatMessage(url string, previous State, current float64) string {
	if p, ok := previous.Previous(); ok {
		return fmt.Sprintf("FedWatch Ease probability changed from %s%% to %s%%. Source: %s",
			formatPercent(p), formatPercent(current), url)
	}
	return fmt.Sprintf("FedWatch Ease probability is %s%% (monitoring started). Source: %s",
		formatPercent(current), url)
}

// Evaluate combines Detect and FormatMessage. message is empty when no alert
// is due.
func Evaluate(url string, state State, current float64, notifyOnStart bool) (message string, alert bool, next State) {
	alert, next = Detect(state, current, notifyOnStart)
	if alert {
		message = FormatMessage(url, state, current)
	}
	return message, alert, next
}

// formatPercent renders v in the shortest form that round-trips.
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
