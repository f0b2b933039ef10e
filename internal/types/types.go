// Package types provides shared type definitions for the ease probability notifier.
package types

import "time"

// Outcome describes how a single tick ended.
type Outcome string

const (
	// OutcomeObserved means a probability was extracted and any alert was delivered.
	OutcomeObserved Outcome = "observed"

	// OutcomeNotFound means the feed was fetched but no matching key coerced to a number.
	OutcomeNotFound Outcome = "not_found"

	// OutcomeFetchFailed means the feed could not be retrieved or parsed.
	OutcomeFetchFailed Outcome = "fetch_failed"

	// OutcomeNotifyFailed means an alert was due but the notifier returned an error.
	OutcomeNotifyFailed Outcome = "notify_failed"
)

// Observation is the journal record written once per tick.
type Observation struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url"`
	Outcome   Outcome   `json:"outcome"`
	Value     *float64  `json:"value,omitempty"`
	Previous  *float64  `json:"previous,omitempty"`
	Alerted   bool      `json:"alerted"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}
