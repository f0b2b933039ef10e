package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/johan/fedwatch-notifier/internal/metrics"
	"github.com/johan/fedwatch-notifier/internal/notifier"
	"github.com/johan/fedwatch-notifier/internal/probability"
	"github.com/johan/fedwatch-notifier/internal/storage"
	"github.com/johan/fedwatch-notifier/internal/types"
)

var (
	// ErrFetch wraps feed transport and parse failures.
	ErrFetch = errors.New("feed fetch failed")

	// ErrNotFound is returned when the feed holds no ease probability.
	ErrNotFound = errors.New("ease probability not found")

	// ErrNotify wraps notification delivery failures.
	ErrNotify = errors.New("notification failed")
)

// Fetcher retrieves and parses the feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (gjson.Result, error)
}

// Options configures the polling loop.
type Options struct {
	URL           string
	PollInterval  time.Duration
	NotifyOnStart bool
	RunOnce       bool

	// FatalOnNotifyError makes Run return when a notification cannot be
	// delivered. Otherwise the failure is logged and the state is kept, so
	// the same transition is reported again on the next tick.
	FatalOnNotifyError bool
}

// Result is the outcome of a single tick.
type Result struct {
	// State to carry into the next tick.
	State State

	Value   float64
	Found   bool
	Alerted bool
	Message string
}

// Service runs the fetch, extract, notify loop.
type Service struct {
	opts     Options
	fetcher  Fetcher
	notifier notifier.Notifier
	storage  storage.Storage
	metrics  *metrics.Metrics

	runID string
	now   func() time.Time
}

// NewService creates a new monitor service. A nil storage discards
// observations and nil metrics are collected but never served.
func NewService(opts Options, fetcher Fetcher, n notifier.Notifier, stor storage.Storage, m *metrics.Metrics) *Service {
	if stor == nil {
		stor = storage.NewNullStorage()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		opts:     opts,
		fetcher:  fetcher,
		notifier: n,
		storage:  stor,
		metrics:  m,
		runID:    uuid.NewString(),
		now:      time.Now,
	}
}

// RunID identifies this process in journal records.
func (s *Service) RunID() string {
	return s.runID
}

// Run ticks immediately and then once per poll interval until ctx is
// cancelled. In run-once mode it returns after the first tick.
func (s *Service) Run(ctx context.Context) error {
	slog.Info("monitor: starting",
		"url", s.opts.URL,
		"interval", s.opts.PollInterval,
		"notifier", s.notifier.Name(),
		"notify_on_start", s.opts.NotifyOnStart,
		"run_once", s.opts.RunOnce,
		"run_id", s.runID,
	)

	var state State
	state, err := s.step(ctx, state)
	if err != nil {
		return err
	}
	if s.opts.RunOnce {
		return nil
	}

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor: shutting down", "state", state.String())
			return ctx.Err()

		case <-ticker.C:
			if state, err = s.step(ctx, state); err != nil {
				return err
			}
		}
	}
}

// step runs one tick and applies the error policy. Only a fatal error is
// returned.
func (s *Service) step(ctx context.Context, state State) (State, error) {
	res, err := s.Tick(ctx, state)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		slog.Info("monitor: could not locate an ease probability in the feed", "url", s.opts.URL)
	case errors.Is(err, ErrFetch):
		slog.Warn("monitor: failed to refresh feed", "err", err)
	case errors.Is(err, ErrNotify):
		if s.opts.FatalOnNotifyError {
			return res.State, err
		}
		slog.Error("monitor: alert not delivered, will retry next tick", "err", err)
	default:
		slog.Error("monitor: tick failed", "err", err)
	}
	return res.State, nil
}

// Tick performs one fetch, extract, decide, notify cycle. On any error the
// returned Result.State equals state.
func (s *Service) Tick(ctx context.Context, state State) (Result, error) {
	res := Result{State: state}
	obs := &types.Observation{
		RunID:     s.runID,
		Timestamp: s.now().UTC(),
		URL:       s.opts.URL,
	}
	if p, ok := state.Previous(); ok {
		obs.Previous = &p
	}

	start := time.Now()
	payload, err := s.fetcher.Fetch(ctx, s.opts.URL)
	s.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetch, err)
		s.record(obs, types.OutcomeFetchFailed, err)
		return res, err
	}

	match, ok := probability.Find(payload)
	if !ok {
		s.record(obs, types.OutcomeNotFound, ErrNotFound)
		return res, ErrNotFound
	}
	value := match.Value
	res.Value, res.Found = value, true
	obs.Value = &value
	s.metrics.Probability.Set(value)
	slog.Debug("monitor: probability extracted", "key", match.Key, "path", match.Path, "value", value)

	message, alert, next := Evaluate(s.opts.URL, state, value, s.opts.NotifyOnStart)
	if alert {
		obs.Message = message
		if err := s.notifier.Send(ctx, message); err != nil {
			err = fmt.Errorf("%w via %s: %w", ErrNotify, s.notifier.Name(), err)
			s.record(obs, types.OutcomeNotifyFailed, err)
			return res, err
		}
		s.metrics.AlertsTotal.Inc()
		obs.Alerted = true
		res.Alerted = true
		res.Message = message
		slog.Info("monitor: alert sent", "notifier", s.notifier.Name(), "message", message)
	}

	res.State = next
	s.record(obs, types.OutcomeObserved, nil)
	return res, nil
}

// record counts the tick and appends it to the journal. Journal failures
// never fail the tick.
func (s *Service) record(obs *types.Observation, outcome types.Outcome, err error) {
	obs.Outcome = outcome
	if err != nil {
		obs.Error = err.Error()
	}
	s.metrics.TicksTotal.WithLabelValues(string(outcome)).Inc()

	if werr := s.storage.Write(obs); werr != nil {
		slog.Warn("monitor: journal write failed", "err", werr)
	}
}

// Close closes the journal.
func (s *Service) Close() error {
	return s.storage.Close()
}
