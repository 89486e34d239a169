package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/spherical/pdf-transcriber/internal/continuity"
	"github.com/spherical/pdf-transcriber/internal/domain"
	"github.com/spherical/pdf-transcriber/internal/observability"
	"github.com/spherical/pdf-transcriber/internal/stitch"
)

// maxSendAttempts bounds retries of a single window on transient model
// errors.
const maxSendAttempts = 3

// Session sends one window to the extraction model with the given continuity
// context and returns the raw response text. Implementations keep model-side
// conversational memory across calls within one document run.
type Session interface {
	Send(ctx context.Context, cc continuity.Context) (string, error)
}

// ProgressFunc reports window completion for UI display.
type ProgressFunc func(done, total int)

// Result summarizes one document run.
type Result struct {
	Status    domain.RunStatus
	Truncated bool
	Output    string
	Windows   int
	Sections  int
	Duration  time.Duration
}

// Orchestrator drives the extraction loop for one document: build continuity
// context, call the model, stitch, sleep, repeat. It owns the tracker and
// stitcher for the run; nothing is shared across documents.
type Orchestrator struct {
	session  Session
	tracker  *continuity.Tracker
	stitcher *stitch.Stitcher
	delay    time.Duration
	log      *observability.Logger
	progress ProgressFunc

	status domain.RunStatus
}

// NewOrchestrator creates an orchestrator for one document run.
func NewOrchestrator(session Session, sectionThreshold int, delay time.Duration, log *observability.Logger) *Orchestrator {
	tracker := continuity.NewTracker(sectionThreshold)
	return &Orchestrator{
		session:  session,
		tracker:  tracker,
		stitcher: stitch.NewStitcher(tracker),
		delay:    delay,
		log:      log,
		status:   domain.StatusPending,
	}
}

// OnProgress registers a window-completion callback.
func (o *Orchestrator) OnProgress(fn ProgressFunc) {
	o.progress = fn
}

// Status returns the run's current state.
func (o *Orchestrator) Status() domain.RunStatus {
	return o.status
}

// Run processes every window in page order. Windows are strictly sequential:
// each call's continuity context depends on the previous call's observed
// state. Cancellation is honored at window granularity, never mid-parse.
func (o *Orchestrator) Run(ctx context.Context, totalPages, windowSize int) (*Result, error) {
	start := time.Now()

	windows, err := Windows(totalPages, windowSize)
	if err != nil {
		o.status = domain.StatusFailed
		return nil, err
	}

	o.status = domain.StatusRunning
	o.log.Info().Int("pages", totalPages).Int("windows", len(windows)).Msg("starting extraction run")

	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			o.status = domain.StatusFailed
			return nil, domain.FatalExtraction("run cancelled", err)
		}

		if err := o.processWindow(ctx, w); err != nil {
			o.status = domain.StatusFailed
			o.log.Error().Str("window", w.String()).Err(err).Msg("window failed")
			return nil, err
		}

		if o.progress != nil {
			o.progress(i+1, len(windows))
		}

		if i < len(windows)-1 {
			if err := sleepCtx(ctx, o.delay); err != nil {
				o.status = domain.StatusFailed
				return nil, domain.FatalExtraction("run cancelled", err)
			}
		}
	}

	result := &Result{
		Status:   domain.StatusCompleted,
		Output:   o.stitcher.Output(),
		Windows:  len(windows),
		Sections: o.tracker.SectionCount(),
		Duration: time.Since(start),
	}

	// An open page at the very end means the tail could not be confirmed
	// complete. Partial success is acceptable; total loss is not.
	if open := o.tracker.OpenPage(); open != 0 {
		result.Truncated = true
		o.log.Warn().Int("page", open).Msg("TruncatedOutput: last page could not be confirmed complete")
	}

	o.status = domain.StatusCompleted
	return result, nil
}

// processWindow sends one window and stitches its response. Transient model
// errors are retried up to maxSendAttempts with the configured delay between
// attempts. A MalformedResponse retries the same window once, unmodified,
// before escalating to FatalExtractionError. Elements are folded in only
// after a fully successful parse, so failed attempts emit nothing.
func (o *Orchestrator) processWindow(ctx context.Context, w domain.Window) error {
	cc := o.tracker.ContextFor(w)

	parseRetried := false
	for {
		raw, err := o.sendWithRetry(ctx, cc)
		if err != nil {
			return err
		}

		err = o.stitcher.Stitch(w, raw)
		if err == nil {
			return nil
		}
		if !domain.IsKind(err, domain.KindMalformedResponse) {
			return err
		}
		if parseRetried {
			return domain.FatalExtraction(
				fmt.Sprintf("window %s still malformed after retry", w), err)
		}
		parseRetried = true
		o.log.Warn().Str("window", w.String()).Err(err).Msg("malformed response, retrying window once")
	}
}

// sendWithRetry calls the session, retrying transient failures. Fatal model
// errors abort immediately.
func (o *Orchestrator) sendWithRetry(ctx context.Context, cc continuity.Context) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		if d := retryDelay(attempt, o.delay); d > 0 {
			if err := sleepCtx(ctx, d); err != nil {
				return "", domain.FatalExtraction("run cancelled", err)
			}
		}

		raw, err := o.session.Send(ctx, cc)
		if err == nil {
			return raw, nil
		}
		if !domain.IsTransient(err) {
			return "", err
		}
		lastErr = err
		o.log.Warn().
			Str("window", cc.Window.String()).
			Int("attempt", attempt).
			Err(err).
			Msg("transient model error")
	}
	return "", lastErr
}

// retryDelay returns the wait before the given 1-based attempt. The first
// attempt never waits; every retry waits the configured delay.
func retryDelay(attempt int, delay time.Duration) time.Duration {
	if attempt <= 1 {
		return 0
	}
	return delay
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
