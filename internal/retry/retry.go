// Package retry re-issues board fetches that failed for transient reasons.
//
// The board's errors fall into three groups. Transport failures
// (model.ErrNetworkFailure) and server-side statuses (429, 5xx) are worth a
// second attempt. Client statuses, undecodable bodies and envelopes without a
// jobs array (model.ErrMalformedResponse) would fail identically, so they are
// returned at once. Cancellation always wins.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/amishk599/jobboard/internal/model"
)

// jitterFraction spreads each backoff over [d*(1-f), d*(1+f)].
const jitterFraction = 0.3

// RetryFetcher wraps a JobFetcher and retries transient board failures with
// exponential backoff. A Retry-After hint from the board replaces the backoff.
type RetryFetcher struct {
	inner      model.JobFetcher
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryFetcher wraps inner. maxRetries counts attempts after the first;
// zero disables retrying. baseDelay doubles on each retry.
func NewRetryFetcher(inner model.JobFetcher, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// FetchJobs fetches the board, retrying while failures stay transient. The
// last error is returned once retries run out.
func (f *RetryFetcher) FetchJobs(ctx context.Context) ([]model.JobPosting, error) {
	for attempt := 0; ; attempt++ {
		jobs, err := f.inner.FetchJobs(ctx)
		if err == nil {
			return jobs, nil
		}

		reason, retryable := classify(err)
		if !retryable || attempt == f.maxRetries {
			return nil, err
		}

		delay := f.backoffDelay(attempt+1, err)
		f.logger.Warn("board fetch failed, retrying",
			"reason", reason,
			"retry", attempt+1,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// backoffDelay is the wait before retry n (1-based): the board's Retry-After
// when it sent one, otherwise baseDelay*2^(n-1) with jitter.
func (f *RetryFetcher) backoffDelay(n int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := f.baseDelay << (n - 1)
	jitter := (rand.Float64()*2 - 1) * jitterFraction
	return time.Duration(float64(delay) * (1 + jitter))
}

// classify names the failure and reports whether another attempt could
// succeed.
func classify(err error) (reason string, retryable bool) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled", false
	case errors.Is(err, model.ErrMalformedResponse):
		return "malformed response", false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusTooManyRequests:
			return "rate limited", true
		case httpErr.StatusCode >= http.StatusInternalServerError:
			return "server error", true
		default:
			return "client error", false
		}
	}

	if errors.Is(err, model.ErrNetworkFailure) {
		return "network failure", true
	}
	return "unknown", false
}
