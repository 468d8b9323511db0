package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/amishk599/jobboard/internal/model"
)

// DefaultEndpoint is the public Empllo jobs feed.
const DefaultEndpoint = "https://empllo.com/api/v1"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// EmplloAdapter fetches postings from the Empllo jobs endpoint and normalizes
// them into JobPosting values.
type EmplloAdapter struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewEmplloAdapter creates an adapter for the given endpoint. An empty endpoint
// means DefaultEndpoint.
func NewEmplloAdapter(endpoint string, client *http.Client, logger *slog.Logger) *EmplloAdapter {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &EmplloAdapter{
		endpoint: endpoint,
		client:   client,
		logger:   logger,
	}
}

// Endpoint returns the URL this adapter reads from.
func (a *EmplloAdapter) Endpoint() string {
	return a.endpoint
}

// FetchJobs issues one GET against the endpoint and returns every record in
// source order. Individual malformed fields are defaulted; only transport,
// status, decode and envelope failures abort the call.
func (a *EmplloAdapter) FetchJobs(ctx context.Context) ([]model.JobPosting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("empllo fetch: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("empllo fetch: %w: %w", model.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("empllo fetch: %w", &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("empllo fetch: reading body: %w: %w", model.ErrNetworkFailure, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("empllo fetch: decoding body: %w", err)
	}

	if err := validateEnvelope(body); err != nil {
		return nil, fmt.Errorf("empllo fetch: %w: %w", model.ErrMalformedResponse, err)
	}
	records, ok := extractRecords(payload)
	if !ok {
		return nil, fmt.Errorf("empllo fetch: %w", model.ErrMalformedResponse)
	}

	jobs := make([]model.JobPosting, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		job := Normalize(rec)
		if _, dup := seen[job.ID]; dup {
			a.logger.Warn("duplicate job id in batch", "id", job.ID, "title", job.Title)
		}
		seen[job.ID] = struct{}{}
		jobs = append(jobs, job)
	}

	a.logger.Debug("fetched jobs", "endpoint", a.endpoint, "count", len(jobs))
	return jobs, nil
}
