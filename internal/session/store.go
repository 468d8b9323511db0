// Package session holds the view state shared by every screen for the life of
// the process: the ingested postings, the loading flag, the saved set, the
// search query, the expanded posting and the theme.
package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/amishk599/jobboard/internal/filter"
	"github.com/amishk599/jobboard/internal/model"
)

const refreshKey = "refresh"

// ViewState is a point-in-time copy of the store's state.
type ViewState struct {
	Jobs          []model.JobPosting
	Loading       bool
	SavedJobIDs   []string // insertion order
	SearchQuery   string
	ExpandedJobID string // "" when collapsed
	IsDarkMode    bool
}

// Store is the single owner of session state. All mutation goes through its
// methods. Readers get deep copies: nothing returned aliases the store's
// postings, so callers may modify what they receive.
type Store struct {
	fetcher model.JobFetcher
	logger  *slog.Logger
	flight  singleflight.Group

	mu       sync.RWMutex
	jobs     []model.JobPosting
	loading  bool
	saved    []string
	savedSet map[string]struct{}
	query    string
	expanded Expansion
	dark     bool

	initialCtx context.Context
}

// Option configures a Store at construction.
type Option func(*Store)

// WithDarkMode sets the initial theme.
func WithDarkMode(dark bool) Option {
	return func(s *Store) { s.dark = dark }
}

// WithInitialRefresh starts a Refresh in the background as soon as the store
// is built. ctx carries values for that first fetch.
func WithInitialRefresh(ctx context.Context) Option {
	return func(s *Store) { s.initialCtx = ctx }
}

// New creates a store that loads postings through fetcher. The store starts in
// the loading state with no postings.
//
// Nothing is fetched until Refresh is called, unless WithInitialRefresh is
// given. Owners that drive the first load themselves call Refresh right after
// New: the TUI so it can report the outcome on screen, the poller on its first
// Poll. Any other owner should pass WithInitialRefresh.
func New(fetcher model.JobFetcher, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		fetcher:  fetcher,
		logger:   logger,
		jobs:     []model.JobPosting{},
		loading:  true,
		savedSet: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.initialCtx != nil {
		go s.Refresh(s.initialCtx)
	}
	return s
}

// Refresh fetches the postings and replaces the collection on success. Failures
// are logged and leave the previous collection in place. Loading is cleared
// on every exit path.
func (s *Store) Refresh(ctx context.Context) {
	_ = s.RefreshResult(ctx)
}

// RefreshResult is Refresh for callers that need to know whether it worked.
//
// Overlapping calls are coalesced: a call made while a refresh is in flight
// waits for that refresh and shares its result instead of issuing a second
// request. The shared fetch is detached from cancellation of whichever caller
// started it, so one caller giving up never fails the others. Each caller's
// own ctx bounds only its wait; on expiry it gets ctx.Err() and the fetch
// carries on for the rest. The fetcher's client timeout bounds the fetch.
func (s *Store) RefreshResult(ctx context.Context) error {
	shared := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(refreshKey, func() (v any, err error) {
		defer func() {
			if r := recover(); r != nil {
				v = refreshPanic{value: r}
			}
		}()
		return nil, s.refresh(shared)
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if p, ok := res.Val.(refreshPanic); ok {
			panic(p.value)
		}
		if res.Shared {
			s.logger.Debug("joined in-flight refresh")
		}
		return res.Err
	}
}

// refreshPanic carries a fetcher panic out of the shared refresh goroutine so
// it is raised on the caller's goroutine.
type refreshPanic struct {
	value any
}

func (s *Store) refresh(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	jobs, err := s.fetcher.FetchJobs(ctx)
	if err != nil {
		s.logger.Error("error fetching jobs", "error", err)
		return err
	}
	jobs = model.CloneAll(jobs)
	if jobs == nil {
		jobs = []model.JobPosting{}
	}

	s.mu.Lock()
	s.jobs = jobs
	s.mu.Unlock()

	s.logger.Info("jobs refreshed", "count", len(jobs))
	return nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Loading reports whether a refresh is in progress (or has not run yet).
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Jobs returns the current collection in source order.
func (s *Store) Jobs() []model.JobPosting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneAll(s.jobs)
}

// Job looks up a posting in the current collection by id.
func (s *Store) Job(id string) (model.JobPosting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.ID == id {
			return j.Clone(), true
		}
	}
	return model.JobPosting{}, false
}

// SetSearchQuery replaces the free-text search query.
func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
}

// SearchQuery returns the current search query.
func (s *Store) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// FilteredJobs returns the postings matching the current search query, in
// source order. It is recomputed on every call.
func (s *Store) FilteredJobs() []model.JobPosting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneAll(filter.Search(s.jobs, s.query))
}

// ToggleSavedJob adds id to the saved set, or removes it if already present.
// Ids need not exist in the current collection.
func (s *Store) ToggleSavedJob(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.savedSet[id]; ok {
		delete(s.savedSet, id)
		s.saved = slices.DeleteFunc(s.saved, func(v string) bool { return v == id })
		return
	}
	s.savedSet[id] = struct{}{}
	s.saved = append(s.saved, id)
}

// IsSaved reports whether id is in the saved set.
func (s *Store) IsSaved(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.savedSet[id]
	return ok
}

// SavedJobIDs returns the saved ids in the order they were saved.
func (s *Store) SavedJobIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.saved)
}

// SavedJobs resolves the saved ids against the current collection, in the
// order they were saved. Ids with no posting in the latest batch are kept in
// the saved set but skipped here.
func (s *Store) SavedJobs() []model.JobPosting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[string]model.JobPosting, len(s.jobs))
	for _, j := range s.jobs {
		if _, ok := byID[j.ID]; !ok {
			byID[j.ID] = j
		}
	}
	out := make([]model.JobPosting, 0, len(s.saved))
	for _, id := range s.saved {
		if j, ok := byID[id]; ok {
			out = append(out, j.Clone())
		}
	}
	return out
}

// ToggleDarkMode flips the theme.
func (s *Store) ToggleDarkMode() {
	s.mu.Lock()
	s.dark = !s.dark
	s.mu.Unlock()
}

// IsDarkMode reports whether the dark palette is active.
func (s *Store) IsDarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

// Theme returns the palette for the current mode.
func (s *Store) Theme() Palette {
	return PaletteFor(s.IsDarkMode())
}

// ToggleExpanded applies a tap on id to the job list's expansion state.
func (s *Store) ToggleExpanded(id string) {
	s.mu.Lock()
	s.expanded.Toggle(id)
	s.mu.Unlock()
}

// ExpandedJobID returns the expanded posting in the job list, or "".
func (s *Store) ExpandedJobID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expanded.ID()
}

// Snapshot returns a copy of the whole view state.
func (s *Store) Snapshot() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ViewState{
		Jobs:          model.CloneAll(s.jobs),
		Loading:       s.loading,
		SavedJobIDs:   slices.Clone(s.saved),
		SearchQuery:   s.query,
		ExpandedJobID: s.expanded.ID(),
		IsDarkMode:    s.dark,
	}
}
