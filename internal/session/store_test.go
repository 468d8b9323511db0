package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobboard/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fetcherFunc adapts a function into a model.JobFetcher.
type fetcherFunc func(ctx context.Context) ([]model.JobPosting, error)

func (f fetcherFunc) FetchJobs(ctx context.Context) ([]model.JobPosting, error) {
	return f(ctx)
}

func staticFetcher(jobs ...model.JobPosting) fetcherFunc {
	return func(context.Context) ([]model.JobPosting, error) { return jobs, nil }
}

func failingFetcher(err error) fetcherFunc {
	return func(context.Context) ([]model.JobPosting, error) { return nil, err }
}

func posting(id, title, company string, tags ...string) model.JobPosting {
	return model.JobPosting{ID: id, Title: title, CompanyName: company, Tags: tags}
}

func TestNew_StartsLoadingAndEmpty(t *testing.T) {
	s := New(staticFetcher(), discardLogger())

	snap := s.Snapshot()
	assert.True(t, snap.Loading)
	assert.Empty(t, snap.Jobs)
	assert.Empty(t, snap.SavedJobIDs)
	assert.Equal(t, "", snap.SearchQuery)
	assert.Equal(t, "", snap.ExpandedJobID)
	assert.False(t, snap.IsDarkMode)
}

func TestNew_WithDarkMode(t *testing.T) {
	s := New(staticFetcher(), discardLogger(), WithDarkMode(true))
	assert.True(t, s.IsDarkMode())
	assert.Equal(t, DarkPalette, s.Theme())
}

func TestRefresh_ReplacesCollection(t *testing.T) {
	jobs := []model.JobPosting{posting("1", "Engineer", "Acme"), posting("2", "Designer", "Zeta")}
	s := New(staticFetcher(jobs...), discardLogger())

	s.Refresh(context.Background())

	assert.False(t, s.Loading())
	assert.Equal(t, jobs, s.Jobs())
}

func TestRefresh_LoadingDuringFetch(t *testing.T) {
	var s *Store
	var sawLoading bool
	s = New(fetcherFunc(func(context.Context) ([]model.JobPosting, error) {
		sawLoading = s.Loading()
		return nil, nil
	}), discardLogger())
	s.setLoading(false)

	s.Refresh(context.Background())

	assert.True(t, sawLoading, "loading should be set while the fetch runs")
	assert.False(t, s.Loading())
	assert.NotNil(t, s.Jobs())
}

func TestRefresh_FailureKeepsPriorCollection(t *testing.T) {
	prior := []model.JobPosting{posting("1", "Engineer", "Acme")}
	var fail atomic.Bool
	s := New(fetcherFunc(func(context.Context) ([]model.JobPosting, error) {
		if fail.Load() {
			return nil, fmt.Errorf("fetch: %w", model.ErrMalformedResponse)
		}
		return prior, nil
	}), discardLogger())

	s.Refresh(context.Background())
	require.Equal(t, prior, s.Jobs())

	fail.Store(true)
	err := s.RefreshResult(context.Background())

	assert.ErrorIs(t, err, model.ErrMalformedResponse)
	assert.False(t, s.Loading())
	assert.Equal(t, prior, s.Jobs())
}

func TestRefresh_FirstLoadFailureLeavesEmpty(t *testing.T) {
	s := New(failingFetcher(model.ErrNetworkFailure), discardLogger())

	s.Refresh(context.Background())

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Jobs)
}

func TestRefresh_ClearsLoadingOnPanic(t *testing.T) {
	s := New(fetcherFunc(func(context.Context) ([]model.JobPosting, error) {
		panic("boom")
	}), discardLogger())

	assert.Panics(t, func() { s.Refresh(context.Background()) })
	assert.False(t, s.Loading())
}

func TestRefresh_OverlappingCallsShareOneFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	s := New(fetcherFunc(func(context.Context) ([]model.JobPosting, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return []model.JobPosting{posting("1", "Engineer", "Acme")}, nil
	}), discardLogger())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = s.RefreshResult(context.Background())
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[1] = s.RefreshResult(context.Background())
	}()
	// Give the second caller time to join the in-flight refresh.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Len(t, s.Jobs(), 1)
}

func TestRefresh_SequentialCallsFetchAgain(t *testing.T) {
	var calls atomic.Int32
	s := New(fetcherFunc(func(context.Context) ([]model.JobPosting, error) {
		n := calls.Add(1)
		return []model.JobPosting{posting(fmt.Sprint(n), "Engineer", "Acme")}, nil
	}), discardLogger())

	s.Refresh(context.Background())
	s.Refresh(context.Background())

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "2", s.Jobs()[0].ID)
}

func TestToggleSavedJob(t *testing.T) {
	s := New(staticFetcher(), discardLogger())

	s.ToggleSavedJob("7")
	assert.Equal(t, []string{"7"}, s.SavedJobIDs())
	assert.True(t, s.IsSaved("7"))

	s.ToggleSavedJob("7")
	assert.Empty(t, s.SavedJobIDs())
	assert.False(t, s.IsSaved("7"))
}

func TestToggleSavedJob_DoubleToggleRestoresSet(t *testing.T) {
	s := New(staticFetcher(), discardLogger())
	s.ToggleSavedJob("a")
	s.ToggleSavedJob("b")
	before := s.SavedJobIDs()

	for _, id := range []string{"a", "c"} {
		s.ToggleSavedJob(id)
		s.ToggleSavedJob(id)
		assert.ElementsMatch(t, before, s.SavedJobIDs(), "toggling %q twice", id)
	}
}

func TestToggleSavedJob_KeepsInsertionOrder(t *testing.T) {
	s := New(staticFetcher(), discardLogger())
	for _, id := range []string{"c", "a", "b"} {
		s.ToggleSavedJob(id)
	}
	s.ToggleSavedJob("a")

	assert.Equal(t, []string{"c", "b"}, s.SavedJobIDs())
}

func TestSavedJobs_RetainsStaleIDs(t *testing.T) {
	var batch atomic.Int32
	s := New(fetcherFunc(func(context.Context) ([]model.JobPosting, error) {
		if batch.Add(1) == 1 {
			return []model.JobPosting{posting("1", "Engineer", "Acme"), posting("2", "Designer", "Zeta")}, nil
		}
		return []model.JobPosting{posting("2", "Designer", "Zeta")}, nil
	}), discardLogger())

	s.Refresh(context.Background())
	s.ToggleSavedJob("2")
	s.ToggleSavedJob("1")
	require.Len(t, s.SavedJobs(), 2)
	assert.Equal(t, "2", s.SavedJobs()[0].ID, "saved postings follow save order")

	s.Refresh(context.Background())

	assert.Equal(t, []string{"2", "1"}, s.SavedJobIDs(), "stale id is retained")
	saved := s.SavedJobs()
	require.Len(t, saved, 1)
	assert.Equal(t, "2", saved[0].ID)
}

func TestFilteredJobs(t *testing.T) {
	s := New(staticFetcher(
		posting("1", "Backend Engineer", "Zeta"),
		posting("2", "UX Designer", "Acme"),
		posting("3", "SRE", "Beta", "Backend", "go"),
	), discardLogger())
	s.Refresh(context.Background())

	assert.Len(t, s.FilteredJobs(), 3, "empty query matches everything")

	s.SetSearchQuery("acme")
	got := s.FilteredJobs()
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].CompanyName)

	s.SetSearchQuery("BACKEND")
	got = s.FilteredJobs()
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
	assert.Equal(t, "BACKEND", s.SearchQuery())
}

func TestToggleDarkMode(t *testing.T) {
	s := New(staticFetcher(), discardLogger())
	assert.Equal(t, LightPalette, s.Theme())

	s.ToggleDarkMode()
	assert.True(t, s.IsDarkMode())
	assert.Equal(t, DarkPalette, s.Theme())

	s.ToggleDarkMode()
	assert.False(t, s.IsDarkMode())
}

func TestToggleExpanded(t *testing.T) {
	s := New(staticFetcher(), discardLogger())

	s.ToggleExpanded("A")
	assert.Equal(t, "A", s.ExpandedJobID())

	s.ToggleExpanded("B")
	assert.Equal(t, "B", s.ExpandedJobID(), "tapping another posting switches")

	s.ToggleExpanded("B")
	assert.Equal(t, "", s.ExpandedJobID(), "tapping the open posting collapses")
}

func TestJobLookup(t *testing.T) {
	s := New(staticFetcher(posting("1", "Engineer", "Acme")), discardLogger())
	s.Refresh(context.Background())

	j, ok := s.Job("1")
	assert.True(t, ok)
	assert.Equal(t, "Engineer", j.Title)

	_, ok = s.Job("missing")
	assert.False(t, ok)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := New(staticFetcher(posting("1", "Engineer", "Acme", "go")), discardLogger())
	s.Refresh(context.Background())
	s.ToggleSavedJob("1")

	snap := s.Snapshot()
	snap.Jobs[0].Title = "changed"
	snap.Jobs[0].Tags[0] = "mutated"
	snap.SavedJobIDs[0] = "changed"

	assert.Equal(t, "Engineer", s.Jobs()[0].Title)
	assert.Equal(t, []string{"go"}, s.Jobs()[0].Tags)
	assert.Equal(t, []string{"1"}, s.SavedJobIDs())

	s.SetSearchQuery("mutated")
	assert.Empty(t, s.FilteredJobs())
}

func TestReaders_DoNotAliasPostings(t *testing.T) {
	source := []model.JobPosting{{
		ID:          "1",
		Title:       "Engineer",
		CompanyName: "Acme",
		Locations:   []string{"Manila"},
		Tags:        []string{"go"},
	}}
	s := New(staticFetcher(source...), discardLogger())
	s.Refresh(context.Background())
	s.ToggleSavedJob("1")

	source[0].Tags[0] = "from-fetcher"
	s.Jobs()[0].Tags[0] = "from-jobs"
	s.FilteredJobs()[0].Locations[0] = "from-filtered"
	s.SavedJobs()[0].Tags[0] = "from-saved"
	j, ok := s.Job("1")
	require.True(t, ok)
	j.Locations[0] = "from-job"

	got := s.Jobs()[0]
	assert.Equal(t, []string{"go"}, got.Tags)
	assert.Equal(t, []string{"Manila"}, got.Locations)
}

func TestNew_DoesNotFetchWithoutInitialRefresh(t *testing.T) {
	var calls atomic.Int32
	s := New(fetcherFunc(func(context.Context) ([]model.JobPosting, error) {
		calls.Add(1)
		return nil, nil
	}), discardLogger())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.True(t, s.Loading())
}

func TestNew_WithInitialRefresh(t *testing.T) {
	s := New(staticFetcher(posting("1", "Engineer", "Acme")), discardLogger(),
		WithInitialRefresh(context.Background()))

	require.Eventually(t, func() bool {
		return !s.Loading() && len(s.Jobs()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRefresh_LeaderCancelDoesNotFailJoinedCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	s := New(fetcherFunc(func(ctx context.Context) ([]model.JobPosting, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return []model.JobPosting{posting("1", "Engineer", "Acme")}, nil
	}), discardLogger())

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	defer cancelLeader()

	leaderErr := make(chan error, 1)
	go func() { leaderErr <- s.RefreshResult(leaderCtx) }()
	<-started

	joinedErr := make(chan error, 1)
	go func() { joinedErr <- s.RefreshResult(context.Background()) }()
	// Give the second caller time to join the in-flight refresh.
	time.Sleep(50 * time.Millisecond)

	cancelLeader()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	assert.NoError(t, <-joinedErr)
	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, s.Jobs(), 1)
}

func TestRefresh_CallerStopsWaitingOnOwnCancel(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	s := New(fetcherFunc(func(context.Context) ([]model.JobPosting, error) {
		<-release
		return nil, nil
	}), discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, s.RefreshResult(ctx), context.DeadlineExceeded)
}

func TestRefresh_ErrorIsReportedNotRaised(t *testing.T) {
	s := New(failingFetcher(errors.New("dial tcp: no route to host")), discardLogger())
	assert.NotPanics(t, func() { s.Refresh(context.Background()) })
	assert.Error(t, s.RefreshResult(context.Background()))
}
