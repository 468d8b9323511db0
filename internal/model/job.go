package model

import (
	"context"
	"slices"
	"time"
)

// JobPosting is one normalized job record ingested from the remote board.
// Values are built during ingestion and never modified afterwards.
type JobPosting struct {
	ID              string
	Title           string
	Description     string // raw HTML as served by the board
	MainCategory    string
	ApplicationLink string
	PubDate         string
	ExpiryDate      string
	CompanyName     string
	CompanyLogo     string
	JobType         string
	WorkModel       string
	SeniorityLevel  string
	MinSalary       float64
	MaxSalary       float64
	Locations       []string
	Tags            []string
}

// HasSalary reports whether either salary bound is set.
func (j JobPosting) HasSalary() bool {
	return j.MinSalary != 0 || j.MaxSalary != 0
}

// Clone returns a copy of j that shares no slices with it.
func (j JobPosting) Clone() JobPosting {
	j.Locations = slices.Clone(j.Locations)
	j.Tags = slices.Clone(j.Tags)
	return j
}

// CloneAll deep-copies a batch of postings. A nil batch stays nil.
func CloneAll(jobs []JobPosting) []JobPosting {
	if jobs == nil {
		return nil
	}
	out := make([]JobPosting, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}

// Application is a filled-in application form for a single posting.
type Application struct {
	JobID         string
	JobTitle      string
	CompanyName   string
	Name          string
	Email         string
	ContactNumber string
	Reason        string
	SubmittedAt   time.Time
}

// JobFetcher fetches the current list of postings from a source.
type JobFetcher interface {
	FetchJobs(ctx context.Context) ([]JobPosting, error)
}

// JobStore tracks which posting IDs have been seen for deduplication.
type JobStore interface {
	HasSeen(jobID string) (bool, error)
	MarkSeen(jobID string) error
	Cleanup(olderThan time.Duration) error
	IsEmpty() (bool, error)
}

// ApplicationStore records submitted applications for the running session.
type ApplicationStore interface {
	RecordApplication(app Application) error
	HasApplied(jobID string) (bool, error)
}

// Notifier reports newly discovered postings.
type Notifier interface {
	Notify(jobs []JobPosting) error
}

// JobFilter decides whether a posting matches the user's criteria.
type JobFilter interface {
	Match(job JobPosting) bool
}
