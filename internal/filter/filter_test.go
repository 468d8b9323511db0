package filter

import (
	"testing"

	"github.com/amishk599/jobboard/internal/model"
)

func job(title, company string, tags ...string) model.JobPosting {
	return model.JobPosting{ID: title, Title: title, CompanyName: company, Tags: tags}
}

func TestSearchFilter_Match(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		job       model.JobPosting
		wantMatch bool
	}{
		{
			name:      "matches title",
			query:     "backend",
			job:       job("Backend Engineer", "Zeta"),
			wantMatch: true,
		},
		{
			name:      "matches company even when title misses",
			query:     "acme",
			job:       job("UX Designer", "Acme"),
			wantMatch: true,
		},
		{
			name:      "matches any tag",
			query:     "kubernetes",
			job:       job("SRE", "Zeta", "go", "Kubernetes"),
			wantMatch: true,
		},
		{
			name:      "case insensitive matching",
			query:     "ENGINEER",
			job:       job("backend engineer", "Zeta"),
			wantMatch: true,
		},
		{
			name:      "substring inside a word",
			query:     "sign",
			job:       job("UX Designer", "Zeta"),
			wantMatch: true,
		},
		{
			name:      "does not search other fields",
			query:     "remote",
			job:       model.JobPosting{Title: "Engineer", CompanyName: "Acme", WorkModel: "Remote"},
			wantMatch: false,
		},
		{
			name:      "no field matches",
			query:     "devops",
			job:       job("Frontend Engineer", "Acme", "react"),
			wantMatch: false,
		},
		{
			name:      "non-ASCII letters lowercase",
			query:     "ÉQUIPE",
			job:       job("Chef d'équipe", "Zeta"),
			wantMatch: true,
		},
		{
			name:      "sharp s is not expanded to ss",
			query:     "ss",
			job:       job("Straße Planner", "Zeta"),
			wantMatch: false,
		},
		{
			name:      "ss is not contracted to sharp s",
			query:     "ß",
			job:       job("STRASSE Planner", "Zeta"),
			wantMatch: false,
		},
		{
			name:      "empty query passes all",
			query:     "",
			job:       job("Any Role", "Anyone"),
			wantMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSearchFilter(tt.query)
			got := f.Match(tt.job)
			if got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestSearch_PreservesOrder(t *testing.T) {
	jobs := []model.JobPosting{
		job("Backend Engineer", "Acme"),
		job("UX Designer", "Zeta"),
		job("Data Engineer", "Beta"),
	}

	got := Search(jobs, "engineer")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Title != "Backend Engineer" || got[1].Title != "Data Engineer" {
		t.Errorf("unexpected order: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	jobs := []model.JobPosting{
		job("Backend Engineer", "Acme"),
		job("UX Designer", "Zeta"),
	}

	got := Search(jobs, "")
	if len(got) != len(jobs) {
		t.Fatalf("expected %d jobs, got %d", len(jobs), len(got))
	}
	for i := range jobs {
		if got[i].Title != jobs[i].Title {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Title, jobs[i].Title)
		}
	}
}

func TestSearch_CompanyScenario(t *testing.T) {
	jobs := []model.JobPosting{
		job("Backend Engineer", "Acme"),
		job("UX Designer", "Zeta"),
	}

	got := Search(jobs, "acme")
	if len(got) != 1 || got[0].CompanyName != "Acme" {
		t.Fatalf("expected only the Acme job, got %+v", got)
	}
}
