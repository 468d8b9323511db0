package apply

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobboard/internal/model"
)

func validForm() Form {
	return Form{
		Name:          "Juan Dela Cruz",
		Email:         "juan@example.com",
		ContactNumber: "09171234567",
		Reason:        "I love building things.",
	}
}

func TestForm_ValidPasses(t *testing.T) {
	assert.NoError(t, validForm().Validate())
}

func TestForm_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		field  string
		want   string
	}{
		{name: "missing name", mutate: func(f *Form) { f.Name = "" }, field: "Name", want: "Name is required"},
		{name: "whitespace name", mutate: func(f *Form) { f.Name = "   " }, field: "Name", want: "Name is required"},
		{name: "missing email", mutate: func(f *Form) { f.Email = "" }, field: "Email", want: "Email is required"},
		{name: "bad email", mutate: func(f *Form) { f.Email = "juan@" }, field: "Email", want: "Invalid email format"},
		{name: "missing contact", mutate: func(f *Form) { f.ContactNumber = "" }, field: "ContactNumber", want: "Contact number is required"},
		{name: "short contact", mutate: func(f *Form) { f.ContactNumber = "0917123" }, field: "ContactNumber", want: "Must be a valid 11-digit number"},
		{name: "long contact", mutate: func(f *Form) { f.ContactNumber = "091712345678" }, field: "ContactNumber", want: "Must be a valid 11-digit number"},
		{name: "contact with letters", mutate: func(f *Form) { f.ContactNumber = "0917123456a" }, field: "ContactNumber", want: "Must be a valid 11-digit number"},
		{name: "contact with sign", mutate: func(f *Form) { f.ContactNumber = "+9171234567" }, field: "ContactNumber", want: "Must be a valid 11-digit number"},
		{name: "missing reason", mutate: func(f *Form) { f.Reason = "" }, field: "Reason", want: "Reason is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := validForm()
			tc.mutate(&f)

			errs := FieldErrors(f.Validate())
			require.Len(t, errs, 1)
			assert.Equal(t, tc.want, errs[tc.field])
		})
	}
}

func TestForm_EmptyFormReportsEveryField(t *testing.T) {
	errs := FieldErrors(Form{}.Validate())
	assert.Equal(t, map[string]string{
		"Name":          "Name is required",
		"Email":         "Email is required",
		"ContactNumber": "Contact number is required",
		"Reason":        "Reason is required",
	}, errs)
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(nil))
	assert.Nil(t, FieldErrors(errors.New("boom")))
}

func TestConfirmation(t *testing.T) {
	app := model.Application{JobTitle: "Engineer", CompanyName: "Acme"}
	assert.Equal(t, "Your application for Engineer at Acme has been submitted!", Confirmation(app))
}

// memStore is an in-memory ApplicationStore.
type memStore struct {
	apps []model.Application
	err  error
}

func (m *memStore) RecordApplication(app model.Application) error {
	if m.err != nil {
		return m.err
	}
	m.apps = append(m.apps, app)
	return nil
}

func (m *memStore) HasApplied(jobID string) (bool, error) {
	for _, a := range m.apps {
		if a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func newTestSubmitter(store model.ApplicationStore) *Submitter {
	s := NewSubmitter(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestSubmit_RecordsTrimmedApplication(t *testing.T) {
	store := &memStore{}
	s := newTestSubmitter(store)
	job := model.JobPosting{ID: "7", Title: "Engineer", CompanyName: "Acme"}
	form := validForm()
	form.Email = "  juan@example.com "

	app, err := s.Submit(context.Background(), job, form)
	require.NoError(t, err)

	assert.Equal(t, "7", app.JobID)
	assert.Equal(t, "Engineer", app.JobTitle)
	assert.Equal(t, "Acme", app.CompanyName)
	assert.Equal(t, "juan@example.com", app.Email)
	assert.Equal(t, 2026, app.SubmittedAt.Year())
	require.Len(t, store.apps, 1)

	applied, err := store.HasApplied("7")
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestSubmit_InvalidFormIsNotRecorded(t *testing.T) {
	store := &memStore{}
	s := newTestSubmitter(store)

	_, err := s.Submit(context.Background(), model.JobPosting{ID: "7"}, Form{Name: "Juan"})
	require.Error(t, err)
	assert.NotEmpty(t, FieldErrors(err))
	assert.Empty(t, store.apps)
}

func TestSubmit_StoreError(t *testing.T) {
	s := newTestSubmitter(&memStore{err: errors.New("disk full")})

	_, err := s.Submit(context.Background(), model.JobPosting{ID: "7"}, validForm())
	assert.ErrorContains(t, err, "disk full")
}

func TestSubmit_CancelledContext(t *testing.T) {
	store := &memStore{}
	s := newTestSubmitter(store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Submit(ctx, model.JobPosting{ID: "7"}, validForm())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.apps)
}
