// Package apply validates and records application forms.
package apply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/amishk599/jobboard/internal/model"
)

// Form holds the raw field values typed by the user.
type Form struct {
	Name          string `validate:"required"`
	Email         string `validate:"required,email"`
	ContactNumber string `validate:"required,len=11,number"`
	Reason        string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessages maps field and failed tag to the message shown next to the input.
var fieldMessages = map[string]map[string]string{
	"Name":          {"required": "Name is required"},
	"Email":         {"required": "Email is required", "email": "Invalid email format"},
	"ContactNumber": {"required": "Contact number is required", "": "Must be a valid 11-digit number"},
	"Reason":        {"required": "Reason is required"},
}

// Trimmed returns a copy of f with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		Name:          strings.TrimSpace(f.Name),
		Email:         strings.TrimSpace(f.Email),
		ContactNumber: strings.TrimSpace(f.ContactNumber),
		Reason:        strings.TrimSpace(f.Reason),
	}
}

// Validate checks the trimmed form. The error, if any, is a
// validator.ValidationErrors and can be turned into messages with FieldErrors.
func (f Form) Validate() error {
	t := f.Trimmed()
	return validate.Struct(&t)
}

// FieldErrors maps each invalid field name to a user-facing message. Errors
// that are not validation errors yield nil.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, done := out[fe.Field()]; done {
			continue
		}
		msgs := fieldMessages[fe.Field()]
		msg, ok := msgs[fe.Tag()]
		if !ok {
			msg, ok = msgs[""]
		}
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		out[fe.Field()] = msg
	}
	return out
}

// Confirmation is the acknowledgment shown after a successful submission.
func Confirmation(app model.Application) string {
	return fmt.Sprintf("Your application for %s at %s has been submitted!", app.JobTitle, app.CompanyName)
}

// Submitter validates forms and records them for the running session.
type Submitter struct {
	store  model.ApplicationStore
	logger *slog.Logger
	now    func() time.Time
}

// NewSubmitter creates a submitter that records applications in store.
func NewSubmitter(store model.ApplicationStore, logger *slog.Logger) *Submitter {
	return &Submitter{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates form for job and records it. Nothing leaves the device.
func (s *Submitter) Submit(ctx context.Context, job model.JobPosting, form Form) (model.Application, error) {
	if err := ctx.Err(); err != nil {
		return model.Application{}, err
	}
	if err := form.Validate(); err != nil {
		return model.Application{}, fmt.Errorf("invalid application: %w", err)
	}

	f := form.Trimmed()
	app := model.Application{
		JobID:         job.ID,
		JobTitle:      job.Title,
		CompanyName:   job.CompanyName,
		Name:          f.Name,
		Email:         f.Email,
		ContactNumber: f.ContactNumber,
		Reason:        f.Reason,
		SubmittedAt:   s.now(),
	}
	if err := s.store.RecordApplication(app); err != nil {
		return model.Application{}, fmt.Errorf("recording application for %s: %w", job.ID, err)
	}

	s.logger.Info("application submitted",
		"job_id", app.JobID,
		"title", app.JobTitle,
		"company", app.CompanyName,
	)
	return app, nil
}
