package store

import (
	"time"

	"github.com/amishk599/jobboard/internal/model"
)

// NopStore is a no-op store used by one-shot commands. It never marks postings
// as seen, so every posting appears new, and it drops applications.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(jobID string) (bool, error) { return false, nil }
func (s *NopStore) MarkSeen(jobID string) error { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error { return nil }
func (s *NopStore) IsEmpty() (bool, error) { return true, nil }
func (s *NopStore) RecordApplication(app model.Application) error { return nil }
func (s *NopStore) HasApplied(jobID string) (bool, error) { return false, nil }
