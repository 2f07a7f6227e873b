package jobs

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/models"
)

type stubStore struct {
	inserted []models.FluencyAssessment
	err      error
}

func (s *stubStore) InsertAssessment(record models.FluencyAssessment) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, record)
	return nil
}

func TestRecordAssessmentJobInserts(t *testing.T) {
	store := &stubStore{}
	record := models.FluencyAssessment{
		ID:           uuid.New(),
		UserID:       "user-1",
		FluencyScore: 85,
	}

	job := NewRecordAssessmentJob("job-1", record, store)
	if err := job.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d records, want 1", len(store.inserted))
	}
	if store.inserted[0].UserID != "user-1" || store.inserted[0].FluencyScore != 85 {
		t.Errorf("stored record = %+v", store.inserted[0])
	}
	if job.ID() != "job-1" {
		t.Errorf("ID() = %q", job.ID())
	}
}

func TestRecordAssessmentJobWrapsStoreError(t *testing.T) {
	sentinel := errors.New("insert refused")
	job := NewRecordAssessmentJob("job-2", models.FluencyAssessment{}, &stubStore{err: sentinel})

	err := job.Execute()
	if !errors.Is(err, sentinel) {
		t.Fatalf("error = %v, want wrapped sentinel", err)
	}
}
