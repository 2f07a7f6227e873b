// Package jobs holds the background work submitted to the worker pool.
package jobs

import (
	"fmt"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/models"
)

// AssessmentStore is the slice of the database layer this job needs.
type AssessmentStore interface {
	InsertAssessment(record models.FluencyAssessment) error
}

// RecordAssessmentJob persists one finished assessment so it shows up in the
// patient's history. It runs off the request path; a failed insert never
// affects the response the patient already received.
type RecordAssessmentJob struct {
	JobID  string
	Record models.FluencyAssessment
	Store  AssessmentStore
}

// NewRecordAssessmentJob creates a job that stores the given assessment.
func NewRecordAssessmentJob(jobID string, record models.FluencyAssessment, store AssessmentStore) *RecordAssessmentJob {
	return &RecordAssessmentJob{
		JobID:  jobID,
		Record: record,
		Store:  store,
	}
}

// ID returns the unique identifier of the job.
func (j *RecordAssessmentJob) ID() string {
	return j.JobID
}

// Execute writes the assessment row.
func (j *RecordAssessmentJob) Execute() error {
	if err := j.Store.InsertAssessment(j.Record); err != nil {
		return fmt.Errorf("failed to record assessment for job %s: %w", j.JobID, err)
	}
	return nil
}

// Type returns the type of the job.
func (j *RecordAssessmentJob) Type() string {
	return "RECORD_ASSESSMENT"
}
