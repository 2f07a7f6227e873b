package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/assessment"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/worker"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/models"
)

// FluencyAssessor runs one audio assessment end to end. Declared as an
// interface so handler tests can substitute the pipeline.
type FluencyAssessor interface {
	Assess(ctx context.Context, in assessment.Input) (*assessment.Outcome, error)
}

// ExerciseStore is the slice of the database layer the exercise CRUD
// handlers use.
type ExerciseStore interface {
	ListExercises() ([]models.FluencyExercise, error)
	ListActiveExercises() ([]models.FluencyExercise, error)
	GetExercise(id uuid.UUID) (*models.FluencyExercise, error)
	CountExercises() (int64, error)
	CountActiveInLevel(level int) (int64, error)
	FindActiveByLevelOrder(level, order int, excludeID string) (*models.FluencyExercise, error)
	InsertExercises(exercises []models.FluencyExercise) (int, error)
	InsertExercise(exercise models.FluencyExercise) (*models.FluencyExercise, error)
	UpdateExercise(id uuid.UUID, patch map[string]interface{}) error
	DeleteExercise(id uuid.UUID) (bool, error)
}

// AssessmentStore is the slice of the database layer that reads and writes
// assessment history.
type AssessmentStore interface {
	InsertAssessment(record models.FluencyAssessment) error
	ListAssessmentsByUser(userID string, limit int) ([]models.FluencyAssessment, error)
}

// JobSubmitter queues background work.
type JobSubmitter interface {
	SubmitJob(job worker.Job) bool
}

// ApplicationHandler holds shared dependencies for handlers. Exercises and
// Assessments stay nil when the database is unreachable at startup; handlers
// that need them degrade instead of crashing.
type ApplicationHandler struct {
	Assessor    FluencyAssessor
	Exercises   ExerciseStore
	Assessments AssessmentStore
	Jobs        JobSubmitter
	Logger      *logrus.Logger
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(assessor FluencyAssessor, exercises ExerciseStore, assessments AssessmentStore, jobs JobSubmitter, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Assessor:    assessor,
		Exercises:   exercises,
		Assessments: assessments,
		Jobs:        jobs,
		Logger:      logger,
	}
}
