// Package db wraps the Supabase PostgREST API behind a Store so handlers and
// jobs can share one injected client.
package db

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/models"
)

const (
	exercisesTable   = "fluency_exercises"
	assessmentsTable = "fluency_assessments"
)

// Store executes all database operations over the Supabase REST API.
type Store struct {
	client *supa.Client
}

// NewStore initializes the Supabase client from explicit credentials.
func NewStore(supabaseURL, serviceKey string) (*Store, error) {
	if supabaseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set in environment variables")
	}

	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
	}

	return &Store{client: client}, nil
}

// ListExercises returns every fluency exercise ordered by level, then order.
func (s *Store) ListExercises() ([]models.FluencyExercise, error) {
	bodyBytes, _, err := s.client.From(exercisesTable).
		Select("*", "", false).
		Order("level", &postgrest.OrderOpts{Ascending: true}).
		Order("order", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fluency exercises: %w", err)
	}

	var exercises []models.FluencyExercise
	if err := json.Unmarshal(bodyBytes, &exercises); err != nil {
		return nil, fmt.Errorf("failed to parse fluency exercises: %w", err)
	}
	return exercises, nil
}

// ListActiveExercises returns active exercises ordered by level, then order.
func (s *Store) ListActiveExercises() ([]models.FluencyExercise, error) {
	bodyBytes, _, err := s.client.From(exercisesTable).
		Select("*", "", false).
		Eq("is_active", "true").
		Order("level", &postgrest.OrderOpts{Ascending: true}).
		Order("order", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active fluency exercises: %w", err)
	}

	var exercises []models.FluencyExercise
	if err := json.Unmarshal(bodyBytes, &exercises); err != nil {
		return nil, fmt.Errorf("failed to parse fluency exercises: %w", err)
	}
	return exercises, nil
}

// GetExercise fetches one exercise by primary key. A missing row returns
// (nil, nil).
func (s *Store) GetExercise(id uuid.UUID) (*models.FluencyExercise, error) {
	bodyBytes, _, err := s.client.From(exercisesTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exercise %s: %w", id, err)
	}

	var exercises []models.FluencyExercise
	if err := json.Unmarshal(bodyBytes, &exercises); err != nil {
		return nil, fmt.Errorf("failed to parse exercise %s: %w", id, err)
	}
	if len(exercises) == 0 {
		return nil, nil
	}
	return &exercises[0], nil
}

// CountExercises counts every exercise row, active or not.
func (s *Store) CountExercises() (int64, error) {
	_, count, err := s.client.From(exercisesTable).
		Select("id", "exact", true).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count fluency exercises: %w", err)
	}
	return count, nil
}

// CountActiveInLevel counts the active exercises within one level.
func (s *Store) CountActiveInLevel(level int) (int64, error) {
	_, count, err := s.client.From(exercisesTable).
		Select("id", "exact", true).
		Eq("level", strconv.Itoa(level)).
		Eq("is_active", "true").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count exercises in level %d: %w", level, err)
	}
	return count, nil
}

// FindActiveByLevelOrder looks up an active exercise occupying the given
// order slot in a level. excludeID, when non-empty, leaves that row out of
// the search so updates do not collide with themselves.
func (s *Store) FindActiveByLevelOrder(level, order int, excludeID string) (*models.FluencyExercise, error) {
	query := s.client.From(exercisesTable).
		Select("*", "", false).
		Eq("level", strconv.Itoa(level)).
		Eq("order", strconv.Itoa(order)).
		Eq("is_active", "true")
	if excludeID != "" {
		query = query.Neq("id", excludeID)
	}

	bodyBytes, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to look up order %d in level %d: %w", order, level, err)
	}

	var exercises []models.FluencyExercise
	if err := json.Unmarshal(bodyBytes, &exercises); err != nil {
		return nil, fmt.Errorf("failed to parse order lookup result: %w", err)
	}
	if len(exercises) == 0 {
		return nil, nil
	}
	return &exercises[0], nil
}

// InsertExercises inserts a batch of exercises and returns how many rows the
// database created.
func (s *Store) InsertExercises(exercises []models.FluencyExercise) (int, error) {
	bodyBytes, _, err := s.client.From(exercisesTable).
		Insert(exercises, false, "", "representation", "").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to insert fluency exercises: %w", err)
	}

	var created []models.FluencyExercise
	if err := json.Unmarshal(bodyBytes, &created); err != nil {
		return 0, fmt.Errorf("failed to parse insert response: %w", err)
	}
	return len(created), nil
}

// InsertExercise inserts one exercise and returns the stored row.
func (s *Store) InsertExercise(exercise models.FluencyExercise) (*models.FluencyExercise, error) {
	bodyBytes, _, err := s.client.From(exercisesTable).
		Insert(exercise, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert exercise %s: %w", exercise.ExerciseID, err)
	}

	var created []models.FluencyExercise
	if err := json.Unmarshal(bodyBytes, &created); err != nil || len(created) == 0 {
		return nil, fmt.Errorf("failed to parse created exercise %s: %w", exercise.ExerciseID, err)
	}
	return &created[0], nil
}

// UpdateExercise applies a partial update to one exercise row.
func (s *Store) UpdateExercise(id uuid.UUID, patch map[string]interface{}) error {
	_, _, err := s.client.From(exercisesTable).
		Update(patch, "", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update exercise %s: %w", id, err)
	}
	return nil
}

// DeleteExercise removes one exercise row. It reports whether a row was
// actually deleted.
func (s *Store) DeleteExercise(id uuid.UUID) (bool, error) {
	bodyBytes, _, err := s.client.From(exercisesTable).
		Delete("representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to delete exercise %s: %w", id, err)
	}

	var deleted []models.FluencyExercise
	if err := json.Unmarshal(bodyBytes, &deleted); err != nil {
		return false, fmt.Errorf("failed to parse delete response: %w", err)
	}
	return len(deleted) > 0, nil
}

// InsertAssessment stores one assessment result. History writes are fire and
// forget, so no row is returned.
func (s *Store) InsertAssessment(record models.FluencyAssessment) error {
	_, _, err := s.client.From(assessmentsTable).
		Insert(record, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert assessment for user %s: %w", record.UserID, err)
	}
	return nil
}

// ListAssessmentsByUser returns a user's most recent assessments, newest
// first.
func (s *Store) ListAssessmentsByUser(userID string, limit int) ([]models.FluencyAssessment, error) {
	bodyBytes, _, err := s.client.From(assessmentsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assessments for user %s: %w", userID, err)
	}

	var assessments []models.FluencyAssessment
	if err := json.Unmarshal(bodyBytes, &assessments); err != nil {
		return nil, fmt.Errorf("failed to parse assessments for user %s: %w", userID, err)
	}
	return assessments, nil
}
