package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FluencyAssessment represents one stored fluency assessment result.
type FluencyAssessment struct {
	ID            uuid.UUID       `json:"id"`
	UserID        string          `json:"user_id"`
	ExerciseID    *string         `json:"exercise_id,omitempty"` // Nullable TEXT
	TargetText    *string         `json:"target_text,omitempty"` // Nullable TEXT
	Transcription string          `json:"transcription"`
	SpeakingRate  int             `json:"speaking_rate"`
	FluencyScore  int             `json:"fluency_score"`
	PauseCount    int             `json:"pause_count"`
	Disfluencies  int             `json:"disfluencies"`
	Duration      float64         `json:"duration"`
	WordCount     int             `json:"word_count"`
	Feedback      string          `json:"feedback"`
	Pauses        json.RawMessage `json:"pauses,omitempty"` // Nullable JSONB
	Words         json.RawMessage `json:"words,omitempty"`  // Nullable JSONB
	CreatedAt     time.Time       `json:"created_at"`
}
