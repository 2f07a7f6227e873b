package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FluencyExercise represents the structure of a fluency exercise in the database.
type FluencyExercise struct {
	ID               uuid.UUID `json:"id,omitempty"`
	ExerciseID       string    `json:"exercise_id"`
	Level            int       `json:"level"`
	LevelName        string    `json:"level_name"`
	LevelColor       string    `json:"level_color"`
	Order            int       `json:"order"`
	Type             string    `json:"type"`
	Instruction      string    `json:"instruction"`
	Target           string    `json:"target"`
	ExpectedDuration int       `json:"expected_duration"` // Seconds
	Breathing        bool      `json:"breathing"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LevelMeta carries the display metadata attached to one fluency level.
type LevelMeta struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// FluencyLevels maps each of the five fluency levels to its display metadata.
var FluencyLevels = map[int]LevelMeta{
	1: {Name: "Breathing & Single Words", Color: "#e8b04e"},
	2: {Name: "Short Phrases", Color: "#479ac3"},
	3: {Name: "Complete Sentences", Color: "#ce3630"},
	4: {Name: "Reading Passages", Color: "#8e44ad"},
	5: {Name: "Spontaneous Speech", Color: "#27ae60"},
}

var typePrefixes = map[string]string{
	"controlled-breathing": "breath",
	"short-phrase":         "phrase",
	"sentence":             "sentence",
	"passage":              "passage",
	"spontaneous":          "spontaneous",
}

// LevelMetaFor returns the metadata for a level, with placeholder values for
// levels outside the known range.
func LevelMetaFor(level int) LevelMeta {
	if meta, ok := FluencyLevels[level]; ok {
		return meta
	}
	return LevelMeta{Name: "Unknown Level", Color: "#999999"}
}

// BuildExerciseID derives the public exercise identifier from type and order,
// e.g. "breath-1".
func BuildExerciseID(exerciseType string, order int) string {
	prefix, ok := typePrefixes[exerciseType]
	if !ok {
		prefix = "exercise"
	}
	return fmt.Sprintf("%s-%d", prefix, order)
}
