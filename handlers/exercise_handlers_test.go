package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/models"
)

// fakeExerciseStore keeps exercises in memory and mimics the ordering and
// filtering the real queries apply.
type fakeExerciseStore struct {
	exercises []models.FluencyExercise
	patches   map[string]map[string]interface{}
}

func (f *fakeExerciseStore) ListExercises() ([]models.FluencyExercise, error) {
	out := append([]models.FluencyExercise(nil), f.exercises...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func (f *fakeExerciseStore) ListActiveExercises() ([]models.FluencyExercise, error) {
	all, _ := f.ListExercises()
	var active []models.FluencyExercise
	for _, ex := range all {
		if ex.IsActive {
			active = append(active, ex)
		}
	}
	return active, nil
}

func (f *fakeExerciseStore) GetExercise(id uuid.UUID) (*models.FluencyExercise, error) {
	for i := range f.exercises {
		if f.exercises[i].ID == id {
			ex := f.exercises[i]
			return &ex, nil
		}
	}
	return nil, nil
}

func (f *fakeExerciseStore) CountExercises() (int64, error) {
	return int64(len(f.exercises)), nil
}

func (f *fakeExerciseStore) CountActiveInLevel(level int) (int64, error) {
	var n int64
	for _, ex := range f.exercises {
		if ex.Level == level && ex.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeExerciseStore) FindActiveByLevelOrder(level, order int, excludeID string) (*models.FluencyExercise, error) {
	for i := range f.exercises {
		ex := f.exercises[i]
		if ex.Level == level && ex.Order == order && ex.IsActive && ex.ID.String() != excludeID {
			return &ex, nil
		}
	}
	return nil, nil
}

func (f *fakeExerciseStore) InsertExercises(exercises []models.FluencyExercise) (int, error) {
	f.exercises = append(f.exercises, exercises...)
	return len(exercises), nil
}

func (f *fakeExerciseStore) InsertExercise(exercise models.FluencyExercise) (*models.FluencyExercise, error) {
	f.exercises = append(f.exercises, exercise)
	return &exercise, nil
}

func (f *fakeExerciseStore) UpdateExercise(id uuid.UUID, patch map[string]interface{}) error {
	if f.patches == nil {
		f.patches = make(map[string]map[string]interface{})
	}
	f.patches[id.String()] = patch
	for i := range f.exercises {
		if f.exercises[i].ID != id {
			continue
		}
		if v, ok := patch["is_active"].(bool); ok {
			f.exercises[i].IsActive = v
		}
		if v, ok := patch["level"].(int); ok {
			f.exercises[i].Level = v
		}
		if v, ok := patch["order"].(int); ok {
			f.exercises[i].Order = v
		}
	}
	return nil
}

func (f *fakeExerciseStore) DeleteExercise(id uuid.UUID) (bool, error) {
	for i := range f.exercises {
		if f.exercises[i].ID == id {
			f.exercises = append(f.exercises[:i], f.exercises[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func storedExercise(level, order int, active bool) models.FluencyExercise {
	meta := models.LevelMetaFor(level)
	now := time.Now()
	return models.FluencyExercise{
		ID:               uuid.New(),
		ExerciseID:       fmt.Sprintf("ex-%d-%d", level, order),
		Level:            level,
		LevelName:        meta.Name,
		LevelColor:       meta.Color,
		Order:            order,
		Type:             "short-phrase",
		Instruction:      "Say it slowly",
		Target:           "Good morning",
		ExpectedDuration: 4,
		IsActive:         active,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func newExerciseApp(store ExerciseStore) (*fiber.App, *ApplicationHandler) {
	h := NewApplicationHandler(nil, store, nil, nil, testLogger())
	app := fiber.New()
	app.Post("/api/fluency-exercises/seed", h.SeedExercises)
	app.Get("/api/fluency-exercises/validate", h.ValidateExercises)
	app.Get("/api/fluency-exercises", h.GetAllExercises)
	app.Post("/api/fluency-exercises", h.CreateExercise)
	app.Put("/api/fluency-exercises/:id", h.UpdateExercise)
	app.Delete("/api/fluency-exercises/:id", h.DeleteExercise)
	app.Patch("/api/fluency-exercises/:id/toggle-active", h.ToggleExerciseActive)
	return app, h
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSeedExercisesPopulatesEmptyDatabase(t *testing.T) {
	store := &fakeExerciseStore{}
	app, _ := newExerciseApp(store)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/fluency-exercises/seed", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "Successfully seeded 12 fluency exercises" {
		t.Errorf("message = %v", body["message"])
	}
	if len(store.exercises) != 12 {
		t.Fatalf("stored %d exercises, want 12", len(store.exercises))
	}
	perLevel := map[int]int{}
	for _, ex := range store.exercises {
		perLevel[ex.Level]++
		if !ex.IsActive {
			t.Errorf("seeded exercise %s is inactive", ex.ExerciseID)
		}
	}
	want := map[int]int{1: 3, 2: 3, 3: 2, 4: 2, 5: 2}
	for level, n := range want {
		if perLevel[level] != n {
			t.Errorf("level %d seeded %d exercises, want %d", level, perLevel[level], n)
		}
	}
}

func TestSeedExercisesRefusesNonEmptyDatabase(t *testing.T) {
	store := &fakeExerciseStore{exercises: []models.FluencyExercise{storedExercise(1, 1, true)}}
	app, _ := newExerciseApp(store)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/fluency-exercises/seed", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "Database already has 1 exercises. Clear them first if you want to reseed." {
		t.Errorf("message = %v", body["message"])
	}
	if body["existing_count"].(float64) != 1 {
		t.Errorf("existing_count = %v", body["existing_count"])
	}
	if len(store.exercises) != 1 {
		t.Errorf("refused seed still wrote %d exercises", len(store.exercises))
	}
}

func TestGetAllExercisesEmptyDatabase(t *testing.T) {
	app, _ := newExerciseApp(&fakeExerciseStore{})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/fluency-exercises", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body := decodeBody(t, resp)
	exercises, ok := body["exercises"].([]interface{})
	if !ok {
		t.Fatalf("exercises = %T, want empty JSON array", body["exercises"])
	}
	if len(exercises) != 0 || body["count"].(float64) != 0 {
		t.Errorf("exercises/count = %v/%v", exercises, body["count"])
	}
}

func TestCreateExerciseValidation(t *testing.T) {
	base := func() fiber.Map {
		return fiber.Map{
			"level":             2,
			"type":              "short-phrase",
			"instruction":       "Say this phrase slowly",
			"target":            "Good evening",
			"expected_duration": 4,
			"order":             1,
		}
	}

	cases := []struct {
		name    string
		mutate  func(fiber.Map)
		seeded  []models.FluencyExercise
		message string
	}{
		{
			name:    "missing level",
			mutate:  func(m fiber.Map) { delete(m, "level") },
			message: "Missing required field: level",
		},
		{
			name:    "missing target",
			mutate:  func(m fiber.Map) { delete(m, "target") },
			message: "Missing required field: target",
		},
		{
			name:    "level out of range",
			mutate:  func(m fiber.Map) { m["level"] = 9 },
			message: "Invalid level. Level must be between 1 and 5.",
		},
		{
			name:    "order below one",
			mutate:  func(m fiber.Map) { m["order"] = 0 },
			message: "Order must be a positive number starting from 1.",
		},
		{
			name:    "order skips ahead",
			mutate:  func(m fiber.Map) { m["order"] = 5 },
			seeded:  []models.FluencyExercise{storedExercise(2, 1, true)},
			message: "Order skips numbers. Level 2 has 1 exercises. Next order should be 2, but you provided 5.",
		},
		{
			name:    "order slot taken",
			mutate:  func(m fiber.Map) {},
			seeded:  []models.FluencyExercise{storedExercise(2, 1, true)},
			message: "An active exercise with order 1 already exists in level 2. Please use a different order or deactivate the existing exercise first.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeExerciseStore{exercises: tc.seeded}
			app, _ := newExerciseApp(store)

			payload := base()
			tc.mutate(payload)
			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/fluency-exercises", payload), -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			body := decodeBody(t, resp)
			if body["message"] != tc.message {
				t.Errorf("message = %q, want %q", body["message"], tc.message)
			}
		})
	}
}

func TestCreateExerciseDerivesMetadata(t *testing.T) {
	store := &fakeExerciseStore{}
	app, _ := newExerciseApp(store)

	payload := fiber.Map{
		"level":             1,
		"type":              "controlled-breathing",
		"instruction":       "  Take a slow breath, then say this word  ",
		"target":            "Morning",
		"expected_duration": 3,
		"order":             1,
		"breathing":         true,
	}
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/fluency-exercises", payload), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["message"] != "Exercise created successfully" {
		t.Errorf("message = %v", body["message"])
	}
	created := body["exercise"].(map[string]interface{})
	if created["exercise_id"] != "breath-1" {
		t.Errorf("exercise_id = %v", created["exercise_id"])
	}
	if created["level_name"] != "Breathing & Single Words" || created["level_color"] != "#e8b04e" {
		t.Errorf("level metadata = %v/%v", created["level_name"], created["level_color"])
	}
	if created["instruction"] != "Take a slow breath, then say this word" {
		t.Errorf("instruction not trimmed: %q", created["instruction"])
	}
	if created["is_active"] != true || created["breathing"] != true {
		t.Errorf("flags = active %v breathing %v", created["is_active"], created["breathing"])
	}
}

func TestCreateExerciseUnknownTypeUsesGenericID(t *testing.T) {
	store := &fakeExerciseStore{}
	app, _ := newExerciseApp(store)

	payload := fiber.Map{
		"level":             4,
		"type":              "reading-passage",
		"instruction":       "Read this passage slowly",
		"target":            "The sun rises in the east.",
		"expected_duration": 15,
		"order":             1,
	}
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/fluency-exercises", payload), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body := decodeBody(t, resp)
	created := body["exercise"].(map[string]interface{})
	// Types without a dedicated prefix fall back to the generic one.
	if created["exercise_id"] != "exercise-1" {
		t.Errorf("exercise_id = %v", created["exercise_id"])
	}
}

func TestUpdateExercise(t *testing.T) {
	first := storedExercise(2, 1, true)
	second := storedExercise(2, 2, true)

	t.Run("invalid id", func(t *testing.T) {
		app, _ := newExerciseApp(&fakeExerciseStore{})
		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/fluency-exercises/not-a-uuid", fiber.Map{}), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["message"] != "Invalid exercise ID format" {
			t.Errorf("message = %v", body["message"])
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		app, _ := newExerciseApp(&fakeExerciseStore{})
		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/fluency-exercises/"+uuid.NewString(), fiber.Map{}), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["message"] != "Exercise not found" {
			t.Errorf("message = %v", body["message"])
		}
	})

	t.Run("order collision", func(t *testing.T) {
		store := &fakeExerciseStore{exercises: []models.FluencyExercise{first, second}}
		app, _ := newExerciseApp(store)
		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/fluency-exercises/"+second.ID.String(), fiber.Map{"order": 1}), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["message"] != "Another active exercise with order 1 already exists in level 2." {
			t.Errorf("message = %v", body["message"])
		}
	})

	t.Run("non-numeric level", func(t *testing.T) {
		store := &fakeExerciseStore{exercises: []models.FluencyExercise{first}}
		app, _ := newExerciseApp(store)
		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/fluency-exercises/"+first.ID.String(), fiber.Map{"level": "high"}), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if body := decodeBody(t, resp); body["message"] != "'level' field must be a number" {
			t.Errorf("message = %v", body["message"])
		}
	})

	t.Run("applies patch", func(t *testing.T) {
		store := &fakeExerciseStore{exercises: []models.FluencyExercise{first}}
		app, _ := newExerciseApp(store)
		payload := fiber.Map{
			"instruction": "  Speak at an easy pace  ",
			"id":          uuid.NewString(),
			"created_at":  "2020-01-01T00:00:00Z",
		}
		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/fluency-exercises/"+first.ID.String(), payload), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["message"] != "Exercise updated successfully" {
			t.Errorf("message = %v", body["message"])
		}

		patch := store.patches[first.ID.String()]
		if patch == nil {
			t.Fatal("no patch reached the store")
		}
		if patch["instruction"] != "Speak at an easy pace" {
			t.Errorf("instruction = %q, want trimmed value", patch["instruction"])
		}
		if _, ok := patch["id"]; ok {
			t.Error("patch kept the client-supplied id")
		}
		if _, ok := patch["created_at"]; ok {
			t.Error("patch kept the client-supplied created_at")
		}
		if _, ok := patch["updated_at"]; !ok {
			t.Error("patch is missing updated_at")
		}
	})
}

func TestDeleteExercise(t *testing.T) {
	exercise := storedExercise(3, 1, true)
	store := &fakeExerciseStore{exercises: []models.FluencyExercise{exercise}}
	app, _ := newExerciseApp(store)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/fluency-exercises/"+exercise.ID.String(), nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["message"] != "Exercise deleted successfully" {
		t.Errorf("message = %v", body["message"])
	}
	if len(store.exercises) != 0 {
		t.Errorf("store still has %d exercises", len(store.exercises))
	}

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/api/fluency-exercises/"+exercise.ID.String(), nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestToggleExerciseActive(t *testing.T) {
	exercise := storedExercise(1, 1, true)
	store := &fakeExerciseStore{exercises: []models.FluencyExercise{exercise}}
	app, _ := newExerciseApp(store)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/fluency-exercises/"+exercise.ID.String()+"/toggle-active", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body := decodeBody(t, resp)
	if body["message"] != "Exercise is now inactive" || body["is_active"] != false {
		t.Errorf("body = %v", body)
	}

	resp, err = app.Test(jsonRequest(t, http.MethodPatch, "/api/fluency-exercises/"+exercise.ID.String()+"/toggle-active", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body = decodeBody(t, resp)
	if body["message"] != "Exercise is now active" || body["is_active"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestValidateExercises(t *testing.T) {
	fullLevel := func(level int) []models.FluencyExercise {
		return []models.FluencyExercise{
			storedExercise(level, 1, true),
			storedExercise(level, 2, true),
		}
	}
	allLevels := func() []models.FluencyExercise {
		var out []models.FluencyExercise
		for level := 1; level <= 5; level++ {
			out = append(out, fullLevel(level)...)
		}
		return out
	}

	t.Run("healthy", func(t *testing.T) {
		app, _ := newExerciseApp(&fakeExerciseStore{exercises: allLevels()})
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/fluency-exercises/validate", nil), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body := decodeBody(t, resp)
		if body["status"] != "healthy" {
			t.Errorf("status = %v", body["status"])
		}
		if body["message"] != "Validation complete. Status: HEALTHY" {
			t.Errorf("message = %v", body["message"])
		}
		stats := body["stats"].(map[string]interface{})
		if stats["total_active"].(float64) != 10 {
			t.Errorf("total_active = %v", stats["total_active"])
		}
		if len(body["issues"].([]interface{})) != 0 || len(body["warnings"].([]interface{})) != 0 {
			t.Errorf("issues/warnings = %v/%v", body["issues"], body["warnings"])
		}
	})

	t.Run("empty level is an error", func(t *testing.T) {
		exercises := append(fullLevel(1), fullLevel(2)...)
		exercises = append(exercises, fullLevel(3)...)
		exercises = append(exercises, fullLevel(4)...)
		app, _ := newExerciseApp(&fakeExerciseStore{exercises: exercises})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/fluency-exercises/validate", nil), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body := decodeBody(t, resp)
		if body["status"] != "error" {
			t.Errorf("status = %v", body["status"])
		}
		levels := body["stats"].(map[string]interface{})["levels"].(map[string]interface{})
		levelFive := levels["5"].(map[string]interface{})
		if levelFive["status"] != "missing" || levelFive["count"].(float64) != 0 {
			t.Errorf("level 5 stats = %v", levelFive)
		}
		issues := body["issues"].([]interface{})
		if len(issues) != 1 {
			t.Fatalf("issues = %v", issues)
		}
		issue := issues[0].(map[string]interface{})
		if issue["message"] != "Level 5 has no active exercises. Patient app will fail." {
			t.Errorf("issue message = %v", issue["message"])
		}
	})

	t.Run("duplicate orders are an error", func(t *testing.T) {
		exercises := allLevels()
		dup := storedExercise(2, 1, true)
		exercises = append(exercises, dup, storedExercise(2, 3, true))
		app, _ := newExerciseApp(&fakeExerciseStore{exercises: exercises})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/fluency-exercises/validate", nil), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body := decodeBody(t, resp)
		if body["status"] != "error" {
			t.Errorf("status = %v", body["status"])
		}
		found := false
		for _, raw := range body["issues"].([]interface{}) {
			issue := raw.(map[string]interface{})
			if issue["message"] == "Level 2 has duplicate order numbers: [1]. This will cause confusion." {
				found = true
			}
		}
		if !found {
			t.Errorf("no duplicate-order issue in %v", body["issues"])
		}
	})

	t.Run("order gaps keep overall status", func(t *testing.T) {
		exercises := allLevels()
		// Level 3 gets an extra exercise at order 4, leaving a hole at 3.
		exercises = append(exercises, storedExercise(3, 4, true))
		app, _ := newExerciseApp(&fakeExerciseStore{exercises: exercises})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/fluency-exercises/validate", nil), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body := decodeBody(t, resp)
		issues := body["issues"].([]interface{})
		if len(issues) != 1 {
			t.Fatalf("issues = %v", issues)
		}
		issue := issues[0].(map[string]interface{})
		if issue["severity"] != "warning" {
			t.Errorf("severity = %v", issue["severity"])
		}
		if issue["message"] != "Level 3 has non-sequential orders. Expected [1 2 3], got [1 2 4]." {
			t.Errorf("issue message = %v", issue["message"])
		}
		// Sequence holes are reported as issue entries only; the overall
		// status moves on errors and on the thin-level warning list.
		if body["status"] != "healthy" {
			t.Errorf("status = %v", body["status"])
		}
	})

	t.Run("thin level is a warning", func(t *testing.T) {
		exercises := append(fullLevel(1), fullLevel(2)...)
		exercises = append(exercises, fullLevel(3)...)
		exercises = append(exercises, fullLevel(4)...)
		exercises = append(exercises, storedExercise(5, 1, true))
		app, _ := newExerciseApp(&fakeExerciseStore{exercises: exercises})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/fluency-exercises/validate", nil), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body := decodeBody(t, resp)
		if body["status"] != "warning" {
			t.Errorf("status = %v", body["status"])
		}
		warnings := body["warnings"].([]interface{})
		if len(warnings) != 1 {
			t.Fatalf("warnings = %v", warnings)
		}
		warning := warnings[0].(map[string]interface{})
		if warning["message"] != "Level 5 only has 1 exercise(s). Consider adding more for better practice." {
			t.Errorf("warning message = %v", warning["message"])
		}
	})

	t.Run("blank fields are an error", func(t *testing.T) {
		exercises := allLevels()
		broken := storedExercise(4, 3, true)
		broken.Target = ""
		broken.ExpectedDuration = 0
		exercises = append(exercises, broken)
		app, _ := newExerciseApp(&fakeExerciseStore{exercises: exercises})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/fluency-exercises/validate", nil), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body := decodeBody(t, resp)
		if body["status"] != "error" {
			t.Errorf("status = %v", body["status"])
		}
		found := false
		for _, raw := range body["issues"].([]interface{}) {
			issue := raw.(map[string]interface{})
			if issue["exercise_id"] == broken.ExerciseID {
				found = true
				if issue["message"] != "Exercise missing required fields: [target expected_duration]" {
					t.Errorf("issue message = %v", issue["message"])
				}
			}
		}
		if !found {
			t.Errorf("no missing-field issue in %v", body["issues"])
		}
	})
}

func TestExerciseHandlersWithoutDatabase(t *testing.T) {
	app, _ := newExerciseApp(nil)

	targets := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/fluency-exercises/seed"},
		{http.MethodGet, "/api/fluency-exercises"},
		{http.MethodPost, "/api/fluency-exercises"},
		{http.MethodGet, "/api/fluency-exercises/validate"},
	}
	for _, target := range targets {
		resp, err := app.Test(jsonRequest(t, target.method, target.path, fiber.Map{}), -1)
		if err != nil {
			t.Fatalf("app.Test %s %s: %v", target.method, target.path, err)
		}
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("%s %s status = %d, want 500", target.method, target.path, resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["message"] != "Database not available" {
			t.Errorf("%s %s message = %v", target.method, target.path, body["message"])
		}
	}
}
