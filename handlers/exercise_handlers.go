package handlers

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/models"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/utils"
)

var validate = validator.New()

func init() {
	// Report validation failures under the JSON field names the clients
	// actually send.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// CreateExerciseRequest is the therapist-supplied part of a new exercise.
// Level metadata and the exercise id are derived server-side. Pointers
// distinguish absent fields from zero values.
type CreateExerciseRequest struct {
	Level            *int    `json:"level" validate:"required"`
	Type             *string `json:"type" validate:"required"`
	Instruction      *string `json:"instruction" validate:"required"`
	Target           *string `json:"target" validate:"required"`
	ExpectedDuration *int    `json:"expected_duration" validate:"required"`
	Order            *int    `json:"order" validate:"required"`
	Breathing        *bool   `json:"breathing,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

// SeedExercises loads the default exercise set for all five levels. It
// refuses to run against a non-empty table.
// POST /api/fluency-exercises/seed
func (h *ApplicationHandler) SeedExercises(c *fiber.Ctx) error {
	if h.Exercises == nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Database not available")
	}

	existing, err := h.Exercises.CountExercises()
	if err != nil {
		h.Logger.Errorf("Error counting exercises before seed: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}
	if existing > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":        false,
			"message":        fmt.Sprintf("Database already has %d exercises. Clear them first if you want to reseed.", existing),
			"existing_count": existing,
		})
	}

	count, err := h.Exercises.InsertExercises(defaultExercises())
	if err != nil {
		h.Logger.Errorf("Error seeding exercises: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}

	h.Logger.Infof("Seeded %d fluency exercises", count)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Successfully seeded %d fluency exercises", count),
		"count":   count,
	})
}

// GetAllExercises godoc
// @Summary List fluency exercises
// @Description Returns every fluency exercise ordered by level and order, including inactive ones.
// @Tags exercises
// @Produce json
// @Success 200 {object} map[string]interface{} "Exercise list"
// @Failure 500 {object} map[string]interface{} "Database failure"
// @Router /api/fluency-exercises [get]
func (h *ApplicationHandler) GetAllExercises(c *fiber.Ctx) error {
	if h.Exercises == nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Database not available")
	}

	exercises, err := h.Exercises.ListExercises()
	if err != nil {
		h.Logger.Errorf("Error listing exercises: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}
	if exercises == nil {
		exercises = []models.FluencyExercise{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"exercises": exercises,
		"count":     len(exercises),
	})
}

// CreateExercise godoc
// @Summary Create a fluency exercise
// @Description Creates an exercise after checking that its order slot is free and sequential within the level.
// @Tags exercises
// @Accept json
// @Produce json
// @Param exercise body CreateExerciseRequest true "Exercise to create"
// @Success 201 {object} map[string]interface{} "Exercise created successfully"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Failure 500 {object} map[string]interface{} "Database failure"
// @Router /api/fluency-exercises [post]
func (h *ApplicationHandler) CreateExercise(c *fiber.Ctx) error {
	if h.Exercises == nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Database not available")
	}

	var req CreateExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}

	if err := validate.Struct(req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Missing required field: %s", fieldErrs[0].Field()))
		}
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), ", "))
	}

	level := *req.Level
	order := *req.Order

	if level < 1 || level > 5 {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid level. Level must be between 1 and 5.")
	}
	if order < 1 {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Order must be a positive number starting from 1.")
	}

	existingInLevel, err := h.Exercises.CountActiveInLevel(level)
	if err != nil {
		h.Logger.Errorf("Error counting active exercises in level %d: %v", level, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}
	if int64(order) > existingInLevel+1 {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf(
			"Order skips numbers. Level %d has %d exercises. Next order should be %d, but you provided %d.",
			level, existingInLevel, existingInLevel+1, order))
	}

	duplicate, err := h.Exercises.FindActiveByLevelOrder(level, order, "")
	if err != nil {
		h.Logger.Errorf("Error checking order slot %d in level %d: %v", order, level, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}
	if duplicate != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf(
			"An active exercise with order %d already exists in level %d. Please use a different order or deactivate the existing exercise first.",
			order, level))
	}

	meta := models.LevelMetaFor(level)
	now := time.Now()
	exercise := models.FluencyExercise{
		ID:               uuid.New(),
		ExerciseID:       models.BuildExerciseID(*req.Type, order),
		Level:            level,
		LevelName:        meta.Name,
		LevelColor:       meta.Color,
		Order:            order,
		Type:             *req.Type,
		Instruction:      utils.SanitizeInput(*req.Instruction),
		Target:           utils.SanitizeInput(*req.Target),
		ExpectedDuration: *req.ExpectedDuration,
		Breathing:        req.Breathing != nil && *req.Breathing,
		IsActive:         req.IsActive == nil || *req.IsActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := h.Exercises.InsertExercise(exercise)
	if err != nil {
		h.Logger.Errorf("Error creating exercise %s: %v", exercise.ExerciseID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}

	h.Logger.Infof("Created fluency exercise %s in level %d", created.ExerciseID, created.Level)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Exercise created successfully",
		"exercise": created,
	})
}

// UpdateExercise applies a partial update after revalidating level and order.
// PUT /api/fluency-exercises/:id
func (h *ApplicationHandler) UpdateExercise(c *fiber.Ctx) error {
	if h.Exercises == nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Database not available")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid exercise ID format")
	}

	existing, err := h.Exercises.GetExercise(id)
	if err != nil {
		h.Logger.Errorf("Error fetching exercise %s: %v", id, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}
	if existing == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Exercise not found")
	}

	var patch map[string]interface{}
	if err := c.BodyParser(&patch); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}

	_, hasLevel := patch["level"]
	_, hasOrder := patch["order"]
	if hasLevel || hasOrder {
		newLevel := existing.Level
		if hasLevel {
			value, ok := patchInt(patch["level"])
			if !ok {
				return utils.RespondWithError(c, fiber.StatusBadRequest, "'level' field must be a number")
			}
			newLevel = value
			patch["level"] = value
		}
		newOrder := existing.Order
		if hasOrder {
			value, ok := patchInt(patch["order"])
			if !ok {
				return utils.RespondWithError(c, fiber.StatusBadRequest, "'order' field must be a number")
			}
			newOrder = value
			patch["order"] = value
		}

		if newLevel < 1 || newLevel > 5 {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid level. Level must be between 1 and 5.")
		}

		duplicate, err := h.Exercises.FindActiveByLevelOrder(newLevel, newOrder, id.String())
		if err != nil {
			h.Logger.Errorf("Error checking order slot %d in level %d: %v", newOrder, newLevel, err)
			return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
		}
		if duplicate != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf(
				"Another active exercise with order %d already exists in level %d.", newOrder, newLevel))
		}
	}

	// Primary key and creation time are never client-writable.
	delete(patch, "id")
	delete(patch, "created_at")
	if value, ok := patch["instruction"].(string); ok {
		patch["instruction"] = utils.SanitizeInput(value)
	}
	if value, ok := patch["target"].(string); ok {
		patch["target"] = utils.SanitizeInput(value)
	}
	patch["updated_at"] = time.Now()

	if err := h.Exercises.UpdateExercise(id, patch); err != nil {
		h.Logger.Errorf("Error updating exercise %s: %v", id, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Exercise updated successfully",
	})
}

// DeleteExercise removes an exercise permanently.
// DELETE /api/fluency-exercises/:id
func (h *ApplicationHandler) DeleteExercise(c *fiber.Ctx) error {
	if h.Exercises == nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Database not available")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid exercise ID format")
	}

	deleted, err := h.Exercises.DeleteExercise(id)
	if err != nil {
		h.Logger.Errorf("Error deleting exercise %s: %v", id, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !deleted {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Exercise not found")
	}

	h.Logger.Infof("Deleted fluency exercise %s", id)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Exercise deleted successfully",
	})
}

// ToggleExerciseActive flips the is_active flag of one exercise.
// PATCH /api/fluency-exercises/:id/toggle-active
func (h *ApplicationHandler) ToggleExerciseActive(c *fiber.Ctx) error {
	if h.Exercises == nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Database not available")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid exercise ID format")
	}

	exercise, err := h.Exercises.GetExercise(id)
	if err != nil {
		h.Logger.Errorf("Error fetching exercise %s: %v", id, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}
	if exercise == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Exercise not found")
	}

	newStatus := !exercise.IsActive
	patch := map[string]interface{}{
		"is_active":  newStatus,
		"updated_at": time.Now(),
	}
	if err := h.Exercises.UpdateExercise(id, patch); err != nil {
		h.Logger.Errorf("Error toggling exercise %s: %v", id, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}

	statusWord := "inactive"
	if newStatus {
		statusWord = "active"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"message":   fmt.Sprintf("Exercise is now %s", statusWord),
		"is_active": newStatus,
	})
}

// ValidateExercises audits the active exercise set: every level populated,
// orders unique and sequential, required fields present.
// GET /api/fluency-exercises/validate
func (h *ApplicationHandler) ValidateExercises(c *fiber.Ctx) error {
	if h.Exercises == nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Database not available")
	}

	exercises, err := h.Exercises.ListActiveExercises()
	if err != nil {
		h.Logger.Errorf("Error listing active exercises: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}

	issues := []fiber.Map{}
	warnings := []fiber.Map{}
	levelStats := fiber.Map{}

	byLevel := make(map[int][]models.FluencyExercise)
	for _, ex := range exercises {
		byLevel[ex.Level] = append(byLevel[ex.Level], ex)
	}

	for level := 1; level <= 5; level++ {
		levelExercises, ok := byLevel[level]
		if !ok {
			issues = append(issues, fiber.Map{
				"severity": "error",
				"level":    level,
				"message":  fmt.Sprintf("Level %d has no active exercises. Patient app will fail.", level),
			})
			levelStats[strconv.Itoa(level)] = fiber.Map{"count": 0, "status": "missing"}
			continue
		}

		status := "ok"

		orders := make([]int, 0, len(levelExercises))
		seen := make(map[int]int)
		for _, ex := range levelExercises {
			orders = append(orders, ex.Order)
			seen[ex.Order]++
		}

		duplicates := []int{}
		for order, n := range seen {
			if n > 1 {
				duplicates = append(duplicates, order)
			}
		}
		sort.Ints(duplicates)
		if len(duplicates) > 0 {
			issues = append(issues, fiber.Map{
				"severity": "error",
				"level":    level,
				"message":  fmt.Sprintf("Level %d has duplicate order numbers: %v. This will cause confusion.", level, duplicates),
				"orders":   duplicates,
			})
			status = "error"
		}

		sortedOrders := append([]int(nil), orders...)
		sort.Ints(sortedOrders)
		expectedOrders := make([]int, len(levelExercises))
		for i := range expectedOrders {
			expectedOrders[i] = i + 1
		}
		if !equalIntSlices(sortedOrders, expectedOrders) {
			issues = append(issues, fiber.Map{
				"severity": "warning",
				"level":    level,
				"message":  fmt.Sprintf("Level %d has non-sequential orders. Expected %v, got %v.", level, expectedOrders, sortedOrders),
				"expected": expectedOrders,
				"actual":   sortedOrders,
			})
			if status == "ok" {
				status = "warning"
			}
		}

		for _, ex := range levelExercises {
			missing := missingExerciseFields(ex)
			if len(missing) > 0 {
				issues = append(issues, fiber.Map{
					"severity":    "error",
					"level":       level,
					"exercise_id": ex.ExerciseID,
					"message":     fmt.Sprintf("Exercise missing required fields: %v", missing),
					"fields":      missing,
				})
				status = "error"
			}
		}

		if len(levelExercises) < 2 {
			warnings = append(warnings, fiber.Map{
				"severity": "warning",
				"level":    level,
				"message":  fmt.Sprintf("Level %d only has %d exercise(s). Consider adding more for better practice.", level, len(levelExercises)),
				"count":    len(levelExercises),
			})
		}

		levelStats[strconv.Itoa(level)] = fiber.Map{"count": len(levelExercises), "status": status}
	}

	overall := "healthy"
	for _, issue := range issues {
		if issue["severity"] == "error" {
			overall = "error"
			break
		}
	}
	if overall == "healthy" && len(warnings) > 0 {
		overall = "warning"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"status":  overall,
		"stats": fiber.Map{
			"total_active": len(exercises),
			"levels":       levelStats,
		},
		"issues":   issues,
		"warnings": warnings,
		"message":  fmt.Sprintf("Validation complete. Status: %s", strings.ToUpper(overall)),
	})
}

// patchInt coerces a decoded JSON value into an int the way the admin UI
// sends numbers: as JSON numbers or numeric strings.
func patchInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func equalIntSlices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// missingExerciseFields reports which display-critical fields are empty.
func missingExerciseFields(ex models.FluencyExercise) []string {
	missing := []string{}
	if ex.ExerciseID == "" {
		missing = append(missing, "exercise_id")
	}
	if ex.Type == "" {
		missing = append(missing, "type")
	}
	if ex.Instruction == "" {
		missing = append(missing, "instruction")
	}
	if ex.Target == "" {
		missing = append(missing, "target")
	}
	if ex.ExpectedDuration == 0 {
		missing = append(missing, "expected_duration")
	}
	if ex.LevelName == "" {
		missing = append(missing, "level_name")
	}
	if ex.LevelColor == "" {
		missing = append(missing, "level_color")
	}
	return missing
}

// defaultExercises is the starter set covering all five fluency levels.
func defaultExercises() []models.FluencyExercise {
	now := time.Now()
	build := func(level, order int, exerciseID, exerciseType, instruction, target string, expectedDuration int, breathing bool) models.FluencyExercise {
		meta := models.LevelMetaFor(level)
		return models.FluencyExercise{
			ID:               uuid.New(),
			ExerciseID:       exerciseID,
			Level:            level,
			LevelName:        meta.Name,
			LevelColor:       meta.Color,
			Order:            order,
			Type:             exerciseType,
			Instruction:      instruction,
			Target:           target,
			ExpectedDuration: expectedDuration,
			Breathing:        breathing,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
	}

	return []models.FluencyExercise{
		// Level 1: Breathing & Single Words
		build(1, 1, "breath-1", "controlled-breathing", "Take a deep breath, hold for 2 seconds, then say this word slowly", "Hello", 3, true),
		build(1, 2, "breath-2", "controlled-breathing", "Breathe in deeply, pause, then say this word", "Thank you", 3, true),
		build(1, 3, "breath-3", "controlled-breathing", "Take a slow breath, then say this word smoothly", "Water", 3, true),
		// Level 2: Short Phrases
		build(2, 1, "phrase-1", "short-phrase", "Read this short phrase slowly and smoothly", "Good morning", 4, false),
		build(2, 2, "phrase-2", "short-phrase", "Say this phrase at a comfortable pace", "How are you", 4, false),
		build(2, 3, "phrase-3", "short-phrase", "Speak this phrase clearly and slowly", "Nice to meet you", 5, false),
		// Level 3: Complete Sentences
		build(3, 1, "sentence-1", "complete-sentence", "Read this sentence at a slow, steady pace", "The cat is sleeping on the couch.", 6, false),
		build(3, 2, "sentence-2", "complete-sentence", "Say this sentence smoothly without rushing", "I like to play basketball with my friends.", 7, false),
		// Level 4: Reading Passages
		build(4, 1, "passage-1", "reading-passage", "Read this short passage slowly and clearly", "The sun rises in the east. It brings light and warmth to the world. Birds sing in the morning.", 15, false),
		build(4, 2, "passage-2", "reading-passage", "Read at your own pace, focusing on smooth speech", "A small dog ran across the park. The children laughed and played. It was a beautiful day.", 15, false),
		// Level 5: Spontaneous Speech
		build(5, 1, "spontaneous-1", "spontaneous-speech", "Talk about your favorite food for 30 seconds", "Describe your favorite food and why you like it", 30, false),
		build(5, 2, "spontaneous-2", "spontaneous-speech", "Tell a story about your day", "Describe what you did today", 30, false),
	}
}
