package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/assessment"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/fluency"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/jobs"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/speech"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/metrics"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/models"
)

// Response payload caps keep the mobile app's render path small.
const (
	maxPausesInResponse = 5
	maxWordsInResponse  = 20
)

const (
	msgNoAudioFile      = "No audio file provided"
	msgNoSpeechDetected = "No speech detected. Please speak clearly and try again."
	msgRecognitionFail  = "Speech recognition failed. Please try again."
	msgProcessingFail   = "Failed to process audio"
)

// AssessmentResponse is the success payload returned to the mobile app.
type AssessmentResponse struct {
	Success       bool                `json:"success"`
	Transcription string              `json:"transcription"`
	SpeakingRate  int                 `json:"speaking_rate"`
	FluencyScore  int                 `json:"fluency_score"`
	PauseCount    int                 `json:"pause_count"`
	Disfluencies  int                 `json:"disfluencies"`
	Duration      float64             `json:"duration"`
	WordCount     int                 `json:"word_count"`
	Feedback      string              `json:"feedback"`
	Pauses        []fluency.Pause     `json:"pauses"`
	Words         []speech.WordTiming `json:"words"`
}

// AssessFluency godoc
// @Summary Assess a recorded fluency exercise
// @Description Accepts an audio recording, transcribes it and returns speaking rate, pauses, disfluencies and a fluency score with feedback.
// @Tags fluency
// @Accept mpfd
// @Produce json
// @Param audio formData file true "Audio recording of the patient"
// @Param target_text formData string false "Text the patient was asked to read"
// @Param expected_duration formData number false "Expected duration of the exercise in seconds"
// @Param exercise_id formData string false "Public exercise identifier, e.g. breath-1"
// @Success 200 {object} AssessmentResponse "Assessment result"
// @Failure 400 {object} map[string]interface{} "No audio file in the request"
// @Failure 500 {object} map[string]interface{} "Transcode or speech engine failure"
// @Router /api/fluency/assess [post]
func (h *ApplicationHandler) AssessFluency(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   msgNoAudioFile,
		})
	}

	uploadPath := filepath.Join(os.TempDir(), fmt.Sprintf("fluency_%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename)))
	if err := c.SaveFile(fileHeader, uploadPath); err != nil {
		h.Logger.Errorf("Error saving uploaded audio: %v", err)
		metrics.AssessmentsTotal.WithLabelValues("error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": msgProcessingFail,
			"error":   err.Error(),
		})
	}
	defer func() {
		if err := os.Remove(uploadPath); err != nil && !os.IsNotExist(err) {
			h.Logger.Warnf("Failed to remove uploaded audio %s: %v", uploadPath, err)
		}
	}()

	in := assessment.Input{
		AudioPath:  uploadPath,
		Language:   c.FormValue("language"),
		TargetText: c.FormValue("target_text"),
	}
	if raw := c.FormValue("expected_duration"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			in.ExpectedDurationSeconds = parsed
		} else {
			h.Logger.Warnf("Ignoring unparseable expected_duration %q", raw)
		}
	}

	h.Logger.Infof("Assessing fluency recording %s (%d bytes)", fileHeader.Filename, fileHeader.Size)

	outcome, err := h.Assessor.Assess(c.Context(), in)
	if err != nil {
		h.Logger.Errorf("Fluency assessment failed: %v", err)
		metrics.AssessmentsTotal.WithLabelValues("error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": msgProcessingFail,
			"error":   err.Error(),
		})
	}

	switch outcome.Kind {
	case assessment.KindNoSpeech:
		metrics.AssessmentsTotal.WithLabelValues("no_speech").Inc()
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"error":   msgNoSpeechDetected,
		})
	case assessment.KindUnrecognized:
		metrics.AssessmentsTotal.WithLabelValues("unrecognized").Inc()
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"error":   msgRecognitionFail,
		})
	}

	metrics.AssessmentsTotal.WithLabelValues("scored").Inc()
	h.recordAssessment(c, outcome)

	response := AssessmentResponse{
		Success:       true,
		Transcription: outcome.Transcript,
		SpeakingRate:  outcome.Metrics.SpeakingRateWPM,
		FluencyScore:  outcome.Score,
		PauseCount:    len(outcome.Metrics.Pauses),
		Disfluencies:  outcome.Metrics.DisfluencyCount,
		Duration:      outcome.Metrics.TotalDurationSeconds,
		WordCount:     outcome.Metrics.WordCount,
		Feedback:      outcome.Feedback,
		Pauses:        truncatePauses(outcome.Metrics.Pauses),
		Words:         truncateWords(outcome.Words),
	}
	return c.Status(fiber.StatusOK).JSON(response)
}

// recordAssessment queues the scored result for history. Persistence is best
// effort; a missing store, full queue or anonymous call never affects the
// response.
func (h *ApplicationHandler) recordAssessment(c *fiber.Ctx, outcome *assessment.Outcome) {
	if h.Assessments == nil || h.Jobs == nil {
		return
	}
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return
	}

	record := models.FluencyAssessment{
		ID:            uuid.New(),
		UserID:        userID,
		Transcription: outcome.Transcript,
		SpeakingRate:  outcome.Metrics.SpeakingRateWPM,
		FluencyScore:  outcome.Score,
		PauseCount:    len(outcome.Metrics.Pauses),
		Disfluencies:  outcome.Metrics.DisfluencyCount,
		Duration:      outcome.Metrics.TotalDurationSeconds,
		WordCount:     outcome.Metrics.WordCount,
		Feedback:      outcome.Feedback,
		CreatedAt:     time.Now(),
	}
	if exerciseID := c.FormValue("exercise_id"); exerciseID != "" {
		record.ExerciseID = &exerciseID
	}
	if targetText := c.FormValue("target_text"); targetText != "" {
		record.TargetText = &targetText
	}
	// History rows keep the full arrays; only the response is truncated.
	if data, err := json.Marshal(outcome.Metrics.Pauses); err == nil {
		record.Pauses = data
	}
	if data, err := json.Marshal(outcome.Words); err == nil {
		record.Words = data
	}

	job := jobs.NewRecordAssessmentJob(uuid.NewString(), record, h.Assessments)
	if !h.Jobs.SubmitJob(job) {
		h.Logger.Warnf("Assessment history for user %s dropped, job queue full", userID)
	}
}

// truncatePauses caps the pause list and guarantees a JSON array, never
// null.
func truncatePauses(pauses []fluency.Pause) []fluency.Pause {
	if pauses == nil {
		return []fluency.Pause{}
	}
	if len(pauses) > maxPausesInResponse {
		return pauses[:maxPausesInResponse]
	}
	return pauses
}

func truncateWords(words []speech.WordTiming) []speech.WordTiming {
	if words == nil {
		return []speech.WordTiming{}
	}
	if len(words) > maxWordsInResponse {
		return words[:maxWordsInResponse]
	}
	return words
}
