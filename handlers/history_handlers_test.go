package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/models"
)

func newHistoryApp(store AssessmentStore, userID string) *fiber.App {
	h := NewApplicationHandler(nil, nil, store, nil, testLogger())
	app := fiber.New()
	app.Get("/api/fluency/assessments", func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}, h.GetAssessmentHistory)
	return app
}

func TestGetAssessmentHistoryReturnsOwnRows(t *testing.T) {
	store := &recordingAssessmentStore{records: []models.FluencyAssessment{
		{ID: uuid.New(), UserID: "patient-7", Transcription: "hello there", FluencyScore: 88, CreatedAt: time.Now()},
		{ID: uuid.New(), UserID: "patient-9", Transcription: "someone else", FluencyScore: 40, CreatedAt: time.Now()},
	}}
	app := newHistoryApp(store, "patient-7")

	req := httptest.NewRequest(http.MethodGet, "/api/fluency/assessments", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["success"] != true || body["count"].(float64) != 1 {
		t.Errorf("success/count = %v/%v", body["success"], body["count"])
	}
	rows := body["assessments"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("assessments = %v", rows)
	}
	row := rows[0].(map[string]interface{})
	if row["transcription"] != "hello there" {
		t.Errorf("transcription = %v", row["transcription"])
	}
}

func TestGetAssessmentHistoryEmptyIsAnArray(t *testing.T) {
	app := newHistoryApp(&recordingAssessmentStore{}, "patient-7")

	req := httptest.NewRequest(http.MethodGet, "/api/fluency/assessments", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	body := decodeBody(t, resp)
	rows, ok := body["assessments"].([]interface{})
	if !ok {
		t.Fatalf("assessments = %T, want empty JSON array", body["assessments"])
	}
	if len(rows) != 0 {
		t.Errorf("assessments = %v", rows)
	}
}

func TestGetAssessmentHistoryRequiresUser(t *testing.T) {
	app := newHistoryApp(&recordingAssessmentStore{}, "")

	req := httptest.NewRequest(http.MethodGet, "/api/fluency/assessments", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["message"] != "Token is missing!" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestGetAssessmentHistoryWithoutDatabase(t *testing.T) {
	app := newHistoryApp(nil, "patient-7")

	req := httptest.NewRequest(http.MethodGet, "/api/fluency/assessments", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["message"] != "Database not available" {
		t.Errorf("message = %v", body["message"])
	}
}
