package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/models"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/utils"
)

// historyLimit caps how many past assessments one request returns.
const historyLimit = 20

// GetAssessmentHistory returns the caller's most recent fluency assessments,
// newest first.
// GET /api/fluency/assessments
func (h *ApplicationHandler) GetAssessmentHistory(c *fiber.Ctx) error {
	if h.Assessments == nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Database not available")
	}

	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is missing!"})
	}

	assessments, err := h.Assessments.ListAssessmentsByUser(userID, historyLimit)
	if err != nil {
		h.Logger.Errorf("Error fetching assessment history for user %s: %v", userID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}
	if assessments == nil {
		assessments = []models.FluencyAssessment{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":     true,
		"assessments": assessments,
		"count":       len(assessments),
	})
}
