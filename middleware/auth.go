package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenRequired validates the HS256 token issued by the accounts backend.
// The token arrives in the Authorization header, with or without a "Bearer "
// prefix. On success the caller's id and role land in c.Locals("user_id")
// and c.Locals("role").
func TokenRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Get("Authorization")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is missing!"})
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token is invalid!",
				"error":   err.Error(),
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is invalid!"})
		}

		// The accounts backend puts the user id in "id"; older tokens used
		// "user_id".
		userID, _ := claims["id"].(string)
		if userID == "" {
			userID, _ = claims["user_id"].(string)
		}
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token format!"})
		}

		role, _ := claims["role"].(string)
		c.Locals("user_id", userID)
		c.Locals("role", role)

		return c.Next()
	}
}

// TherapistRequired lets only therapist and admin roles through. It must run
// after TokenRequired.
func TherapistRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != "therapist" && role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized. Therapist access required."})
		}
		return c.Next()
	}
}
