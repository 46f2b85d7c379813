package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/code", func(c *fiber.Ctx) error {
		var req CodeRequest
		if err := c.BodyParser(&req); err != nil || req.PhoneNumber == "" {
			return fiber.NewError(fiber.StatusBadRequest, "phone_number required")
		}
		if err := svc.RequestCode(c.Context(), req.PhoneNumber); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/verify", func(c *fiber.Ctx) error {
		var req VerifyRequest
		if err := c.BodyParser(&req); err != nil || req.PhoneNumber == "" || req.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "phone_number and code required")
		}
		user, tokens, err := svc.VerifyCode(c.Context(), req.PhoneNumber, req.Code)
		if errors.Is(err, ErrInvalidCode) {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"user": user, "tokens": tokens})
	})

	r.Get("/jwt/verify", func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		userID, err := svc.ValidateAccessToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return c.JSON(fiber.Map{"user_id": userID})
	})
}
