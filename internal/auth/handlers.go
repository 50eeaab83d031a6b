package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/signup", func(c *fiber.Ctx) error {
		var req SignUpRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		created, token, err := svc.SignUp(c.Context(), req)
		if err != nil {
			return err
		}
		setSessionCookie(c, token)
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		logged, token, err := svc.Login(c.Context(), req)
		if err != nil {
			return err
		}
		setSessionCookie(c, token)
		return c.JSON(logged)
	})

	r.Post("/logout", func(c *fiber.Ctx) error {
		clearSessionCookie(c)
		return c.JSON(fiber.Map{"message": "Logged out successfully"})
	})

	r.Get("/me", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		me, err := svc.Me(c.Context(), userID)
		if err != nil {
			return err
		}
		return c.JSON(me)
	})
}

func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    token,
		Expires:  time.Now().Add(sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
