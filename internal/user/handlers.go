package user

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/profile/:username", authMiddleware, func(c *fiber.Ctx) error {
		profile, err := svc.Profile(c.Context(), c.Params("username"))
		if err != nil {
			return err
		}
		return c.JSON(profile)
	})

	r.Post("/follow/:id", authMiddleware, func(c *fiber.Ctx) error {
		actingID, _ := c.Locals("user_id").(string)
		followed, err := svc.FollowToggle(c.Context(), actingID, c.Params("id"))
		if err != nil {
			return err
		}
		if followed {
			return c.JSON(fiber.Map{"message": "User followed successfully"})
		}
		return c.JSON(fiber.Map{"message": "User unfollowed successfully."})
	})

	r.Get("/suggested", authMiddleware, func(c *fiber.Ctx) error {
		actingID, _ := c.Locals("user_id").(string)
		suggested, err := svc.Suggested(c.Context(), actingID)
		if err != nil {
			return err
		}
		return c.JSON(suggested)
	})

	r.Post("/update", authMiddleware, func(c *fiber.Ctx) error {
		var req UpdateProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		actingID, _ := c.Locals("user_id").(string)
		updated, err := svc.UpdateProfile(c.Context(), actingID, req)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	})
}
