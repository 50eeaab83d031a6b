package notification

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		notifications, err := svc.List(c.Context(), userID)
		if err != nil {
			return err
		}
		return c.JSON(notifications)
	})

	r.Delete("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.DeleteAll(c.Context(), userID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Notifications deleted successfully"})
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.DeleteOne(c.Context(), userID, c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Notification deleted successfully"})
	})
}
