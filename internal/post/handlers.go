package post

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/allPosts", authMiddleware, func(c *fiber.Ctx) error {
		posts, err := svc.All(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Get("/likes/:id", authMiddleware, func(c *fiber.Ctx) error {
		posts, err := svc.Liked(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Get("/following", authMiddleware, func(c *fiber.Ctx) error {
		actingID, _ := c.Locals("user_id").(string)
		posts, err := svc.Following(c.Context(), actingID)
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Get("/user/:username", authMiddleware, func(c *fiber.Ctx) error {
		posts, err := svc.ByUsername(c.Context(), c.Params("username"))
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Post("/create", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		actingID, _ := c.Locals("user_id").(string)
		created, err := svc.Create(c.Context(), actingID, req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Post("/like/:id", authMiddleware, func(c *fiber.Ctx) error {
		actingID, _ := c.Locals("user_id").(string)
		liked, err := svc.LikeToggle(c.Context(), actingID, c.Params("id"))
		if err != nil {
			return err
		}
		if liked {
			return c.JSON(fiber.Map{"message": "Post liked successfully"})
		}
		return c.JSON(fiber.Map{"message": "You unliked this post"})
	})

	r.Post("/comment/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req CommentRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		actingID, _ := c.Locals("user_id").(string)
		updated, err := svc.Comment(c.Context(), actingID, c.Params("id"), req.Text)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		actingID, _ := c.Locals("user_id").(string)
		if err := svc.Delete(c.Context(), actingID, c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Post deleted successfully"})
	})
}
