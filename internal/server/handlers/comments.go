package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hritikarora28/AppstoreBackend/internal/server/middleware"
)

func CommentCreate(c *fiber.Ctx) error {
	ident, ok := middleware.Caller(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var in struct {
		AppID   string `json:"appId"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	comment, err := store().AddComment(ident, in.AppID, in.Comment)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Comment added", "comment": comment})
}

func CommentsByApp(c *fiber.Ctx) error {
	comments, err := store().ListComments(c.Params("appId"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(comments)
}
