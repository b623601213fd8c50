package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/hritikarora28/AppstoreBackend/internal/database"
	"github.com/hritikarora28/AppstoreBackend/internal/models"
	"github.com/hritikarora28/AppstoreBackend/internal/server/middleware"
	"github.com/hritikarora28/AppstoreBackend/internal/services"
)

const tokenTTL = 30 * 24 * time.Hour

func Register(c *fiber.Ctx) error {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username, email and password required")
	}
	user := models.User{Username: in.Username, Email: in.Email, Role: models.RoleUser}
	if err := user.SetPassword(in.Password); err != nil {
		return fiber.ErrInternalServerError
	}
	// uniqueness is enforced by the index, so two racing registrations
	// cannot both pass a pre-check
	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusBadRequest, "username or email already taken")
		}
		return fiber.ErrInternalServerError
	}
	token, err := services.GenerateUserToken(user.ID, user.Role, user.Username, tokenTTL)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token, "user": user})
}

func Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	var user models.User
	if err := database.DB.Where("email = ?", in.Email).First(&user).Error; err != nil {
		return fiber.ErrUnauthorized
	}
	if !user.CheckPassword(in.Password) {
		return fiber.ErrUnauthorized
	}
	token, err := services.GenerateUserToken(user.ID, user.Role, user.Username, tokenTTL)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"token": token})
}

func Profile(c *fiber.Ctx) error {
	ident, ok := middleware.Caller(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var user models.User
	if err := database.DB.First(&user, ident.UserID).Error; err != nil {
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"user": user})
}
