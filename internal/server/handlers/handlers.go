package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/hritikarora28/AppstoreBackend/internal/catalog"
	"github.com/hritikarora28/AppstoreBackend/internal/database"
)

func store() *catalog.Store {
	return catalog.NewStore(database.DB)
}

// respondErr maps store errors to the response contract: 404 for missing
// records, 403 for authorization failures, 400 for bad input, 500 otherwise.
// Unexpected failures are logged with their cause, never sent to the caller.
func respondErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "App not found")
	case errors.Is(err, catalog.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Not authorized")
	case catalog.IsValidation(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return fiber.NewError(fiber.StatusInternalServerError, "Server error")
}
