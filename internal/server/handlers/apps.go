package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/hritikarora28/AppstoreBackend/internal/catalog"
	"github.com/hritikarora28/AppstoreBackend/internal/server/middleware"
)

func AppCreate(c *fiber.Ctx) error {
	ident, ok := middleware.Caller(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	var in catalog.NewApp
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	app, err := store().Create(ident, in)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "App added", "app": app})
}

func AppList(c *fiber.Ctx) error {
	ident, ok := middleware.Caller(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	f := catalog.Filter{
		Name:       c.Query("name"),
		Genre:      c.Query("genre"),
		Visibility: c.Query("visibility"),
	}
	if r := c.Query("rating"); r != "" {
		min, max, err := catalog.ParseRatingRange(r)
		if err != nil {
			return respondErr(c, err)
		}
		f.RatingMin, f.RatingMax = min, max
	}
	apps, err := store().List(ident, f)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(apps)
}

func AppGet(c *fiber.Ctx) error {
	ident, ok := middleware.Caller(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	app, err := store().GetByID(ident, c.Params("appId"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"app": app})
}

func AppUpdate(c *fiber.Ctx) error {
	ident, ok := middleware.Caller(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	// Strict decode: any field outside the allow-list (owner, id, counters,
	// typos) rejects the whole payload.
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	var in catalog.UpdateFields
	if err := dec.Decode(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid update payload: "+err.Error())
	}
	app, err := store().Update(ident, c.Params("appId"), in)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "App updated", "app": app})
}

func AppDelete(c *fiber.Ctx) error {
	ident, ok := middleware.Caller(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	if err := store().Delete(ident, c.Params("appId")); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "App deleted"})
}

func AppDownload(c *fiber.Ctx) error {
	ident, ok := middleware.Caller(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	app, err := store().Download(ident, c.Params("appId"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Download successful", "app": app})
}

func AppDownloadCount(c *fiber.Ctx) error {
	count, err := store().DownloadCount(c.Params("appId"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"downloadCount": count})
}
