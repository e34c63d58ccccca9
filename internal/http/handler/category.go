package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pdfshelf/internal/service"
)

type createCategoryRequest struct {
	Name string `json:"name"`
}

// ListCategories returns every category.
func ListCategories(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(cats)
	}
}

// CreateCategory creates a category from a JSON body, rejecting duplicate
// names.
func CreateCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createCategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid category data")
		}

		cat, err := svc.Create(c.UserContext(), req.Name)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrCategoryExists):
				return writeError(c, fiber.StatusBadRequest, "CATEGORY_EXISTS", "category already exists")
			case errors.Is(err, service.ErrNameRequired):
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "category name is required")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(cat)
	}
}
