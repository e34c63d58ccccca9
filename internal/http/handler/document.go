package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pdfshelf/internal/service"
)

type updateDocumentRequest struct {
	Title      *string `json:"title"`
	CategoryID *int64  `json:"categoryId"`
	Thumbnail  *string `json:"thumbnail"`
	Favorite   *bool   `json:"favorite"`
}

// ListDocuments returns one projection of the document collection,
// selected by query parameters. The branches are checked in the same order
// as the original UI expects: category, search, favorites, recent, all.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p service.ListParams

		if raw := c.Query("category"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_CATEGORY", "invalid category id")
			}
			p.CategoryID = &id
		}
		p.Search = c.Query("search")
		p.Favorite = c.Query("favorite") == "true"
		p.Recent = c.Query("recent") == "true"
		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
			}
			p.Limit = limit
		}

		docs, err := svc.List(c.UserContext(), p)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(docs)
	}
}

// GetDocument returns a document by id and records the access.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Open(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(doc)
	}
}

// UploadDocument accepts a multipart PDF (field name: file) plus optional
// title and categoryId form fields.
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		p := service.UploadParams{
			Reader:           f,
			OriginalFilename: fh.Filename,
			ContentType:      fh.Header.Get("Content-Type"),
			Size:             fh.Size,
			Title:            c.FormValue("title"),
		}
		if raw := c.FormValue("categoryId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_CATEGORY", "invalid category id")
			}
			p.CategoryID = &id
		}

		doc, err := svc.Upload(c.UserContext(), p)
		if err != nil {
			if errors.Is(err, service.ErrInvalidUpload) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILE", err.Error())
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UpdateDocument applies a sparse JSON patch to a document.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid document data")
		}

		doc, err := svc.Update(c.UserContext(), id, service.UpdateParams{
			Title:      req.Title,
			CategoryID: req.CategoryID,
			Thumbnail:  req.Thumbnail,
			Favorite:   req.Favorite,
		})
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document and its backing file.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ViewDocument streams the raw PDF bytes for the in-browser reader.
func ViewDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.File(c.UserContext(), c.Params("filename"))
		if err != nil {
			if errors.Is(err, service.ErrFileNotFound) {
				return writeError(c, fiber.StatusNotFound, "FILE_NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.SendStream(rc, int(info.Size))
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
