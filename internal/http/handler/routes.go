package handler

import (
	"bytes"
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"pdfshelf/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay free of business logic; everything goes through the injected
// services. db may be nil when the in-memory store is in use.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, catSvc service.CategoryService) {
	// Serve the OpenAPI document and a Swagger UI page for it.
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", Metrics(prometheus.DefaultGatherer))

	api := app.Group("/api")

	api.Get("/categories", ListCategories(catSvc))
	api.Post("/categories", CreateCategory(catSvc))

	api.Get("/documents", ListDocuments(docSvc))
	api.Post("/documents", UploadDocument(docSvc))
	api.Get("/documents/:id", GetDocument(docSvc))
	api.Patch("/documents/:id", UpdateDocument(docSvc))
	api.Delete("/documents/:id", DeleteDocument(docSvc))

	api.Get("/view/:filename", ViewDocument(docSvc))
}

// Metrics exposes the gathered prometheus metrics in text format.
func Metrics(g prometheus.Gatherer) fiber.Handler {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	return func(c *fiber.Ctx) error {
		mfs, err := g.Gather()
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		var buf bytes.Buffer
		enc := expfmt.NewEncoder(&buf, format)
		for _, mf := range mfs {
			if err := enc.Encode(mf); err != nil {
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		c.Set(fiber.HeaderContentType, string(format))
		return c.Send(buf.Bytes())
	}
}
