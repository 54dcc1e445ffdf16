package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"restkit/internal/service"
	"restkit/viewset"
)

// RegisterRoutes attaches the health endpoints and the document resource.
// The resource lives under /api with routes derived by the viewset router:
//
//	GET  /api/documents               document-list
//	POST /api/documents               document-list
//	GET  /api/documents/:id           document-detail
//	DELETE /api/documents/:id         document-detail
//	GET  /api/documents/:id/download  document-download
//
// The returned router resolves those names back to URLs.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) (*viewset.Router, error) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	r := viewset.NewRouter(app, viewset.WithPrefix("/api"))
	if err := r.Register("documents", NewDocumentViewSet(docSvc)); err != nil {
		return nil, err
	}
	return r, nil
}
