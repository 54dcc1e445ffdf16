package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"restkit/internal/service"
	"restkit/viewset"
)

// DocumentViewSet bundles the HTTP actions for the document resource. It is
// stateless: all per-request state lives on the viewset.Context, so one
// instance serves every route the router derives from it.
type DocumentViewSet struct {
	svc service.DocumentService
}

// NewDocumentViewSet creates the viewset with an injected service.
func NewDocumentViewSet(svc service.DocumentService) *DocumentViewSet {
	return &DocumentViewSet{svc: svc}
}

// List returns one page of documents. Query parameters: limit (default 10)
// and offset (default 0).
func (h *DocumentViewSet) List(c *viewset.Context) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return writeError(c.Ctx, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return writeError(c.Ctx, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}

	res, err := h.svc.List(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c.Ctx, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return c.JSON(res)
}

// Create uploads a document from a multipart form (field name: file). On
// success the Location header points at the new document's detail URL.
func (h *DocumentViewSet) Create(c *viewset.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c.Ctx, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c.Ctx, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	doc, err := h.svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
	if err != nil {
		return writeError(c.Ctx, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	if loc, err := c.ReverseAction("detail", fiber.Map{"id": doc.ID}); err == nil {
		c.Set(fiber.HeaderLocation, loc)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Retrieve returns a single document by ID.
func (h *DocumentViewSet) Retrieve(c *viewset.Context) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c.Ctx, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	doc, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return writeError(c.Ctx, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}
		return writeError(c.Ctx, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return c.JSON(doc)
}

// Destroy deletes a document by ID.
func (h *DocumentViewSet) Destroy(c *viewset.Context) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c.Ctx, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return writeError(c.Ctx, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}
		return writeError(c.Ctx, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExtraActions declares the non-CRUD routes of the resource.
func (h *DocumentViewSet) ExtraActions() []viewset.ExtraAction {
	return []viewset.ExtraAction{
		{Name: "download", Detail: true, Handler: h.download},
	}
}

// download answers with a presigned storage URL for the document content.
// The optional expiry query parameter is in seconds.
func (h *DocumentViewSet) download(c *viewset.Context) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return writeError(c.Ctx, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	var expiry time.Duration
	if raw := c.Query("expiry"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return writeError(c.Ctx, fiber.StatusBadRequest, "INVALID_EXPIRY", "invalid expiry")
		}
		expiry = time.Duration(secs) * time.Second
	}

	u, err := h.svc.PresignDownload(c.UserContext(), id, expiry)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return writeError(c.Ctx, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}
		return writeError(c.Ctx, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return c.JSON(fiber.Map{"url": u})
}
