package viewset

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterReverseAction(t *testing.T) {
	_, r := newTaskRouter(t)

	tests := []struct {
		name   string
		action string
		params fiber.Map
		want   string
	}{
		{"list", "list", nil, "/api/tasks"},
		{"detail", "detail", fiber.Map{"id": "1"}, "/api/tasks/1"},
		{"collection extra", "export", nil, "/api/tasks/export"},
		{"renamed collection extra", "overview", nil, "/api/tasks/summary"},
		{"detail extra", "history", fiber.Map{"id": "1"}, "/api/tasks/1/history"},
		{"renamed detail extra", "archived", fiber.Map{"id": "1"}, "/api/tasks/1/archive"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			url, err := r.ReverseAction("task", tc.action, tc.params)
			require.NoError(t, err)
			assert.Equal(t, tc.want, url)
		})
	}
}

func TestRouterReverseMissingParam(t *testing.T) {
	_, r := newTaskRouter(t)

	_, err := r.ReverseAction("task", "detail", nil)
	assert.ErrorContains(t, err, `viewset: reverse "task-detail": missing parameter "id"`)

	_, err = r.ReverseAction("task", "history", fiber.Map{"pk": "1"})
	assert.ErrorContains(t, err, `missing parameter "id"`)
}

func TestRouterReverseNonStringParam(t *testing.T) {
	_, r := newTaskRouter(t)

	url, err := r.ReverseAction("task", "detail", fiber.Map{"id": 42})
	require.NoError(t, err)
	assert.Equal(t, "/api/tasks/42", url)
}

func TestRouterReverseUnknownName(t *testing.T) {
	_, r := newTaskRouter(t)

	_, err := r.Reverse("task-unknown", nil)
	assert.ErrorContains(t, err, `viewset: reverse "task-unknown"`)

	_, err = r.ReverseAction("project", "list", nil)
	assert.ErrorContains(t, err, `viewset: reverse "project-list"`)
}

func TestContextReverseAction(t *testing.T) {
	app := fiber.New()
	r := NewRouter(app, WithPrefix("/api"))

	v := &inspectViewSet{fn: func(c *Context) error {
		list, err := c.ReverseAction("list", nil)
		if err != nil {
			return err
		}
		detail, err := c.ReverseAction("detail", fiber.Map{"id": "7"})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"list": list, "detail": detail})
	}}
	require.NoError(t, r.Register("items", v))

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	resp, _ := app.Test(req)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "http://example.com/api/items", body["list"])
	assert.Equal(t, "http://example.com/api/items/7", body["detail"])
}

func TestContextReverseActionUnavailable(t *testing.T) {
	t.Run("without a reverser", func(t *testing.T) {
		var revErr error
		v := &inspectViewSet{fn: func(c *Context) error {
			_, revErr = c.ReverseAction("list", nil)
			return c.SendStatus(fiber.StatusOK)
		}}

		app := fiber.New()
		h, err := Bind(v, ActionMap{"GET": ActionList}, BindBasename("item"))
		require.NoError(t, err)
		app.Get("/items", h)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/items", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualError(t, revErr, "viewset: reverse is unavailable without a router")
	})

	t.Run("without a basename", func(t *testing.T) {
		app := fiber.New()
		r := NewRouter(app)

		var revErr error
		v := &inspectViewSet{fn: func(c *Context) error {
			_, revErr = c.ReverseAction("list", nil)
			return c.SendStatus(fiber.StatusOK)
		}}

		h, err := Bind(v, ActionMap{"GET": ActionList}, BindReverser(r))
		require.NoError(t, err)
		app.Get("/items", h)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/items", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualError(t, revErr, "viewset: reverse requires a basename")
	})
}
