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

func newTaskRouter(t *testing.T) (*fiber.App, *Router) {
	t.Helper()

	app := fiber.New()
	r := NewRouter(app, WithPrefix("/api"))
	require.NoError(t, r.Register("tasks", &TaskViewSet{}))
	return app, r
}

func TestRouterRegisterRoutes(t *testing.T) {
	app, _ := newTaskRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		action string
		id     string
		detail bool
	}{
		{"list", http.MethodGet, "/api/tasks", ActionList, "", false},
		{"create", http.MethodPost, "/api/tasks", ActionCreate, "", false},
		{"retrieve", http.MethodGet, "/api/tasks/42", ActionRetrieve, "42", true},
		{"update", http.MethodPut, "/api/tasks/42", ActionUpdate, "42", true},
		{"partial update", http.MethodPatch, "/api/tasks/42", ActionPartialUpdate, "42", true},
		{"destroy", http.MethodDelete, "/api/tasks/42", ActionDestroy, "42", true},
		{"collection extra", http.MethodGet, "/api/tasks/export", "export", "", false},
		{"collection extra with url path", http.MethodGet, "/api/tasks/summary", "summary", "", false},
		{"detail extra", http.MethodGet, "/api/tasks/42/history", "history", "42", true},
		{"detail extra with url name", http.MethodGet, "/api/tasks/42/archive", "archive", "42", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, _ := app.Test(req)

			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body markPayload
			json.NewDecoder(resp.Body).Decode(&body)
			assert.Equal(t, tc.action, body.Action)
			assert.Equal(t, "task", body.Basename)
			assert.Equal(t, tc.detail, body.Detail)
			assert.Equal(t, tc.id, body.Params["id"])
		})
	}
}

func TestRouterUnmatchedRequests(t *testing.T) {
	app, _ := newTaskRouter(t)

	t.Run("unknown path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unregistered method on collection", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/tasks", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("unregistered method on extra action", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/tasks/42/history", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestRouterPartialViewSet(t *testing.T) {
	app := fiber.New()
	r := NewRouter(app, WithPrefix("/api"))
	require.NoError(t, r.Register("notes", noteViewSet{}))

	t.Run("list works", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body markPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, ActionList, body.Action)
		assert.Equal(t, "note", body.Basename)
	})

	t.Run("create is not routed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/notes", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("detail route does not exist", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/notes/42", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRouterBasenames(t *testing.T) {
	app, r := newTaskRouter(t)

	t.Run("duplicate basename", func(t *testing.T) {
		err := r.Register("more-tasks", &TaskViewSet{})
		assert.EqualError(t, err, `viewset: basename "task" is already registered`)
	})

	t.Run("same viewset under an override", func(t *testing.T) {
		require.NoError(t, r.Register("tasks-alt", &TaskViewSet{}, WithBasename("task-alt")))

		req := httptest.NewRequest(http.MethodGet, "/api/tasks-alt", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body markPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "task-alt", body.Basename)

		url, err := r.ReverseAction("task-alt", "list", nil)
		require.NoError(t, err)
		assert.Equal(t, "/api/tasks-alt", url)
	})

	t.Run("basenamer implementation", func(t *testing.T) {
		require.NoError(t, r.Register("legacy", &legacyTaskViewSet{}))

		url, err := r.ReverseAction("legacy-task", "list", nil)
		require.NoError(t, err)
		assert.Equal(t, "/api/legacy", url)
	})
}

func TestRouterLookupParam(t *testing.T) {
	app := fiber.New()
	r := NewRouter(app)
	require.NoError(t, r.Register("tasks", &TaskViewSet{}, WithLookupParam("uuid")))

	req := httptest.NewRequest(http.MethodGet, "/tasks/abc-123", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body markPayload
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, ActionRetrieve, body.Action)
	assert.Equal(t, "abc-123", body.Params["uuid"])

	url, err := r.ReverseAction("task", "detail", fiber.Map{"uuid": "9"})
	require.NoError(t, err)
	assert.Equal(t, "/tasks/9", url)
}

func TestRouterRegisterErrors(t *testing.T) {
	newRouter := func() *Router { return NewRouter(fiber.New(), WithPrefix("/api")) }

	t.Run("nil viewset", func(t *testing.T) {
		err := newRouter().Register("tasks", nil)
		assert.EqualError(t, err, "viewset: Register requires a viewset")
	})

	t.Run("empty prefix", func(t *testing.T) {
		err := newRouter().Register("", &TaskViewSet{})
		assert.EqualError(t, err, "viewset: Register requires a non-empty prefix")
	})

	t.Run("slash-only prefix", func(t *testing.T) {
		err := newRouter().Register("///", &TaskViewSet{})
		assert.EqualError(t, err, "viewset: Register requires a non-empty prefix")
	})

	t.Run("underivable basename", func(t *testing.T) {
		v := struct{ noteViewSet }{}
		err := newRouter().Register("anon", v)
		assert.ErrorContains(t, err, "could not derive a basename")
	})

	t.Run("invalid lookup param", func(t *testing.T) {
		err := newRouter().Register("tasks", &TaskViewSet{}, WithLookupParam(":id"))
		assert.EqualError(t, err, `viewset: invalid lookup parameter ":id"`)
	})

	t.Run("no actions", func(t *testing.T) {
		err := newRouter().Register("bare", &bareViewSet{})
		assert.EqualError(t, err, "viewset: *viewset.bareViewSet implements no actions")
	})

	t.Run("colliding url name", func(t *testing.T) {
		v := extrasViewSet{extras: []ExtraAction{
			{Name: "latest", URLName: "list", Handler: mark},
		}}
		err := newRouter().Register("things", v)
		assert.EqualError(t, err, `viewset: URL name "extras-list" is already registered`)
	})
}

func TestRouterExtraActionValidation(t *testing.T) {
	tests := []struct {
		name    string
		extras  []ExtraAction
		wantErr string
	}{
		{
			"unnamed action",
			[]ExtraAction{{Handler: mark}},
			"viewset: extra action without a name",
		},
		{
			"missing handler",
			[]ExtraAction{{Name: "export"}},
			`viewset: extra action "export" has no handler`,
		},
		{
			"invalid method",
			[]ExtraAction{{Name: "sync", Methods: []string{"FETCH"}, Handler: mark}},
			`viewset: extra action "sync" uses invalid HTTP method "FETCH"`,
		},
		{
			"parameterized url path",
			[]ExtraAction{{Name: "move", URLPath: "move/:pos", Handler: mark}},
			`viewset: extra action "move" must not declare parameters in its URL path`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRouter(fiber.New())
			err := r.Register("things", extrasViewSet{extras: tc.extras})
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}
