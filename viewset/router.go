package viewset

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Router registers viewsets on a Fiber app and resolves the URLs it
// registered. All routes live under the router's prefix and are named
// {basename}-list, {basename}-detail and {basename}-{urlName} so they can be
// reversed later.
type Router struct {
	app       *fiber.App
	prefix    string
	lookup    string
	basenames map[string]struct{}
	names     map[string]string
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithPrefix mounts every registered viewset under the given path prefix,
// e.g. "/api".
func WithPrefix(prefix string) RouterOption {
	return func(r *Router) { r.prefix = normalizePrefix(prefix) }
}

// NewRouter returns a Router registering routes on app.
func NewRouter(app *fiber.App, opts ...RouterOption) *Router {
	r := &Router{
		app:       app,
		lookup:    "id",
		basenames: make(map[string]struct{}),
		names:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

// RegisterOption configures a single viewset registration.
type RegisterOption func(*registration)

type registration struct {
	basename string
	lookup   string
}

// WithBasename overrides the basename derived from the viewset type. A
// second registration of the same viewset under an alternate prefix needs
// one, since basenames must be unique per router.
func WithBasename(name string) RegisterOption {
	return func(reg *registration) { reg.basename = name }
}

// WithLookupParam renames the detail-route parameter (default "id").
func WithLookupParam(name string) RegisterOption {
	return func(reg *registration) { reg.lookup = name }
}

// routeEntry is one derived route, fully validated and bound before any of
// them is handed to Fiber.
type routeEntry struct {
	name    string
	path    string
	methods []string
	handler fiber.Handler
}

// Register derives the URL layout for v under the given prefix and registers
// it. The collection route answers GET with "list" and POST with "create",
// the detail route answers GET/PUT/PATCH/DELETE with
// retrieve/update/partial_update/destroy, and every extra action gets its
// own route; actions the viewset does not implement simply produce no
// binding, and a route with no remaining bindings is not registered at all.
// Registration is atomic: any validation error leaves the app untouched.
func (r *Router) Register(prefix string, v any, opts ...RegisterOption) error {
	if v == nil {
		return fmt.Errorf("viewset: Register requires a viewset")
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fmt.Errorf("viewset: Register requires a non-empty prefix")
	}

	reg := registration{lookup: r.lookup}
	for _, opt := range opts {
		opt(&reg)
	}
	if reg.basename == "" {
		reg.basename = DefaultBasename(v)
	}
	if reg.basename == "" {
		return fmt.Errorf("viewset: could not derive a basename for %T, use WithBasename", v)
	}
	if _, dup := r.basenames[reg.basename]; dup {
		return fmt.Errorf("viewset: basename %q is already registered", reg.basename)
	}
	if reg.lookup == "" || strings.ContainsAny(reg.lookup, ":/") {
		return fmt.Errorf("viewset: invalid lookup parameter %q", reg.lookup)
	}

	extras := ExtraActionsOf(v)
	for _, a := range extras {
		if err := a.validate(); err != nil {
			return err
		}
	}

	collectionPath := r.prefix + "/" + prefix
	detailPath := collectionPath + "/:" + reg.lookup

	var entries []routeEntry

	// Collection route, then extra collection actions, then the detail
	// route, then extra detail actions. Static extra-action segments must
	// precede the lookup parameter or Fiber would capture them as IDs.
	collection := ActionMap{}
	if _, ok := v.(Lister); ok {
		collection[fiber.MethodGet] = ActionList
	}
	if _, ok := v.(Creator); ok {
		collection[fiber.MethodPost] = ActionCreate
	}
	if len(collection) > 0 {
		e, err := r.bindEntry(v, reg.basename, false, reg.basename+"-list", collectionPath, collection)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	for _, a := range extras {
		if a.Detail {
			continue
		}
		e, err := r.bindExtra(v, reg.basename, collectionPath, a)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	detail := ActionMap{}
	if _, ok := v.(Retriever); ok {
		detail[fiber.MethodGet] = ActionRetrieve
	}
	if _, ok := v.(Updater); ok {
		detail[fiber.MethodPut] = ActionUpdate
	}
	if _, ok := v.(PartialUpdater); ok {
		detail[fiber.MethodPatch] = ActionPartialUpdate
	}
	if _, ok := v.(Destroyer); ok {
		detail[fiber.MethodDelete] = ActionDestroy
	}
	if len(detail) > 0 {
		e, err := r.bindEntry(v, reg.basename, true, reg.basename+"-detail", detailPath, detail)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	for _, a := range extras {
		if !a.Detail {
			continue
		}
		e, err := r.bindExtra(v, reg.basename, detailPath, a)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return fmt.Errorf("viewset: %T implements no actions", v)
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := r.names[e.name]; dup {
			return fmt.Errorf("viewset: URL name %q is already registered", e.name)
		}
		if _, dup := seen[e.name]; dup {
			return fmt.Errorf("viewset: URL name %q is already registered", e.name)
		}
		seen[e.name] = struct{}{}
	}

	for _, e := range entries {
		for _, method := range e.methods {
			r.app.Add(method, e.path, e.handler)
		}
		r.app.Name(e.name)
		r.names[e.name] = e.path
	}
	r.basenames[reg.basename] = struct{}{}
	return nil
}

func (r *Router) bindEntry(v any, basename string, detail bool, name, path string, actions ActionMap) (routeEntry, error) {
	handler, err := Bind(v, actions,
		BindBasename(basename), BindDetail(detail), BindReverser(r))
	if err != nil {
		return routeEntry{}, err
	}
	return routeEntry{
		name:    name,
		path:    path,
		methods: actions.withHeadFallback().methods(),
		handler: handler,
	}, nil
}

func (r *Router) bindExtra(v any, basename, parent string, a ExtraAction) (routeEntry, error) {
	actions := make(ActionMap, len(a.Methods))
	for _, m := range a.Methods {
		actions[m] = a.Name
	}
	return r.bindEntry(v, basename, a.Detail, basename+"-"+a.URLName, parent+"/"+a.URLPath, actions)
}

// Reverse resolves a registered URL name to a relative URL. The router keeps
// its own name-to-path table because Fiber only resolves named routes from a
// request context, and Reverse must also work outside a request.
func (r *Router) Reverse(name string, params fiber.Map) (string, error) {
	path, ok := r.names[name]
	if !ok {
		return "", fmt.Errorf("viewset: reverse %q: no route registered under that name", name)
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		param := seg[1:]
		value, ok := params[param]
		if !ok {
			return "", fmt.Errorf("viewset: reverse %q: missing parameter %q", name, param)
		}
		segments[i] = fmt.Sprint(value)
	}
	return strings.Join(segments, "/"), nil
}

// ReverseAction resolves {basename}-{action} to a relative URL. This is the
// request-independent counterpart of Context.ReverseAction.
func (r *Router) ReverseAction(basename, action string, params fiber.Map) (string, error) {
	return r.Reverse(basename+"-"+action, params)
}

var _ Reverser = (*Router)(nil)
