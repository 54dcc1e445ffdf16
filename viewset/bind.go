package viewset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ActionMap maps HTTP methods to viewset action names, e.g.
// ActionMap{"GET": "list", "POST": "create"}. Method keys are
// case-insensitive.
type ActionMap map[string]string

// ErrMissingActions is returned by Bind when no action map is supplied.
var ErrMissingActions = errors.New(
	`viewset: an action map must be provided when binding a viewset, for example Bind(v, ActionMap{"GET": "list"})`)

var knownMethods = map[string]struct{}{
	fiber.MethodGet:     {},
	fiber.MethodHead:    {},
	fiber.MethodPost:    {},
	fiber.MethodPut:     {},
	fiber.MethodDelete:  {},
	fiber.MethodConnect: {},
	fiber.MethodOptions: {},
	fiber.MethodTrace:   {},
	fiber.MethodPatch:   {},
}

func validMethod(m string) bool {
	_, ok := knownMethods[m]
	return ok
}

// normalized returns a copy of the map with upper-cased method keys, or an
// error for a key that is not an HTTP method.
func (m ActionMap) normalized() (ActionMap, error) {
	out := make(ActionMap, len(m))
	for method, action := range m {
		upper := strings.ToUpper(method)
		if !validMethod(upper) {
			return nil, fmt.Errorf("viewset: invalid HTTP method %q in action map", method)
		}
		out[upper] = action
	}
	return out, nil
}

// withHeadFallback adds the implicit HEAD binding: a map that binds GET but
// not HEAD answers HEAD with the GET action.
func (m ActionMap) withHeadFallback() ActionMap {
	if _, ok := m[fiber.MethodHead]; ok {
		return m
	}
	action, ok := m[fiber.MethodGet]
	if !ok {
		return m
	}
	out := make(ActionMap, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[fiber.MethodHead] = action
	return out
}

// methods returns the map's method keys, sorted.
func (m ActionMap) methods() []string {
	out := make([]string, 0, len(m))
	for method := range m {
		out = append(out, method)
	}
	sort.Strings(out)
	return out
}

// BindOption adjusts the binding state carried on the Context.
type BindOption func(*bindConfig)

type bindConfig struct {
	basename string
	detail   bool
	reverser Reverser
}

// BindBasename sets the basename reported by Context.Basename and used by
// Context.ReverseAction. Router supplies it automatically.
func BindBasename(name string) BindOption {
	return func(cfg *bindConfig) { cfg.basename = name }
}

// BindDetail marks the handler as serving an instance route.
func BindDetail(detail bool) BindOption {
	return func(cfg *bindConfig) { cfg.detail = detail }
}

// BindReverser makes Context.ReverseAction work for handlers bound outside a
// Router.
func BindReverser(r Reverser) BindOption {
	return func(cfg *bindConfig) { cfg.reverser = r }
}

// Bind maps HTTP methods onto named actions of v and returns a Fiber handler
// dispatching accordingly. The map is validated up front: every method key
// must be a real HTTP method and every action name must resolve on v, either
// through one of the builtin action interfaces or through an extra action.
// Requests with a method absent from the (HEAD-augmented) map are answered
// with 405.
func Bind(v any, actions ActionMap, opts ...BindOption) (fiber.Handler, error) {
	if v == nil {
		return nil, errors.New("viewset: Bind requires a viewset")
	}
	if len(actions) == 0 {
		return nil, ErrMissingActions
	}

	named, err := actions.normalized()
	if err != nil {
		return nil, err
	}
	named = named.withHeadFallback()

	bound := make(map[string]HandlerFunc, len(named))
	for method, action := range named {
		h, ok := actionFunc(v, action)
		if !ok {
			return nil, fmt.Errorf("viewset: %T has no action %q", v, action)
		}
		bound[method] = h
	}

	var cfg bindConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(c *fiber.Ctx) error {
		h, ok := bound[c.Method()]
		if !ok {
			return fiber.ErrMethodNotAllowed
		}
		return h(&Context{
			Ctx:      c,
			action:   named[c.Method()],
			actions:  named,
			basename: cfg.basename,
			detail:   cfg.detail,
			reverser: cfg.reverser,
		})
	}, nil
}

// MustBind is Bind that panics on error, for use in route tables that are
// wired once at startup.
func MustBind(v any, actions ActionMap, opts ...BindOption) fiber.Handler {
	h, err := Bind(v, actions, opts...)
	if err != nil {
		panic(err)
	}
	return h
}
