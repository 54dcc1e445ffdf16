package viewset

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Reverser resolves a registered URL name to a relative URL. *Router is the
// canonical implementation.
type Reverser interface {
	Reverse(name string, params fiber.Map) (string, error)
}

// Context is the request-scoped view of a dispatched action. It embeds the
// Fiber context, so handlers use the usual Fiber API for params, body and
// response writing. On top of that it carries the binding state: which
// action ran, the full method-to-action map for the route, the basename and
// whether this is a detail route. The viewset value itself stays stateless
// and is shared between requests.
type Context struct {
	*fiber.Ctx

	action   string
	actions  ActionMap
	basename string
	detail   bool
	reverser Reverser
}

// Action returns the name of the action handling this request. For a HEAD
// request served through the GET fallback this is the GET action's name.
func (c *Context) Action() string { return c.action }

// Actions returns a copy of the action map the handler was bound with,
// including the implicit HEAD entry.
func (c *Context) Actions() ActionMap {
	m := make(ActionMap, len(c.actions))
	for k, v := range c.actions {
		m[k] = v
	}
	return m
}

// Basename returns the basename the route was registered under. Empty for
// handlers bound outside a Router without BindBasename.
func (c *Context) Basename() string { return c.basename }

// Detail reports whether the request came in through an instance route.
func (c *Context) Detail() bool { return c.detail }

// ReverseAction computes an absolute URL for a sibling action of this
// viewset, using the request's scheme and host. The action argument is the
// URL-name suffix: "list", "detail", or an extra action's URLName. For a
// host-independent relative URL use Router.ReverseAction instead.
func (c *Context) ReverseAction(action string, params fiber.Map) (string, error) {
	if c.reverser == nil {
		return "", errors.New("viewset: reverse is unavailable without a router")
	}
	if c.basename == "" {
		return "", errors.New("viewset: reverse requires a basename")
	}
	rel, err := c.reverser.Reverse(c.basename+"-"+action, params)
	if err != nil {
		return "", err
	}
	return c.BaseURL() + rel, nil
}
