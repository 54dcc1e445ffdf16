package viewset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ExtraAction declares a route on a viewset beyond the six builtin actions.
// Name doubles as the action identifier and, unless URLPath overrides it, as
// the URL segment appended after the collection or detail path.
type ExtraAction struct {
	// Name identifies the action; required.
	Name string

	// Methods lists the HTTP methods the action answers to. Empty means GET.
	Methods []string

	// Detail places the route under the instance URL (after the lookup
	// parameter) instead of the collection URL.
	Detail bool

	// URLPath overrides the path segment. Defaults to Name.
	URLPath string

	// URLName overrides the suffix used in the route's reverse name
	// ({basename}-{URLName}). Defaults to Name with underscores replaced
	// by dashes.
	URLName string

	// Handler runs the action. Required.
	Handler HandlerFunc
}

// ExtraActionProvider is implemented by viewsets that expose extra actions.
type ExtraActionProvider interface {
	ExtraActions() []ExtraAction
}

// ExtraActionsOf returns the extra actions declared by v, with defaults
// filled in and sorted by name. Viewsets without extra actions yield nil.
func ExtraActionsOf(v any) []ExtraAction {
	p, ok := v.(ExtraActionProvider)
	if !ok {
		return nil
	}
	declared := p.ExtraActions()
	if len(declared) == 0 {
		return nil
	}
	actions := make([]ExtraAction, len(declared))
	for i, a := range declared {
		actions[i] = a.normalized()
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].Name < actions[j].Name })
	return actions
}

// normalized returns a copy with the documented defaults applied.
func (a ExtraAction) normalized() ExtraAction {
	if len(a.Methods) == 0 {
		a.Methods = []string{fiber.MethodGet}
	} else {
		methods := make([]string, len(a.Methods))
		for i, m := range a.Methods {
			methods[i] = strings.ToUpper(m)
		}
		a.Methods = methods
	}
	if a.URLPath == "" {
		a.URLPath = a.Name
	}
	if a.URLName == "" {
		a.URLName = strings.ReplaceAll(a.Name, "_", "-")
	}
	return a
}

// validate reports the first problem that would make the action
// unregistrable.
func (a ExtraAction) validate() error {
	if a.Name == "" {
		return fmt.Errorf("viewset: extra action without a name")
	}
	if a.Handler == nil {
		return fmt.Errorf("viewset: extra action %q has no handler", a.Name)
	}
	for _, m := range a.Methods {
		if !validMethod(m) {
			return fmt.Errorf("viewset: extra action %q uses invalid HTTP method %q", a.Name, m)
		}
	}
	if strings.Contains(a.URLPath, ":") {
		return fmt.Errorf("viewset: extra action %q must not declare parameters in its URL path", a.Name)
	}
	return nil
}
