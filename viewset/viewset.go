// Package viewset provides resource-oriented routing on top of Fiber.
//
// A viewset is any value that bundles related HTTP actions for one resource.
// The builtin actions (list, create, retrieve, update, partial_update,
// destroy) are declared by implementing the corresponding single-method
// interface (Lister, Creator, ...); routes beyond those are declared through
// ExtraActionProvider. Viewsets never see raw verb handling: Bind maps HTTP
// methods to named actions and hands each request to the bound action as a
// *Context.
//
// A Router derives the conventional URL layout from a registered viewset:
// a collection route, a detail route keyed by a lookup parameter, and one
// route per extra action. It names every route so URLs can be recomputed
// later with Reverse or Context.ReverseAction. Pattern matching, method
// routing and request handling stay entirely Fiber's job; this package only
// decides which routes exist, what they are named, and which action runs.
package viewset

import (
	"reflect"
	"strings"
)

// Builtin action names used in ActionMap values and reported by
// Context.Action.
const (
	ActionList          = "list"
	ActionCreate        = "create"
	ActionRetrieve      = "retrieve"
	ActionUpdate        = "update"
	ActionPartialUpdate = "partial_update"
	ActionDestroy       = "destroy"
)

// HandlerFunc is a single viewset action bound to a request.
type HandlerFunc func(c *Context) error

// The builtin action interfaces. A viewset implements the subset it
// supports; Router only registers routes for actions that are present.

// Lister handles the collection read action ("list").
type Lister interface {
	List(c *Context) error
}

// Creator handles the collection create action ("create").
type Creator interface {
	Create(c *Context) error
}

// Retriever handles the single-instance read action ("retrieve").
type Retriever interface {
	Retrieve(c *Context) error
}

// Updater handles the full-replace action ("update").
type Updater interface {
	Update(c *Context) error
}

// PartialUpdater handles the partial-modify action ("partial_update").
type PartialUpdater interface {
	PartialUpdate(c *Context) error
}

// Destroyer handles the single-instance delete action ("destroy").
type Destroyer interface {
	Destroy(c *Context) error
}

// Basenamer lets a viewset pick its own route basename instead of the
// reflected default.
type Basenamer interface {
	Basename() string
}

// DefaultBasename derives the route basename for a viewset. A Basenamer
// implementation wins; otherwise the concrete type name is used with any
// trailing "ViewSet"/"Viewset" removed and lowered, so *TaskViewSet becomes
// "task". An empty result means no basename could be derived and
// registration requires WithBasename.
func DefaultBasename(v any) string {
	if b, ok := v.(Basenamer); ok {
		return b.Basename()
	}
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	name := t.Name()
	name = strings.TrimSuffix(name, "ViewSet")
	name = strings.TrimSuffix(name, "Viewset")
	return strings.ToLower(name)
}

// actionFunc resolves an action name to the handler bound on v. Builtin
// names resolve through the action interfaces; anything else (or a builtin
// name the viewset does not implement) is looked up among the extra actions.
func actionFunc(v any, name string) (HandlerFunc, bool) {
	switch name {
	case ActionList:
		if i, ok := v.(Lister); ok {
			return i.List, true
		}
	case ActionCreate:
		if i, ok := v.(Creator); ok {
			return i.Create, true
		}
	case ActionRetrieve:
		if i, ok := v.(Retriever); ok {
			return i.Retrieve, true
		}
	case ActionUpdate:
		if i, ok := v.(Updater); ok {
			return i.Update, true
		}
	case ActionPartialUpdate:
		if i, ok := v.(PartialUpdater); ok {
			return i.PartialUpdate, true
		}
	case ActionDestroy:
		if i, ok := v.(Destroyer); ok {
			return i.Destroy, true
		}
	}
	for _, a := range ExtraActionsOf(v) {
		if a.Name == name && a.Handler != nil {
			return a.Handler, true
		}
	}
	return nil, false
}
