package admin

import (
	"context"
	"fmt"
	"net/url"
)

// ControllerContext is what every controller is built with.
type ControllerContext struct {
	Admin *Admin
}

// ActionRequest carries one request into an action.
type ActionRequest struct {
	Params  map[string]string
	Query   url.Values
	Payload map[string]any
	// Method is lower-case, e.g. "get".
	Method string
}

// UploadedFile is the payload value for a multipart file part.
type UploadedFile struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// ActionFunc runs an action. A string result is sent as HTML unless the route
// declares a content type; other non-nil results are encoded as JSON.
type ActionFunc func(ctx context.Context, req ActionRequest) (any, error)

// Controller resolves action names to functions.
type Controller interface {
	Action(name string) (ActionFunc, bool)
}

// ControllerFactory builds a controller for one request. principal is nil for
// anonymous requests.
type ControllerFactory func(cc ControllerContext, principal any) Controller

// Actions is a Controller backed by a map.
type Actions map[string]ActionFunc

func (a Actions) Action(name string) (ActionFunc, bool) {
	fn, ok := a[name]
	return fn, ok
}

// Dispatch resolves name on c and runs it.
func Dispatch(ctx context.Context, c Controller, name string, req ActionRequest) (any, error) {
	fn, ok := c.Action(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownAction)
	}
	return fn(ctx, req)
}

// PrincipalLabel renders a principal for display. It understands Stringers,
// maps with an "email" key and types exposing Email().
func PrincipalLabel(principal any) string {
	switch p := principal.(type) {
	case nil:
		return ""
	case interface{ Email() string }:
		return p.Email()
	case fmt.Stringer:
		return p.String()
	case map[string]any:
		if email, ok := p["email"].(string); ok {
			return email
		}
	case map[string]string:
		return p["email"]
	case string:
		return p
	}
	return ""
}
