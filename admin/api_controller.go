package admin

import (
	"context"
	"fmt"
	"strings"
)

// APIController answers the JSON endpoints used by the frontend.
type APIController struct {
	admin     *Admin
	principal any
}

// NewAPIController is the ControllerFactory for JSON routes.
func NewAPIController(cc ControllerContext, principal any) Controller {
	c := &APIController{admin: cc.Admin, principal: principal}
	return Actions{
		"dashboard":      c.Dashboard,
		"search":         c.Search,
		"resourceAction": c.ResourceAction,
		"recordAction":   c.RecordAction,
		"bulkAction":     c.BulkAction,
	}
}

type notice struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func success(message string) notice { return notice{Message: message, Type: "success"} }

func (c *APIController) Dashboard(ctx context.Context, _ ActionRequest) (any, error) {
	type entry struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	entries := make([]entry, 0, len(c.admin.order))
	for _, r := range c.admin.Resources() {
		n, err := r.Count(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", r.ID(), err)
		}
		entries = append(entries, entry{ID: r.ID(), Name: r.Name(), Count: n})
	}
	return map[string]any{
		"resources":    entries,
		"currentAdmin": c.principal,
	}, nil
}

func (c *APIController) Search(ctx context.Context, req ActionRequest) (any, error) {
	r, err := c.admin.FindResource(req.Params["resourceId"])
	if err != nil {
		return nil, err
	}
	q := ListQuery{Filters: map[string]string{titleProperty(r): req.Params["query"]}, PerPage: 50}
	records, err := r.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.ID(), err)
	}
	return map[string]any{"records": records}, nil
}

func (c *APIController) ResourceAction(ctx context.Context, req ActionRequest) (any, error) {
	r, err := c.admin.FindResource(req.Params["resourceId"])
	if err != nil {
		return nil, err
	}

	switch action := req.Params["action"]; action {
	case "list":
		q := ListQuery{
			Page:    atoi(req.Query.Get("page")),
			PerPage: atoi(req.Query.Get("perPage")),
			Filters: queryFilters(req),
		}.normalize()
		records, err := r.List(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", r.ID(), err)
		}
		total, err := r.Count(ctx, q.Filters)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", r.ID(), err)
		}
		return map[string]any{
			"records": records,
			"meta":    map[string]int{"total": total, "page": q.Page, "perPage": q.PerPage},
		}, nil
	case "new":
		if req.Method != "post" {
			return map[string]any{"properties": r.Properties()}, nil
		}
		rec, err := r.Create(ctx, recordParams(r, req.Payload))
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", r.ID(), err)
		}
		return map[string]any{
			"record":      rec,
			"redirectUrl": c.admin.rootURL("/resources/" + r.ID() + "/records/" + rec.ID() + "/show"),
			"notice":      success("successfullyCreated"),
		}, nil
	case "search":
		return c.Search(ctx, ActionRequest{Params: map[string]string{
			"resourceId": r.ID(),
			"query":      req.Query.Get("q"),
		}})
	default:
		return nil, fmt.Errorf("resource action %q: %w", action, ErrUnknownAction)
	}
}

func (c *APIController) RecordAction(ctx context.Context, req ActionRequest) (any, error) {
	r, err := c.admin.FindResource(req.Params["resourceId"])
	if err != nil {
		return nil, err
	}
	id := req.Params["recordId"]

	switch action := req.Params["action"]; action {
	case "show":
		rec, err := r.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"record": rec}, nil
	case "edit":
		if req.Method != "post" {
			rec, err := r.Find(ctx, id)
			if err != nil {
				return nil, err
			}
			return map[string]any{"record": rec}, nil
		}
		rec, err := r.Update(ctx, id, recordParams(r, req.Payload))
		if err != nil {
			return nil, fmt.Errorf("update %s %s: %w", r.ID(), id, err)
		}
		return map[string]any{
			"record":      rec,
			"redirectUrl": c.admin.rootURL("/resources/" + r.ID() + "/records/" + id + "/show"),
			"notice":      success("successfullyUpdated"),
		}, nil
	case "delete":
		rec, err := r.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		if req.Method != "post" {
			return map[string]any{"record": rec}, nil
		}
		if err := r.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("delete %s %s: %w", r.ID(), id, err)
		}
		return map[string]any{
			"record":      rec,
			"redirectUrl": c.admin.rootURL("/resources/" + r.ID()),
			"notice":      success("successfullyDeleted"),
		}, nil
	default:
		return nil, fmt.Errorf("record action %q: %w", action, ErrUnknownAction)
	}
}

// BulkAction handles bulkDelete with ids in the recordIds query parameter,
// comma separated.
func (c *APIController) BulkAction(ctx context.Context, req ActionRequest) (any, error) {
	r, err := c.admin.FindResource(req.Params["resourceId"])
	if err != nil {
		return nil, err
	}
	if action := req.Params["action"]; action != "bulkDelete" {
		return nil, fmt.Errorf("bulk action %q: %w", action, ErrUnknownAction)
	}

	var deleted []Record
	for _, id := range strings.Split(req.Query.Get("recordIds"), ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		rec, err := r.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := r.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("delete %s %s: %w", r.ID(), id, err)
		}
		deleted = append(deleted, rec)
	}
	return map[string]any{
		"records":     deleted,
		"redirectUrl": c.admin.rootURL("/resources/" + r.ID()),
		"notice":      success("successfullyBulkDeleted"),
	}, nil
}

// queryFilters reads filters.<property>=value query parameters.
func queryFilters(req ActionRequest) map[string]string {
	filters := map[string]string{}
	for key, values := range req.Query {
		if name, ok := strings.CutPrefix(key, "filters."); ok && len(values) > 0 {
			filters[name] = values[0]
		}
	}
	return filters
}

// recordParams keeps declared, non-id properties and replaces uploaded files
// with their file names. Files sit in the payload under their file name, so
// they are matched to properties by form field name.
func recordParams(r Resource, payload map[string]any) map[string]any {
	files := map[string]*UploadedFile{}
	for _, v := range payload {
		if f, ok := v.(*UploadedFile); ok {
			files[f.FieldName] = f
		}
	}

	params := make(map[string]any, len(payload))
	for _, p := range r.Properties() {
		if p.IsID {
			continue
		}
		v, ok := payload[p.Name]
		if f, isFile := files[p.Name]; isFile {
			v, ok = f, true
		}
		if !ok {
			continue
		}
		if f, isFile := v.(*UploadedFile); isFile {
			v = f.Filename
		}
		params[p.Name] = v
	}
	return params
}
