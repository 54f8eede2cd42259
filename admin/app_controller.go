package admin

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
)

// AppController renders the HTML pages of the panel.
type AppController struct {
	admin     *Admin
	principal any
}

// NewAppController is the ControllerFactory for HTML routes.
func NewAppController(cc ControllerContext, principal any) Controller {
	c := &AppController{admin: cc.Admin, principal: principal}
	return Actions{
		"index":          c.Index,
		"resource":       c.Resource,
		"resourceAction": c.ResourceAction,
		"recordAction":   c.RecordAction,
		"page":           c.Page,
	}
}

func (c *AppController) Index(ctx context.Context, _ ActionRequest) (any, error) {
	data := c.admin.newPageData("Dashboard", c.principal)
	for i, item := range data.Nav {
		r, err := c.admin.FindResource(item.ID)
		if err != nil {
			return nil, err
		}
		n, err := r.Count(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", item.ID, err)
		}
		data.Nav[i].Count = n
	}
	return c.admin.render("dashboard.html", data)
}

func (c *AppController) Resource(ctx context.Context, req ActionRequest) (any, error) {
	params := map[string]string{"resourceId": req.Params["resourceId"], "action": "list"}
	req.Params = params
	return c.ResourceAction(ctx, req)
}

func (c *AppController) ResourceAction(ctx context.Context, req ActionRequest) (any, error) {
	r, err := c.admin.FindResource(req.Params["resourceId"])
	if err != nil {
		return nil, err
	}
	data := c.resourcePage(r)

	switch action := req.Params["action"]; action {
	case "list":
		q := ListQuery{Page: atoi(req.Query.Get("page")), PerPage: atoi(req.Query.Get("perPage"))}
		if s := req.Query.Get("q"); s != "" {
			q.Filters = map[string]string{titleProperty(r): s}
		}
		q = q.normalize()
		records, err := r.List(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", r.ID(), err)
		}
		total, err := r.Count(ctx, q.Filters)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", r.ID(), err)
		}
		data.Records, data.Total, data.Page, data.PerPage = records, total, q.Page, q.PerPage
		return c.admin.render("list.html", data)
	case "new":
		data.Title = "New " + r.Name()
		data.APIURL += "/actions/new"
		return c.admin.render("form.html", data)
	default:
		return nil, fmt.Errorf("resource action %q: %w", action, ErrUnknownAction)
	}
}

func (c *AppController) RecordAction(ctx context.Context, req ActionRequest) (any, error) {
	r, err := c.admin.FindResource(req.Params["resourceId"])
	if err != nil {
		return nil, err
	}
	rec, err := r.Find(ctx, req.Params["recordId"])
	if err != nil {
		return nil, err
	}
	data := c.resourcePage(r)
	data.Record = rec

	switch action := req.Params["action"]; action {
	case "show":
		return c.admin.render("show.html", data)
	case "edit":
		data.Title = "Edit " + r.Name()
		data.APIURL += "/records/" + rec.ID() + "/edit"
		return c.admin.render("form.html", data)
	default:
		return nil, fmt.Errorf("record action %q: %w", action, ErrUnknownAction)
	}
}

func (c *AppController) Page(_ context.Context, req ActionRequest) (any, error) {
	name := req.Params["pageName"]
	body, ok := c.admin.options.Pages[name]
	if !ok {
		return nil, fmt.Errorf("page %q: %w", name, ErrNotFound)
	}
	data := c.admin.newPageData(name, c.principal)
	data.Body = template.HTML(body)
	return c.admin.render("page.html", data)
}

func (c *AppController) resourcePage(r Resource) pageData {
	data := c.admin.newPageData(r.Name(), c.principal)
	data.ResourceID = r.ID()
	data.ResourceName = r.Name()
	data.Properties = r.Properties()
	data.APIURL = c.admin.rootURL("/api/resources/" + r.ID())
	return data
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
