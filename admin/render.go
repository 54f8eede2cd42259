package admin

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoginPage is the input to RenderLogin.
type LoginPage struct {
	Action       string
	ErrorMessage string
}

// InvalidCredentials is the error key shown after a failed login.
const InvalidCredentials = "invalidCredentials"

var messages = map[string]string{
	InvalidCredentials: "Wrong email and/or password",
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("admin").Funcs(template.FuncMap{
		"field": func(rec Record, name string) string {
			v, ok := rec[name]
			if !ok || v == nil {
				return ""
			}
			if f, ok := v.(*UploadedFile); ok {
				return f.Filename
			}
			return fmt.Sprint(v)
		},
		"add": func(a, b int) int { return a + b },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse admin templates: %w", err)
	}
	return tmpl, nil
}

// RenderLogin renders the login form posting email and password to page.Action.
func (a *Admin) RenderLogin(page LoginPage) (string, error) {
	data := struct {
		CompanyName  string
		AssetsPath   string
		Action       string
		ErrorMessage string
		ErrorText    string
	}{
		CompanyName:  a.options.Branding.CompanyName,
		AssetsPath:   a.rootURL(assetsPrefix),
		Action:       page.Action,
		ErrorMessage: page.ErrorMessage,
	}
	if page.ErrorMessage != "" {
		data.ErrorText = messages[page.ErrorMessage]
		if data.ErrorText == "" {
			data.ErrorText = page.ErrorMessage
		}
	}
	return a.render("login.html", data)
}

type navItem struct {
	ID   string
	Name string
	URL  string
	// Count is only filled on the dashboard.
	Count int
}

type pageData struct {
	Title       string
	CompanyName string
	HomeURL     string
	// RootURL is the prefix for links; empty when mounted at "/".
	RootURL     string
	AssetsPath  string
	LogoutPath  string
	Principal   string
	Nav         []navItem

	ResourceID   string
	ResourceName string
	APIURL       string
	Properties   []Property
	Records      []Record
	Record       Record
	Total        int
	Page         int
	PerPage      int
	Body         template.HTML
}

func (a *Admin) newPageData(title string, principal any) pageData {
	nav := make([]navItem, 0, len(a.order))
	for _, r := range a.Resources() {
		nav = append(nav, navItem{ID: r.ID(), Name: r.Name(), URL: a.rootURL("/resources/" + r.ID())})
	}
	return pageData{
		Title:       title,
		CompanyName: a.options.Branding.CompanyName,
		HomeURL:     a.rootURL(""),
		RootURL:     strings.TrimSuffix(a.options.RootPath, "/"),
		AssetsPath:  a.rootURL(assetsPrefix),
		LogoutPath:  a.options.LogoutPath,
		Principal:   PrincipalLabel(principal),
		Nav:         nav,
	}
}

func (a *Admin) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
