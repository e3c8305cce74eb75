// Package views holds the server-rendered pages. Each page is an embedded
// html/template set (layout plus page) exposed as a templ.Component.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/markdown"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome           = "home"
	pageBlogList       = "blog_list"
	pageBlogPost       = "blog_post"
	pageAdminAuth      = "admin_auth"
	pageAdminDashboard = "admin_dashboard"
	pageEditor         = "editor"
	pageNotFound       = "not_found"
	pageError          = "error"
)

var pages = mustParse(
	pageHome,
	pageBlogList,
	pageBlogPost,
	pageAdminAuth,
	pageAdminDashboard,
	pageEditor,
	pageNotFound,
	pageError,
)

var funcs = template.FuncMap{
	"markdown": renderMarkdown,
	"date":     formatDate,
	"join":     strings.Join,
	"tagURL":   TagURL,
	"year":     func() int { return time.Now().Year() },
}

func mustParse(names ...string) map[string]*template.Template {
	set := make(map[string]*template.Template, len(names))
	for _, name := range names {
		set[name] = template.Must(
			template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
				"templates/layout.html",
				"templates/"+name+".html",
			),
		)
	}
	return set
}

func page(name string, data any) templ.Component {
	return templ.FromGoHTML(pages[name], data)
}

// Site is the static site identity shown in every layout.
type Site struct {
	Name        string
	Description string
	URL         string
}

// Page carries the fields the layout reads on every page.
type Page struct {
	Site   Site
	CSRF   string
	Notice string
	Error  string
}

type HomePage struct {
	Page
	Profile   models.Profile
	Work      []models.Experience
	Education []models.Experience
	Contact   models.ContactMessage
}

type BlogListPage struct {
	Page
	Posts  []models.BlogPost
	Tags   []models.Tag
	Search string
	Tag    string
}

type BlogPostPage struct {
	Page
	Post        *models.BlogPost
	ReadingTime int
}

type AdminAuthPage struct {
	Page
	Email string
}

type AdminDashboardPage struct {
	Page
	Admin  models.Admin
	Posts  []models.BlogPost
	Stats  models.PostStats
	Search string
}

// EditorForm is the editor state; Tags is the comma separated tag list.
type EditorForm struct {
	Title         string
	Excerpt       string
	Content       string
	Tags          string
	CoverImageURL string
	Status        string
}

type EditorPage struct {
	Page
	IsNew  bool
	Action string
	Form   EditorForm
}

func Home(data HomePage) templ.Component                     { return page(pageHome, data) }
func BlogList(data BlogListPage) templ.Component             { return page(pageBlogList, data) }
func BlogPost(data BlogPostPage) templ.Component             { return page(pageBlogPost, data) }
func AdminAuth(data AdminAuthPage) templ.Component           { return page(pageAdminAuth, data) }
func AdminDashboard(data AdminDashboardPage) templ.Component { return page(pageAdminDashboard, data) }
func Editor(data EditorPage) templ.Component                 { return page(pageEditor, data) }
func NotFound(data Page) templ.Component                     { return page(pageNotFound, data) }
func ServerError(data Page) templ.Component                  { return page(pageError, data) }

// EditorFormFromPost fills the editor with an existing post.
func EditorFormFromPost(p *models.BlogPost) EditorForm {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}

	form := EditorForm{
		Title:   p.Title,
		Excerpt: p.ExcerptText(),
		Content: p.Content,
		Tags:    strings.Join(names, ", "),
		Status:  string(p.Status),
	}
	if p.CoverImageURL != nil {
		form.CoverImageURL = *p.CoverImageURL
	}

	return form
}

// TagURL links the public list filtered by tag, keeping the search term.
func TagURL(search, tag string) string {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if tag != "" {
		q.Set("tag", tag)
	}
	if len(q) == 0 {
		return "/blog"
	}
	return "/blog?" + q.Encode()
}

func renderMarkdown(md string) (template.HTML, error) {
	return templ.ToGoHTML(context.Background(), markdown.Component(md))
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t)
	default:
		return fmt.Sprint(v)
	}
}
