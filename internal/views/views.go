// Package views renders the application's HTML. Templates are embedded
// and exposed as templ components so handlers treat them like any other
// component.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/superlists/handler"
	"github.com/dmitrymomot/superlists/modules/lists"
)

//go:embed templates/*.html
var templatesFS embed.FS

var funcs = template.FuncMap{
	"inc":        func(i int) int { return i + 1 },
	"pathEscape": url.PathEscape,
}

var (
	base = template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS,
		"templates/layout.html", "templates/forms.html"))

	homePage    = page("home.html")
	listPage    = page("list.html")
	myListsPage = page("my_lists.html")

	errorTemplates = template.Must(template.New("").ParseFS(templatesFS, "templates/error.html"))
)

// page clones the layout so each page can fill its blocks independently.
func page(file string) *template.Template {
	t := template.Must(base.Clone())
	return template.Must(t.ParseFS(templatesFS, "templates/"+file))
}

func component(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, name, data)
	})
}

func HomePage(p lists.HomePageParams) templ.Component {
	return component(homePage, "layout", p)
}

func ListPage(p lists.ListPageParams) templ.Component {
	return component(listPage, "layout", p)
}

func MyListsPage(p lists.MyListsPageParams) templ.Component {
	return component(myListsPage, "layout", p)
}

func ItemForm(p lists.ItemFormParams) templ.Component {
	return component(base, "item_form", p)
}

func ShareForm(p lists.ShareFormParams) templ.Component {
	return component(base, "share_form", p)
}

func ErrorPage(p handler.ErrorPageParams) templ.Component {
	return component(errorTemplates, "error_page", p)
}

func ErrorToast(p handler.ErrorToastParams) templ.Component {
	return component(errorTemplates, "error_toast", p)
}

// Lists returns the page set used by the lists module.
func Lists() lists.Views {
	return lists.Views{
		HomePage:    HomePage,
		ListPage:    ListPage,
		MyListsPage: MyListsPage,
		ItemForm:    ItemForm,
		ShareForm:   ShareForm,
	}
}

// ErrorHandlerConfig wires the error page and toast into the handler
// package's error handler.
func ErrorHandlerConfig() handler.ErrorHandlerConfig {
	return handler.ErrorHandlerConfig{
		ErrorPage:  ErrorPage,
		ErrorToast: ErrorToast,
	}
}
