package views_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/superlists/handler"
	"github.com/dmitrymomot/superlists/internal/views"
	"github.com/dmitrymomot/superlists/modules/lists"
	"github.com/dmitrymomot/superlists/pkg/flash"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestHomePage(t *testing.T) {
	t.Parallel()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		html := render(t, views.HomePage(lists.HomePageParams{
			Form: lists.ItemFormParams{Action: "/lists/new"},
		}))

		assert.Contains(t, html, "Start a new To-Do list")
		assert.Contains(t, html, `action="/accounts/send_login_email"`)
		assert.Contains(t, html, `name="email"`)
		assert.Contains(t, html, `id="item-form"`)
		assert.Contains(t, html, `action="/lists/new"`)
		assert.NotContains(t, html, "Log out")
	})

	t.Run("logged in with flashes", func(t *testing.T) {
		t.Parallel()
		html := render(t, views.HomePage(lists.HomePageParams{
			Page: lists.Page{
				Identity: "edith@example.com",
				Flashes:  []flash.Message{{Level: flash.Success, Text: "Check your email"}},
			},
		}))

		assert.Contains(t, html, "Logged in as edith@example.com")
		assert.Contains(t, html, "Log out")
		assert.Contains(t, html, `href="/lists/users/edith@example.com/"`)
		assert.Contains(t, html, `class="alert alert-success"`)
		assert.Contains(t, html, "Check your email")
		assert.NotContains(t, html, `action="/accounts/send_login_email"`)
	})
}

func TestListPage(t *testing.T) {
	t.Parallel()

	list := lists.List{
		ID:         7,
		OwnerEmail: "owner@example.com",
		Items: []lists.Item{
			{ID: 1, Text: "Buy peacock feathers"},
			{ID: 2, Text: "Use <b>feathers</b> to make a fly"},
		},
		SharedWith: []string{"friend@example.com"},
	}
	html := render(t, views.ListPage(lists.ListPageParams{
		List:  list,
		Form:  lists.ItemFormParams{Action: list.URL()},
		Share: lists.ShareFormParams{Action: list.URL() + "share"},
	}))

	assert.Contains(t, html, `id="id_list_table"`)
	assert.Contains(t, html, "1: Buy peacock feathers")
	assert.Contains(t, html, "2: Use &lt;b&gt;feathers&lt;/b&gt; to make a fly")
	assert.Contains(t, html, `<span id="id_list_owner">owner@example.com</span>`)
	assert.Contains(t, html, "friend@example.com")
	assert.Contains(t, html, `name="sharee"`)
	assert.Contains(t, html, `action="/lists/7/share"`)
	assert.Contains(t, html, "<title>To-Do lists | Buy peacock feathers</title>")
}

func TestListPageAnonymousList(t *testing.T) {
	t.Parallel()

	html := render(t, views.ListPage(lists.ListPageParams{
		List: lists.List{ID: 1, Items: []lists.Item{{ID: 1, Text: "x"}}},
	}))
	assert.NotContains(t, html, "id_list_owner")
}

func TestMyListsPage(t *testing.T) {
	t.Parallel()

	html := render(t, views.MyListsPage(lists.MyListsPageParams{
		Page:  lists.Page{Identity: "a@b.com"},
		Email: "a@b.com",
		Owned: []lists.List{{ID: 3, Items: []lists.Item{{Text: "Reticulate splines"}}}},
		Shared: []lists.List{{
			ID: 4, OwnerEmail: "c@d.com", Items: []lists.Item{{Text: "Shared one"}},
		}},
	}))

	assert.Contains(t, html, "My Lists")
	assert.Contains(t, html, `<a href="/lists/3/">Reticulate splines</a>`)
	assert.Contains(t, html, "Lists shared with me")
	assert.Contains(t, html, `<a href="/lists/4/">Shared one</a> (c@d.com)`)
}

func TestForms(t *testing.T) {
	t.Parallel()

	html := render(t, views.ItemForm(lists.ItemFormParams{
		Action: "/lists/1/",
		Text:   "dup",
		Error:  lists.DuplicateItemMessage,
	}))
	assert.Contains(t, html, `id="item-form"`)
	assert.Contains(t, html, `value="dup"`)
	assert.Contains(t, html, "is-invalid")
	assert.Contains(t, html, "has-error")
	assert.NotContains(t, html, "<html")

	html = render(t, views.ShareForm(lists.ShareFormParams{Action: "/lists/1/share"}))
	assert.Contains(t, html, `id="share-form"`)
	assert.NotContains(t, html, "is-invalid")
}

func TestErrorViews(t *testing.T) {
	t.Parallel()

	html := render(t, views.ErrorPage(handler.ErrorPageParams{
		Error: "Not Found", StatusCode: 404, RequestID: "req-1",
	}))
	assert.Contains(t, html, "<h1>404</h1>")
	assert.Contains(t, html, "Not Found")
	assert.Contains(t, html, "Request ID: req-1")

	html = render(t, views.ErrorToast(handler.ErrorToastParams{Message: "Slow down", Type: "warning"}))
	assert.Equal(t, `<div class="toast toast-warning" role="alert">Slow down</div>`, html)
}

func TestListsViewsComplete(t *testing.T) {
	t.Parallel()

	v := views.Lists()
	assert.NotNil(t, v.HomePage)
	assert.NotNil(t, v.ListPage)
	assert.NotNil(t, v.MyListsPage)
	assert.NotNil(t, v.ItemForm)
	assert.NotNil(t, v.ShareForm)

	cfg := views.ErrorHandlerConfig()
	assert.NotNil(t, cfg.ErrorPage)
	assert.NotNil(t, cfg.ErrorToast)
}
