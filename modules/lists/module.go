package lists

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/superlists/binder"
	"github.com/dmitrymomot/superlists/handler"
	"github.com/dmitrymomot/superlists/pkg/flash"
	"github.com/dmitrymomot/superlists/pkg/session"
	"github.com/dmitrymomot/superlists/pkg/validator"
)

const newListPath = "/lists/new"

type FlashReader interface {
	Pop(w http.ResponseWriter, r *http.Request) []flash.Message
}

type NewListRequest struct {
	Text string `form:"text"`
}

type ListRequest struct {
	ListID int64 `path:"id"`
}

type AddItemRequest struct {
	ListID int64  `path:"id"`
	Text   string `form:"text"`
}

type ShareRequest struct {
	ListID int64  `path:"id"`
	Sharee string `form:"sharee"`
}

type MyListsRequest struct {
	Email string `path:"email"`
}

// Module serves the home page and the /lists routes.
type Module struct {
	svc          *Service
	views        Views
	flashes      FlashReader
	log          *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
}

type ModuleOption func(*Module)

func WithModuleLogger(l *slog.Logger) ModuleOption {
	return func(m *Module) {
		if l != nil {
			m.log = l
		}
	}
}

func WithErrorHandler(h handler.ErrorHandler[handler.Context]) ModuleOption {
	return func(m *Module) { m.errorHandler = h }
}

func NewModule(svc *Service, views Views, flashes FlashReader, opts ...ModuleOption) *Module {
	m := &Module{
		svc:     svc,
		views:   views,
		flashes: flashes,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(m.home,
		handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler),
	))

	r.Route("/lists", func(r chi.Router) {
		r.Post("/new", handler.Wrap(m.newList,
			handler.WithBinders[handler.Context, NewListRequest](binder.Form()),
			handler.WithErrorHandler[handler.Context, NewListRequest](m.errorHandler),
		))
		r.Get("/{id:[0-9]+}/", handler.Wrap(m.viewList,
			handler.WithBinders[handler.Context, ListRequest](binder.Path()),
			handler.WithErrorHandler[handler.Context, ListRequest](m.errorHandler),
		))
		r.Post("/{id:[0-9]+}/", handler.Wrap(m.addItem,
			handler.WithBinders[handler.Context, AddItemRequest](binder.Path(), binder.Form()),
			handler.WithErrorHandler[handler.Context, AddItemRequest](m.errorHandler),
		))
		r.Post("/{id:[0-9]+}/share", handler.Wrap(m.share,
			handler.WithBinders[handler.Context, ShareRequest](binder.Path(), binder.Form()),
			handler.WithErrorHandler[handler.Context, ShareRequest](m.errorHandler),
		))
		r.Get("/users/{email}/", handler.Wrap(m.myLists,
			handler.WithBinders[handler.Context, MyListsRequest](binder.Path()),
			handler.WithErrorHandler[handler.Context, MyListsRequest](m.errorHandler),
		))
	})

	return r
}

func (m *Module) home(ctx handler.Context, _ struct{}) handler.Response {
	return handler.Templ(m.views.HomePage(HomePageParams{
		Page: m.page(ctx),
		Form: ItemFormParams{Action: newListPath},
	}))
}

func (m *Module) newList(ctx handler.Context, req NewListRequest) handler.Response {
	owner, _ := session.IdentityFromContext(ctx)

	l, err := m.svc.CreateList(ctx, req.Text, owner)
	if err != nil {
		if msg, ok := fieldError(err, "text"); ok {
			form := ItemFormParams{Action: newListPath, Text: req.Text, Error: msg}
			return handler.TemplPartial(
				m.views.ItemForm(form),
				m.views.HomePage(HomePageParams{Page: m.page(ctx), Form: form}),
				handler.WithTarget("#"+ItemFormID),
			)
		}
		return handler.ErrorResponse(err)
	}
	return handler.Redirect(l.URL())
}

func (m *Module) viewList(ctx handler.Context, req ListRequest) handler.Response {
	l, err := m.svc.GetList(ctx, req.ListID)
	if err != nil {
		return handler.ErrorResponse(notFound(err))
	}
	return handler.Templ(m.views.ListPage(m.listPage(ctx, l)))
}

func (m *Module) addItem(ctx handler.Context, req AddItemRequest) handler.Response {
	l, err := m.svc.GetList(ctx, req.ListID)
	if err != nil {
		return handler.ErrorResponse(notFound(err))
	}

	if _, err := m.svc.AddItem(ctx, l.ID, req.Text); err != nil {
		if msg, ok := fieldError(err, "text"); ok {
			params := m.listPage(ctx, l)
			params.Form.Text = req.Text
			params.Form.Error = msg
			return handler.TemplPartial(
				m.views.ItemForm(params.Form),
				m.views.ListPage(params),
				handler.WithTarget("#"+ItemFormID),
			)
		}
		return handler.ErrorResponse(notFound(err))
	}
	return handler.Redirect(l.URL())
}

func (m *Module) share(ctx handler.Context, req ShareRequest) handler.Response {
	l, err := m.svc.GetList(ctx, req.ListID)
	if err != nil {
		return handler.ErrorResponse(notFound(err))
	}

	if err := m.svc.ShareList(ctx, l.ID, req.Sharee); err != nil {
		if msg, ok := fieldError(err, "sharee"); ok {
			params := m.listPage(ctx, l)
			params.Share.Sharee = req.Sharee
			params.Share.Error = msg
			return handler.TemplPartial(
				m.views.ShareForm(params.Share),
				m.views.ListPage(params),
				handler.WithTarget("#"+ShareFormID),
			)
		}
		return handler.ErrorResponse(notFound(err))
	}
	return handler.Redirect(l.URL())
}

func (m *Module) myLists(ctx handler.Context, req MyListsRequest) handler.Response {
	email, err := url.PathUnescape(req.Email)
	if err != nil {
		return handler.ErrorResponse(handler.ErrNotFound)
	}

	owned, err := m.svc.ListsForOwner(ctx, email)
	if err != nil {
		return handler.ErrorResponse(err)
	}
	shared, err := m.svc.ListsSharedWith(ctx, email)
	if err != nil {
		return handler.ErrorResponse(err)
	}

	return handler.Templ(m.views.MyListsPage(MyListsPageParams{
		Page:   m.page(ctx),
		Email:  email,
		Owned:  owned,
		Shared: shared,
	}))
}

func (m *Module) page(ctx handler.Context) Page {
	identity, _ := session.IdentityFromContext(ctx)
	return Page{
		Identity: identity,
		Flashes:  m.flashes.Pop(ctx.ResponseWriter(), ctx.Request()),
	}
}

func (m *Module) listPage(ctx handler.Context, l List) ListPageParams {
	return ListPageParams{
		Page:  m.page(ctx),
		List:  l,
		Form:  ItemFormParams{Action: l.URL()},
		Share: ShareFormParams{Action: l.URL() + "share"},
	}
}

func fieldError(err error, field string) (string, bool) {
	msgs := validator.ExtractValidationErrors(err).Get(field)
	if len(msgs) == 0 {
		return "", false
	}
	return msgs[0], true
}

func notFound(err error) error {
	if errors.Is(err, ErrListNotFound) {
		return errors.Join(err, handler.ErrNotFound)
	}
	return err
}
