// Package handler turns typed handler functions into http.HandlerFunc.
//
// A HandlerFunc receives a Context and a request struct filled by binders
// and returns a Response. Responses adapt to DataStar requests: templ
// components are sent as element patches and redirects as SSE redirect
// events, while regular requests get full HTML and 303 redirects.
//
//	type addItemRequest struct {
//		ListID int64  `path:"id"`
//		Text   string `form:"text"`
//	}
//
//	r.Post("/lists/{id}/", handler.Wrap(m.addItem,
//		handler.WithBinders[handler.Context, addItemRequest](binder.Path(), binder.Form()),
//		handler.WithErrorHandler[handler.Context, addItemRequest](errorHandler),
//	))
//
// Errors returned through HTTPError and ValidationError are classified by
// the handler built with NewErrorHandler, which logs them with the request
// id and renders an error page or toast.
package handler
