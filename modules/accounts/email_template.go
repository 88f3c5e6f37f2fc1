package accounts

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func loginEmailHTML(link string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		href := templ.EscapeString(link)
		_, err := io.WriteString(w, `<p>Use this link to log in:</p><p><a href="`+href+`">`+href+`</a></p>`)
		return err
	})
}
