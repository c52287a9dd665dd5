package hxformecho

import (
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/oasisprotocol/hxform/render"
)

// FieldsID is the id of the element holding the rendered fields. Submit
// responses replace its content.
const FieldsID = "hxform-fields"

// formBody renders the form with its submit button. The websocket
// connection delivers updates that finish after a request returned.
func (s *Server) formBody(sess *session) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		submitLabel := sess.form.SubmitLabel
		if submitLabel == "" {
			submitLabel = "Submit"
		}
		if _, err := io.WriteString(w, `<form id="hxform" hx-ext="ws" ws-connect="`+html.EscapeString(s.Path()+"/ws")+
			`" hx-post="`+html.EscapeString(s.Path()+"/submit")+
			`" hx-target="#`+FieldsID+`" hx-swap="innerHTML"><div id="`+FieldsID+`">`); err != nil {
			return err
		}
		if err := render.Group(sess.form.Fields, s.renderOptions(sess)).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</div><button type="submit" class="hxf-button hxf-submit">`+
			html.EscapeString(submitLabel)+`</button></form>`); err != nil {
			return err
		}
		return render.ToastContainer().Render(ctx, w)
	})
}

func defaultLayout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+html.EscapeString(title)+`</title>`+
			`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`+
			`<script src="https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"></script>`+
			`</head><body><main>`); err != nil {
			return err
		}
		if title != "" {
			if _, err := io.WriteString(w, `<h1>`+html.EscapeString(title)+`</h1>`); err != nil {
				return err
			}
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
