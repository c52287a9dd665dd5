package render

import (
	"context"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// writer accumulates markup and remembers the first write error.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *writer) text(s string) {
	w.raw(html.EscapeString(s))
}

// open writes a start tag. Attributes are written in key order so output is
// stable. Boolean attributes are written bare when true and omitted when
// false; empty string values are omitted.
func (w *writer) open(tag string, attrs templ.Attributes) {
	w.raw("<" + tag + renderAttrs(attrs) + ">")
}

func (w *writer) close(tag string) {
	w.raw("</" + tag + ">")
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err != nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

func renderAttrs(attrs templ.Attributes) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		switch v := attrs[k].(type) {
		case bool:
			if v {
				sb.WriteString(" " + k)
			}
		case string:
			if v != "" {
				sb.WriteString(" " + k + `="` + html.EscapeString(v) + `"`)
			}
		case nil:
		default:
			sb.WriteString(" " + k + `="` + html.EscapeString(fmt.Sprint(v)) + `"`)
		}
	}
	return sb.String()
}

// merge copies src into dst and returns dst.
func merge(dst templ.Attributes, src templ.Attributes) templ.Attributes {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func classes(names ...string) string {
	var parts []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}
