package render

import (
	"bytes"
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yuin/goldmark"
)

var markdownCache *lru.Cache[string, string]

func init() {
	cache, err := lru.New[string, string](1024)
	if err != nil {
		panic(err)
	}
	markdownCache = cache
}

// MarkdownHTML converts markdown to HTML. Raw HTML in the source is
// omitted. Results are cached.
func MarkdownHTML(src string) string {
	if cached, ok := markdownCache.Get(src); ok {
		return cached
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return html.EscapeString(src)
	}
	out := buf.String()
	markdownCache.Add(src, out)
	return out
}

// inlineMarkdown renders a single paragraph without its <p> wrapper.
func inlineMarkdown(src string) string {
	out := strings.TrimSpace(MarkdownHTML(src))
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") &&
		strings.Count(out, "<p>") == 1 {
		return out[len("<p>") : len(out)-len("</p>")]
	}
	return out
}

// Markdown renders src inside the given tag. Inline tags such as span get
// the content of a single paragraph without the paragraph itself.
func Markdown(src, tag string, class string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if tag == "" {
			tag = "div"
		}
		content := MarkdownHTML(src)
		if tag != "div" {
			content = inlineMarkdown(src)
		}
		var sb strings.Builder
		sb.WriteString("<" + tag)
		if class != "" {
			sb.WriteString(` class="` + html.EscapeString(class) + `"`)
		}
		sb.WriteString(">")
		sb.WriteString(content)
		sb.WriteString("</" + tag + ">")
		_, err := io.WriteString(w, sb.String())
		return err
	})
}
