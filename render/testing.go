package render

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// TestResult is rendered output with helpers for assertions.
type TestResult struct {
	HTML            string
	StatusCode      int
	Headers         http.Header
	Cookies         []*http.Cookie
	TriggeredEvents []string
	Flashes         []Flash
}

// TestRender renders a component for a unit test.
//
//	result, err := render.TestRender(render.Field(email, render.Options{}))
//	if !result.HTMLContains(`type="text"`) {
//	    t.Fatal("missing input")
//	}
func TestRender(c templ.Component) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), c)
}

// TestRenderWithContext renders a component with a custom context.
func TestRenderWithContext(ctx context.Context, c templ.Component) (*TestResult, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, err
	}
	html := buf.String()
	return &TestResult{
		HTML:       html,
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
		Flashes:    parseFlashesFromHTML(html),
	}, nil
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HasEvent checks if an event was triggered.
func (r *TestResult) HasEvent(event string) bool {
	for _, e := range r.TriggeredEvents {
		if e == event {
			return true
		}
	}
	return false
}

// HasFlash checks for a flash with the given level and message.
func (r *TestResult) HasFlash(level, message string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && f.Message == message {
			return true
		}
	}
	return false
}

// HasFlashLevel checks for any flash with the given level.
func (r *TestResult) HasFlashLevel(level string) bool {
	for _, f := range r.Flashes {
		if f.Level == level {
			return true
		}
	}
	return false
}

// IsOK reports a 200 response.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus reports whether the response had the given status code.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// GetHeader returns a response header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// Cookie returns the cookie set by the response under name.
func (r *TestResult) Cookie(name string) (*http.Cookie, bool) {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// parseTriggerHeader returns the event names of an HX-Trigger value, which
// is either a JSON object keyed by event or a comma-separated list.
func parseTriggerHeader(trigger string) []string {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return nil
	}
	if strings.HasPrefix(trigger, "{") {
		var events map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trigger), &events); err != nil {
			return nil
		}
		names := make([]string, 0, len(events))
		for name := range events {
			names = append(names, name)
		}
		return names
	}
	var events []string
	for _, p := range strings.Split(trigger, ",") {
		if p = strings.TrimSpace(p); p != "" {
			events = append(events, p)
		}
	}
	return events
}

// parseFlashesFromHTML extracts toasts rendered by RenderFlashesOOB.
func parseFlashesFromHTML(html string) []Flash {
	const prefix = `<div class="toast toast-`
	var flashes []Flash
	rest := html
	for {
		start := strings.Index(rest, prefix)
		if start == -1 {
			return flashes
		}
		rest = rest[start+len(prefix):]
		levelEnd := strings.IndexByte(rest, '"')
		tagEnd := strings.IndexByte(rest, '>')
		if levelEnd == -1 || tagEnd == -1 {
			return flashes
		}
		level := rest[:levelEnd]
		rest = rest[tagEnd+1:]
		end := strings.Index(rest, "</div>")
		if end == -1 {
			return flashes
		}
		flashes = append(flashes, Flash{Level: level, Message: rest[:end]})
		rest = rest[end:]
	}
}

// TestRequestBuilder builds an HTMX request for a handler under test.
//
//	result := render.NewTestRequest("POST", valueURL).
//	    WithFormData("email", "a@b.c").
//	    WithCookie(session).
//	    Execute(handler)
type TestRequestBuilder struct {
	method   string
	url      string
	form     url.Values
	headers  http.Header
	cookies  []*http.Cookie
	ctx      context.Context
	withHTMX bool
}

// NewTestRequest starts a request. HX-Request is set unless WithoutHTMX is
// called.
func NewTestRequest(method, target string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:   method,
		url:      target,
		form:     url.Values{},
		headers:  http.Header{},
		ctx:      context.Background(),
		withHTMX: true,
	}
}

// WithFormData sets a form value.
func (b *TestRequestBuilder) WithFormData(key, value string) *TestRequestBuilder {
	b.form.Set(key, value)
	return b
}

// WithFormValues sets several form values.
func (b *TestRequestBuilder) WithFormValues(data map[string]string) *TestRequestBuilder {
	for k, v := range data {
		b.form.Set(k, v)
	}
	return b
}

// WithHeader adds a request header.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers.Set(key, value)
	return b
}

// WithCookie sends a cookie, typically one set by an earlier response.
// A nil cookie is ignored.
func (b *TestRequestBuilder) WithCookie(c *http.Cookie) *TestRequestBuilder {
	if c != nil {
		b.cookies = append(b.cookies, c)
	}
	return b
}

// WithContext sets the request context.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// WithoutHTMX sends the request the way a plain browser navigation would.
func (b *TestRequestBuilder) WithoutHTMX() *TestRequestBuilder {
	b.withHTMX = false
	return b
}

// Execute serves the request with h and records the response.
func (b *TestRequestBuilder) Execute(h http.Handler) *TestResult {
	req := httptest.NewRequest(b.method, b.url, strings.NewReader(b.form.Encode()))
	req = req.WithContext(b.ctx)
	if len(b.form) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.withHTMX {
		req.Header.Set("HX-Request", "true")
	}
	for k, vs := range b.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
		Cookies:    rec.Result().Cookies(),
	}
	result.TriggeredEvents = parseTriggerHeader(rec.Header().Get("HX-Trigger"))
	result.Flashes = parseFlashesFromHTML(result.HTML)
	return result
}
