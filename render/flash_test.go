package render

import (
	"strings"
	"testing"
)

func TestRenderFlashesOOBEmpty(t *testing.T) {
	if result := RenderFlashesOOB(nil); result != "" {
		t.Errorf("RenderFlashesOOB(nil) = %q, want empty string", result)
	}
}

func TestRenderFlashesOOB(t *testing.T) {
	flashes := []Flash{
		{Level: FlashSuccess, Message: "Form submitted"},
		{Level: FlashError, Message: "Please fix <2> fields"},
	}

	result := RenderFlashesOOB(flashes)

	for _, want := range []string{
		`<div hx-swap-oob="beforeend" id="toasts">`,
		`<div class="toast toast-success" data-auto-dismiss="3000" role="status">Form submitted</div>`,
		`<div class="toast toast-error" data-auto-dismiss="6000" role="alert">Please fix &lt;2&gt; fields</div>`,
	} {
		if !strings.Contains(result, want) {
			t.Errorf("missing %q in %s", want, result)
		}
	}
}

func TestParseFlashesRoundTrip(t *testing.T) {
	flashes := []Flash{
		{Level: FlashInfo, Message: "one"},
		{Level: FlashWarning, Message: "two"},
	}
	parsed := parseFlashesFromHTML("<p>before</p>" + RenderFlashesOOB(flashes))
	if len(parsed) != 2 {
		t.Fatalf("parsed %d flashes, want 2", len(parsed))
	}
	for i := range flashes {
		if parsed[i] != flashes[i] {
			t.Errorf("flash %d = %+v, want %+v", i, parsed[i], flashes[i])
		}
	}
}

func TestToastContainer(t *testing.T) {
	result, err := TestRender(ToastContainer())
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}
	if result.HTML != `<div aria-live="polite" class="toast-container" id="toasts"></div>` {
		t.Errorf("HTML = %q", result.HTML)
	}
}

func TestFlashesOOBComponent(t *testing.T) {
	result, err := TestRender(FlashesOOB([]Flash{{Level: FlashWarning, Message: "Still checking"}}))
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}
	if !result.HasFlash(FlashWarning, "Still checking") {
		t.Errorf("Flashes = %+v", result.Flashes)
	}
	if !result.HTMLContains(`data-auto-dismiss="6000"`) {
		t.Errorf("HTML = %s", result.HTML)
	}
}
