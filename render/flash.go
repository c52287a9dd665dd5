package render

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Flash levels for toast notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// ToastsID is the id of the element toasts are appended to.
const ToastsID = "toasts"

// Flash is a one-time notification, such as the outcome of a submit or an
// action.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// dismissAfter is how long a toast stays up, in milliseconds. Problems stay
// twice as long.
func (f Flash) dismissAfter() int {
	if f.Level == FlashError || f.Level == FlashWarning {
		return 6000
	}
	return 3000
}

// FlashesOOB appends flashes to the toast container out of band. Nothing
// is rendered without flashes.
func FlashesOOB(flashes []Flash) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if len(flashes) == 0 {
			return nil
		}
		w := &writer{w: out}
		w.open("div", templ.Attributes{"id": ToastsID, "hx-swap-oob": string(SwapBeforeEnd)})
		for _, f := range flashes {
			role := "status"
			if f.Level == FlashError {
				role = "alert"
			}
			w.open("div", templ.Attributes{
				"class":             "toast toast-" + f.Level,
				"role":              role,
				"data-auto-dismiss": strconv.Itoa(f.dismissAfter()),
			})
			w.text(f.Message)
			w.close("div")
		}
		w.close("div")
		return w.err
	})
}

// RenderFlashesOOB is FlashesOOB as a string, for handlers writing raw
// responses.
func RenderFlashesOOB(flashes []Flash) string {
	var buf bytes.Buffer
	if err := FlashesOOB(flashes).Render(context.Background(), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// ToastContainer is the target of flash swaps. Put it once in the page
// layout.
func ToastContainer() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.open("div", templ.Attributes{"id": ToastsID, "class": "toast-container", "aria-live": "polite"})
		w.close("div")
		return w.err
	})
}
