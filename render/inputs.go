package render

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/oasisprotocol/hxform"
)

// EnterParam is sent as "true" with a text value when the user pressed Enter.
const EnterParam = "_enter"

// valueWire posts the control's value and swaps the returned feedback.
func valueWire(f hxform.FieldLike, opts Options, trigger string) templ.Attributes {
	attrs := WireAttrs(opts.endpoint(f, OpValue), http.MethodPost, nil)
	if len(attrs) == 0 {
		return attrs
	}
	attrs = Target(attrs, "#"+FeedbackID(f), SwapOuter)
	attrs["hx-trigger"] = trigger
	return attrs
}

func controlAttrs(f hxform.FieldLike) templ.Attributes {
	attrs := templ.Attributes{
		"id":               InputID(f),
		"name":             f.Name(),
		"disabled":         !f.IsEnabled(),
		"title":            whyDisabled(f),
		"aria-describedby": FeedbackID(f),
	}
	if f.HasProblems() {
		attrs["aria-invalid"] = "true"
	}
	return attrs
}

// TextInput renders a text or password input.
func TextInput(f *hxform.TextField, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		attrs := controlAttrs(f)
		attrs["type"] = f.InputType()
		attrs["class"] = "hxf-input"
		attrs["value"] = f.Value()
		attrs["placeholder"] = f.Placeholder()
		attrs["autofocus"] = f.AutoFocus()
		if f.MaxLength() > 0 {
			attrs["maxlength"] = strconv.Itoa(f.MaxLength())
		}
		wire := valueWire(f, opts, "input changed delay:300ms, keyup[key=='Enter']")
		if len(wire) > 0 {
			wire["hx-vals"] = `js:{"` + EnterParam + `": event.type === "keyup"}`
		}
		w.open("input", merge(attrs, wire))
		return w.err
	})
}

// BoolInput renders a checkbox, or a switch if the field prefers one, with
// its label.
func BoolInput(f *hxform.BoolField, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		attrs := controlAttrs(f)
		attrs["type"] = "checkbox"
		attrs["value"] = "on"
		attrs["checked"] = f.Value()
		attrs["class"] = "hxf-checkbox"
		if f.PreferredWidget() == hxform.WidgetSwitch {
			attrs["role"] = "switch"
			attrs["class"] = "hxf-switch"
		}
		w.open("label", templ.Attributes{"class": "hxf-check"})
		w.open("input", merge(attrs, valueWire(f, opts, "change")))
		w.open("span", templ.Attributes{"class": "hxf-check-label"})
		w.text(f.Label())
		w.close("span")
		w.close("label")
		return w.err
	})
}

// DateInput renders a date, time or datetime-local input.
func DateInput(f *hxform.DateField, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		layout := f.Type().Layout()
		attrs := controlAttrs(f)
		attrs["type"] = string(f.Type())
		attrs["class"] = "hxf-input"
		attrs["value"] = f.FormValue()
		attrs["min"] = formatBound(f.MinDate(), layout)
		attrs["max"] = formatBound(f.MaxDate(), layout)
		w.open("input", merge(attrs, valueWire(f, opts, "change")))
		return w.err
	})
}

func formatBound(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// SelectInput renders a select with one option per visible choice.
func SelectInput(f hxform.Selector, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		attrs := controlAttrs(f)
		attrs["class"] = "hxf-select"
		current := f.RenderValue()
		w.open("select", merge(attrs, valueWire(f, opts, "change")))
		for _, c := range f.Choices() {
			title := c.WhyDisabled
			if title == "" {
				title = c.Description
			}
			w.open("option", templ.Attributes{
				"value":    c.Key,
				"selected": c.Key == current,
				"disabled": !c.Enabled,
				"title":    title,
				"class":    c.Class,
			})
			w.text(c.Label)
			w.close("option")
		}
		w.close("select")
		return w.err
	})
}

// LabelOutput renders the content of a read-only label field as markdown.
func LabelOutput(f hxform.Display) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		if caption := f.Label(); caption != "" {
			w.open("span", templ.Attributes{"class": "hxf-label"})
			w.text(caption)
			w.close("span")
		}
		w.component(ctx, Markdown(f.Content(), f.TagName(), classes(append([]string{"hxf-output"}, f.Classes()...)...)))
		return w.err
	})
}

// ActionButton renders the button of an action, and the confirmation
// dialog while the action waits for one.
func ActionButton(f hxform.Trigger, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		pending := f.IsPending()
		attrs := templ.Attributes{
			"id":       f.ID() + "-button",
			"type":     "button",
			"name":     f.Name(),
			"disabled": !f.IsEnabled() || pending,
			"class": classes(
				"hxf-button",
				prefixed("hxf-button-", f.Variant()),
				prefixed("hxf-size-", f.Size()),
				prefixed("hxf-color-", f.Color()),
			),
		}
		if pending {
			attrs["aria-busy"] = "true"
		}
		wire := Target(WireAttrs(opts.endpoint(f, OpExecute), http.MethodPost, nil), "#"+f.ID(), SwapOuter)
		button := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
			bw := &writer{w: out}
			bw.open("button", merge(attrs, wire))
			bw.text(f.Label())
			bw.close("button")
			return bw.err
		})
		w.component(ctx, Tooltip(whyDisabled(f), button))
		if req := f.ConfirmationNeeded(); req != nil {
			w.component(ctx, ConfirmDialog(f, *req, opts))
		}
		return w.err
	})
}

func prefixed(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}

// ConfirmDialog asks the user to confirm a pending action.
func ConfirmDialog(f hxform.Trigger, req hxform.ConfirmationRequest, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		attrs := templ.Attributes{
			"id":    f.ID() + "-confirm",
			"open":  true,
			"class": classes("hxf-confirm", prefixed("hxf-confirm-", req.Variant)),
		}
		if opts.Animation.ShouldAnimate(ReasonConfirmation) {
			attrs["data-animate"] = ReasonConfirmation
		}
		w.open("dialog", attrs)
		w.open("h2", templ.Attributes{"class": "hxf-confirm-title"})
		w.text(req.Title)
		w.close("h2")
		if req.Description != "" {
			w.component(ctx, Markdown(req.Description, "div", "hxf-confirm-description"))
		}
		w.open("div", templ.Attributes{"class": "hxf-confirm-actions"})
		deny := Target(WireAttrs(opts.endpoint(f, OpDeny), http.MethodPost, nil), "#"+f.ID(), SwapOuter)
		w.open("button", merge(templ.Attributes{"type": "button", "class": "hxf-button hxf-button-outline"}, deny))
		w.text(req.CancelLabel)
		w.close("button")
		confirm := Target(WireAttrs(opts.endpoint(f, OpConfirm), http.MethodPost, nil), "#"+f.ID(), SwapOuter)
		w.open("button", merge(templ.Attributes{"type": "button", "class": "hxf-button", "autofocus": true}, confirm))
		w.text(req.OKLabel)
		w.close("button")
		w.close("div")
		w.close("dialog")
		return w.err
	})
}
