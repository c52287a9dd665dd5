package render

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/oasisprotocol/hxform"
)

// decorated is the presentation surface shared by all fields built on
// hxform.InputField.
type decorated interface {
	Compact() bool
	ContainerClass() string
	ExpandHorizontally() bool
	IndicateValidationSuccess() bool
	Placeholder() string
	IsRequired() bool
	WhyDisabled() string
}

// Field renders a field inside its container element. The container id is
// the field id, so any field can be re-rendered in place or pushed out of
// band. Invisible fields render an empty hidden container.
func Field(f hxform.FieldLike, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		attrs := templ.Attributes{"id": f.ID(), "data-kind": f.Kind().String()}
		if opts.OOB {
			attrs["hx-swap-oob"] = "true"
		}
		if !f.IsVisible() {
			attrs["class"] = "hxf-field hxf-hidden"
			attrs["hidden"] = true
			w.open("div", attrs)
			w.close("div")
			return w.err
		}

		d, _ := f.(decorated)
		var compact, expand bool
		var containerClass string
		if d != nil {
			compact, expand, containerClass = d.Compact(), d.ExpandHorizontally(), d.ContainerClass()
		}
		attrs["class"] = classes(
			"hxf-field",
			"hxf-"+f.Kind().String(),
			flagClass(compact, "hxf-compact"),
			flagClass(expand, "hxf-expand"),
			flagClass(!f.IsEnabled(), "hxf-disabled"),
			containerClass,
		)
		if opts.Animation.ShouldAnimate(ReasonVisibility) {
			attrs["data-animate"] = ReasonVisibility
		}

		inner := opts
		inner.OOB = false

		w.open("div", attrs)
		switch v := f.(type) {
		case hxform.Trigger:
			w.component(ctx, ActionButton(v, inner))
		case hxform.Display:
			w.component(ctx, LabelOutput(v))
		case *hxform.BoolField:
			w.component(ctx, BoolInput(v, inner))
		case *hxform.TextField:
			w.component(ctx, FieldLabel(f, compact))
			w.component(ctx, TextInput(v, inner))
		case *hxform.DateField:
			w.component(ctx, FieldLabel(f, compact))
			w.component(ctx, DateInput(v, inner))
		case hxform.Selector:
			w.component(ctx, FieldLabel(f, compact))
			w.component(ctx, SelectInput(v, inner))
		default:
			w.open("div", templ.Attributes{"class": "hxf-missing"})
			w.text("Missing " + f.Kind().String() + " field for " + f.Name())
			w.close("div")
		}
		if desc := f.Description(); desc != "" && !compact {
			w.component(ctx, Markdown(desc, "div", "hxf-description"))
		}
		w.component(ctx, Feedback(f, inner))
		w.close("div")
		return w.err
	})
}

func flagClass(on bool, class string) string {
	if on {
		return class
	}
	return ""
}

// Group renders a group of fields. Rows are laid out horizontally.
func Group(g hxform.Group, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		renderGroup(ctx, w, g, opts)
		return w.err
	})
}

func renderGroup(ctx context.Context, w *writer, g hxform.Group, opts Options) {
	switch v := g.(type) {
	case hxform.FieldLike:
		w.component(ctx, Field(v, opts))
	case hxform.Row:
		w.open("div", templ.Attributes{"class": "hxf-row"})
		for _, f := range v {
			w.component(ctx, Field(f, opts))
		}
		w.close("div")
	case hxform.FieldArray:
		w.open("div", templ.Attributes{"class": "hxf-group"})
		for _, child := range v {
			renderGroup(ctx, w, child, opts)
		}
		w.close("div")
	case hxform.FieldMap:
		w.open("div", templ.Attributes{"class": "hxf-group"})
		for _, key := range v.Keys() {
			w.component(ctx, Field(v[key], opts))
		}
		w.close("div")
	default:
		for _, f := range g.Flatten() {
			w.component(ctx, Field(f, opts))
		}
	}
}

// FieldLabel renders the caption of an input. Compact fields keep it for
// screen readers only.
func FieldLabel(f hxform.FieldLike, compact bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if f.Label() == "" {
			return nil
		}
		w := &writer{w: out}
		w.open("label", templ.Attributes{
			"for":   InputID(f),
			"class": classes("hxf-label", flagClass(compact, "sr-only")),
		})
		w.text(f.Label())
		if d, ok := f.(decorated); ok && d.IsRequired() {
			w.raw(`<span class="hxf-required" aria-hidden="true">*</span>`)
		}
		w.close("label")
		return w.err
	})
}

// InputID is the id of a field's form control.
func InputID(f hxform.FieldLike) string {
	return f.ID() + "-input"
}

func whyDisabled(f hxform.FieldLike) string {
	if d, ok := f.(decorated); ok {
		return d.WhyDisabled()
	}
	return ""
}
