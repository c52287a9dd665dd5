package render

import (
	"context"
	"io"
	"sort"
	"strconv"

	"github.com/a-h/templ"

	"github.com/oasisprotocol/hxform"
)

// FeedbackID is the id of the element holding a field's messages and
// validation status. Value updates swap only this element.
func FeedbackID(f hxform.FieldLike) string {
	return f.ID() + "-feedback"
}

// Feedback renders the validation status and messages of a field.
func Feedback(f hxform.FieldLike, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		snap := f.Snapshot()
		attrs := templ.Attributes{
			"id":        FeedbackID(f),
			"class":     "hxf-feedback",
			"aria-live": "polite",
		}
		if opts.OOB {
			attrs["hx-swap-oob"] = "true"
		}
		w.open("div", attrs)
		w.component(ctx, StatusIndicator(snap, indicatesSuccess(f)))
		for _, location := range sortedLocations(snap.Messages) {
			w.component(ctx, MessageList(location, snap.Messages[location], opts.Animation))
		}
		w.close("div")
		return w.err
	})
}

func indicatesSuccess(f hxform.FieldLike) bool {
	if d, ok := f.(decorated); ok {
		return d.IndicateValidationSuccess()
	}
	return false
}

// sortedLocations puts the root location first and the rest in name order.
func sortedLocations(messages hxform.AllMessages) []string {
	locations := make([]string, 0, len(messages))
	for loc, msgs := range messages {
		if len(msgs) > 0 {
			locations = append(locations, loc)
		}
	}
	sort.Slice(locations, func(i, j int) bool {
		if locations[i] == hxform.RootLocation {
			return true
		}
		if locations[j] == hxform.RootLocation {
			return false
		}
		return locations[i] < locations[j]
	})
	return locations
}

// StatusIndicator shows a pending validation with its status message and
// progress, or a success mark once the field validated without problems.
func StatusIndicator(snap hxform.Snapshot, showSuccess bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		switch {
		case snap.ValidationPending:
			w.open("div", templ.Attributes{"class": "hxf-status hxf-pending", "role": "status"})
			w.raw(`<span class="hxf-spinner" aria-hidden="true"></span>`)
			if snap.StatusMessage != "" {
				w.open("span", templ.Attributes{"class": "hxf-status-message"})
				w.text(snap.StatusMessage)
				w.close("span")
			}
			if snap.Progress > 0 {
				w.open("progress", templ.Attributes{
					"max":   "1",
					"value": strconv.FormatFloat(snap.Progress, 'f', 2, 64),
				})
				w.close("progress")
			}
			w.close("div")
		case showSuccess && snap.IsValidated && !snap.HasProblems:
			w.open("div", templ.Attributes{"class": "hxf-status hxf-valid", "role": "status"})
			w.component(ctx, Badge("✓", "success"))
			w.close("div")
		}
		return w.err
	})
}

// MessageList renders the messages at one location.
func MessageList(location string, messages []hxform.FieldMessage, animation AnimationPolicy) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if len(messages) == 0 {
			return nil
		}
		w := &writer{w: out}
		attrs := templ.Attributes{
			"class":         "hxf-messages",
			"data-location": location,
		}
		if animation.ShouldAnimate(ReasonFieldMessages) {
			attrs["data-animate"] = ReasonFieldMessages
		}
		w.open("ul", attrs)
		for _, m := range messages {
			w.open("li", templ.Attributes{
				"class":          "hxf-message hxf-message-" + string(m.Level()),
				"data-signature": m.Signature,
			})
			w.raw(inlineMarkdown(m.Text))
			w.close("li")
		}
		w.close("ul")
		return w.err
	})
}

// Tooltip wraps content in an element explaining why it is disabled. An
// empty reason renders the content alone.
func Tooltip(reason string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if reason == "" {
			return content.Render(ctx, out)
		}
		w := &writer{w: out}
		w.open("span", templ.Attributes{"class": "hxf-tooltip", "title": reason, "data-tooltip": reason})
		w.component(ctx, content)
		w.close("span")
		return w.err
	})
}

// Badge renders a short inline marker. color selects a palette class.
func Badge(text, color string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.open("span", templ.Attributes{"class": classes("hxf-badge", prefixed("hxf-badge-", color))})
		w.text(text)
		w.close("span")
		return w.err
	})
}
