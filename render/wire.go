package render

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

// SwapMode is an hx-swap strategy.
type SwapMode string

const (
	// SwapOuter replaces the entire element including its tag.
	SwapOuter SwapMode = "outerHTML"
	// SwapInner replaces only the element's contents.
	SwapInner SwapMode = "innerHTML"
	// SwapBeforeEnd appends to the target's contents. Used for toasts.
	SwapBeforeEnd SwapMode = "beforeend"
	// SwapNone discards the response body, keeping only OOB fragments.
	SwapNone SwapMode = "none"
)

// WireAttrs builds the HTMX request attributes for an endpoint, with vals
// sent as hx-vals. An empty path yields no attributes.
func WireAttrs(path, method string, vals map[string]string) templ.Attributes {
	attrs := templ.Attributes{}
	if path == "" {
		return attrs
	}

	switch method {
	case http.MethodGet, "":
		attrs["hx-get"] = path
	case http.MethodPut:
		attrs["hx-put"] = path
	case http.MethodPatch:
		attrs["hx-patch"] = path
	case http.MethodDelete:
		attrs["hx-delete"] = path
	default:
		attrs["hx-post"] = path
	}
	if len(vals) > 0 {
		data, _ := json.Marshal(vals)
		attrs["hx-vals"] = string(data)
	}
	return attrs
}

// Target adds hx-target and hx-swap to attrs.
func Target(attrs templ.Attributes, selector string, swap SwapMode) templ.Attributes {
	if len(attrs) == 0 {
		return attrs
	}
	attrs["hx-target"] = selector
	attrs["hx-swap"] = string(swap)
	return attrs
}
