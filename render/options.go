package render

import (
	"slices"

	"github.com/oasisprotocol/hxform"
)

// AnimationPolicy decides which transitions may animate. Renderers mark
// animated elements with a data-animate attribute naming the reason; a
// denied reason renders the element in its final state.
type AnimationPolicy struct {
	mode    animationMode
	reasons []string
}

type animationMode int

const (
	allowAll animationMode = iota
	denyAll
	allowOnly
	denyOnly
)

// AllowAll animates everything. It is the zero value.
func AllowAll() AnimationPolicy { return AnimationPolicy{mode: allowAll} }

// DenyAll disables all animations.
func DenyAll() AnimationPolicy { return AnimationPolicy{mode: denyAll} }

// AllowOnly animates only the listed reasons.
func AllowOnly(reasons ...string) AnimationPolicy {
	return AnimationPolicy{mode: allowOnly, reasons: reasons}
}

// DenyOnly animates everything except the listed reasons. Transitions
// without a reason always animate.
func DenyOnly(reasons ...string) AnimationPolicy {
	return AnimationPolicy{mode: denyOnly, reasons: reasons}
}

// ShouldAnimate applies the policy to a transition.
func (p AnimationPolicy) ShouldAnimate(reason string) bool {
	switch p.mode {
	case allowAll:
		return true
	case denyAll:
		return false
	case allowOnly:
		return reason != "" && slices.Contains(p.reasons, reason)
	case denyOnly:
		return reason == "" || !slices.Contains(p.reasons, reason)
	default:
		return false
	}
}

// Animation reasons used by this package.
const (
	ReasonFieldMessages = "fieldValidationErrors"
	ReasonVisibility    = "fieldVisibility"
	ReasonConfirmation  = "confirmation"
)

// Operation names passed to an EndpointFunc.
const (
	OpValue   = "value"
	OpExecute = "execute"
	OpConfirm = "confirm"
	OpDeny    = "deny"
)

// EndpointFunc returns the URL serving an operation on a field, or "" if
// the field is not interactive.
type EndpointFunc func(f hxform.FieldLike, op string) string

// Options are threaded through every render call.
type Options struct {
	Animation AnimationPolicy
	Endpoint  EndpointFunc

	// OOB marks top-level field containers for out-of-band swapping.
	OOB bool
}

func (o Options) endpoint(f hxform.FieldLike, op string) string {
	if o.Endpoint == nil {
		return ""
	}
	return o.Endpoint(f, op)
}
