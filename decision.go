package hxform

// Decision is a yes/no verdict with an optional human-readable reason.
//
// A nil *Decision means "not specified"; readers supply the default:
//
//	GetVerdict(props.Enabled, true)
//
// Reasons are markdown, shown to the user (for example as a tooltip on a
// disabled button).
type Decision struct {
	Verdict bool   `json:"verdict" msgpack:"v"`
	Reason  string `json:"reason,omitempty" msgpack:"r,omitempty"`
}

// BoolDecision wraps a plain boolean into a decision without a reason.
func BoolDecision(verdict bool) *Decision {
	return &Decision{Verdict: verdict}
}

// Allow returns a positive decision, optionally with a reason.
func Allow(reason ...string) *Decision {
	return &Decision{Verdict: true, Reason: firstReason(reason)}
}

// Deny returns a negative decision, optionally with a reason.
func Deny(reason ...string) *Decision {
	return &Decision{Verdict: false, Reason: firstReason(reason)}
}

// DenyWithReason returns a negative decision that always explains itself.
func DenyWithReason(reason string) *Decision {
	return &Decision{Verdict: false, Reason: reason}
}

func firstReason(reason []string) string {
	if len(reason) == 0 {
		return ""
	}
	return reason[0]
}

// GetVerdict reads the verdict, falling back to def for a nil decision.
func GetVerdict(d *Decision, def bool) bool {
	if d == nil {
		return def
	}
	return d.Verdict
}

// GetReason returns the reason of the decision, whatever the verdict.
func GetReason(d *Decision) string {
	if d == nil {
		return ""
	}
	return d.Reason
}

// ReasonForDenial returns the reason only if the decision denies.
func ReasonForDenial(d *Decision) string {
	if d == nil || d.Verdict {
		return ""
	}
	return d.Reason
}

// ReasonForAllowing returns the reason only if the decision allows.
func ReasonForAllowing(d *Decision) string {
	if d == nil || !d.Verdict {
		return ""
	}
	return d.Reason
}

// Invert flips the verdict and keeps the reason.
//
// A "disabled because X" decision becomes "not enabled because X".
func Invert(d *Decision) *Decision {
	if d == nil {
		return nil
	}
	return &Decision{Verdict: !d.Verdict, Reason: d.Reason}
}

// And combines two decisions.
//
// If a denies, a is returned unchanged. If a allows and b denies, b is
// returned. If both allow, the result allows with the reasons joined by
// "; ". Unspecified decisions count as denials.
func And(a, b *Decision) *Decision {
	if !GetVerdict(a, false) {
		return a
	}
	if !GetVerdict(b, false) {
		return b
	}
	ra, rb := GetReason(a), GetReason(b)
	switch {
	case ra != "" && rb != "":
		return &Decision{Verdict: true, Reason: ra + "; " + rb}
	case ra != "":
		return &Decision{Verdict: true, Reason: ra}
	default:
		return &Decision{Verdict: true, Reason: rb}
	}
}
