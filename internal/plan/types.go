package plan

import (
	"fmt"

	"slimsamples/internal/sample"
)

// Property names a sample attribute the planner may change.
type Property int

const (
	PropertyBitDepth Property = iota
	PropertySampleRate
	PropertyChannels
)

func (p Property) String() string {
	switch p {
	case PropertyBitDepth:
		return "bit-depth"
	case PropertySampleRate:
		return "sample-rate"
	case PropertyChannels:
		return "channels"
	default:
		return fmt.Sprintf("property(%d)", int(p))
	}
}

// Reason explains why a change was planned beyond a plain target mismatch.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonAutoMono
	ReasonPreNormalize
	ReasonMinimumEnforced
)

// Code returns the summary suffix for the reason.
func (r Reason) Code() string {
	switch r {
	case ReasonAutoMono:
		return "+A"
	case ReasonPreNormalize:
		return "+P"
	case ReasonMinimumEnforced:
		return "+M"
	default:
		return ""
	}
}

func (r Reason) String() string {
	switch r {
	case ReasonAutoMono:
		return "auto-mono"
	case ReasonPreNormalize:
		return "pre-normalize"
	case ReasonMinimumEnforced:
		return "minimum-enforced"
	default:
		return "none"
	}
}

// Change is one planned property transition.
type Change struct {
	Property Property
	From     int
	To       int
	Reason   Reason
}

// Directive is one instruction to the conversion tool.
type Directive interface {
	isDirective()
}

// Normalize scales the input so its peak sits GuardDB below full scale.
type Normalize struct{ GuardDB float64 }

// SetEncoding forces how the input samples are interpreted.
type SetEncoding struct{ Kind sample.EncodingKind }

// SetBitDepth sets the output bit-depth.
type SetBitDepth struct{ Bits int }

// DisableDither turns off automatic dithering.
type DisableDither struct{}

// SetSampleRate sets the output sample rate.
type SetSampleRate struct{ Rate int }

// MixDownChannels mixes From channels down to To.
type MixDownChannels struct{ From, To int }

func (Normalize) isDirective()       {}
func (SetEncoding) isDirective()     {}
func (SetBitDepth) isDirective()     {}
func (DisableDither) isDirective()   {}
func (SetSampleRate) isDirective()   {}
func (MixDownChannels) isDirective() {}

// Plan is the outcome of planning one sample.
type Plan struct {
	SourcePath string
	DestPath   string
	Changes    []Change
	// Source directives precede the input path, Dest directives precede the
	// output path and Post directives follow it.
	Source []Directive
	Dest   []Directive
	Post   []Directive
	// ExtensionChangeOnly is set when no property changes but the container
	// must still be rewritten.
	ExtensionChangeOnly bool
}

// RequiresConversion reports whether the sample must be converted.
func (p Plan) RequiresConversion() bool {
	return len(p.Changes) > 0 || p.ExtensionChangeOnly
}

// Change returns the planned change for prop, if any.
func (p Plan) Change(prop Property) (Change, bool) {
	for _, change := range p.Changes {
		if change.Property == prop {
			return change, true
		}
	}
	return Change{}, false
}
