package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"slimsamples/internal/config"
	"slimsamples/internal/fileutil"
	"slimsamples/internal/sample"
	"slimsamples/internal/services"
)

const (
	// NormalizeGuardDB is the headroom left below full scale by pre-normalization.
	NormalizeGuardDB = 0.1
	// BitDepthFloor is the bit-depth below which a minimum may raise a sample.
	BitDepthFloor = 8
	// SampleRateFloor is the rate below which a minimum may raise a sample.
	SampleRateFloor = 11025
	// DitherlessBitDepth disables dithering when it is the output depth.
	DitherlessBitDepth = 8
)

// ErrUnsupportedEncoding is returned for 32-bit sources whose encoding cannot
// be passed to sox explicitly.
var ErrUnsupportedEncoding = fmt.Errorf("%w: 32-bit source is neither signed-integer nor floating-point PCM", services.ErrUnsupportedEncoding)

// Builder accumulates a plan while the policies run.
type Builder struct {
	props  sample.Properties
	target config.Target
	plan   Plan
}

// NewBuilder starts a plan for props.
func NewBuilder(props sample.Properties, target config.Target) *Builder {
	return &Builder{
		props:  props,
		target: target,
		plan: Plan{
			SourcePath: props.Path,
			DestPath:   fileutil.ReplaceExt(props.Path, config.CanonicalExtension),
		},
	}
}

func (b *Builder) change(prop Property, from, to int, reason Reason) {
	b.plan.Changes = append(b.plan.Changes, Change{Property: prop, From: from, To: to, Reason: reason})
}

func (b *Builder) prependSource(d Directive) {
	b.plan.Source = append([]Directive{d}, b.plan.Source...)
}

func (b *Builder) appendSource(d Directive) { b.plan.Source = append(b.plan.Source, d) }
func (b *Builder) appendDest(d Directive)   { b.plan.Dest = append(b.plan.Dest, d) }
func (b *Builder) appendPost(d Directive)   { b.plan.Post = append(b.plan.Post, d) }

// Finish returns the completed plan.
func (b *Builder) Finish() Plan {
	return b.plan
}

// Build plans the conversion of one sample.
func Build(props sample.Properties, target config.Target, effectivelyMono bool) (Plan, error) {
	b := NewBuilder(props, target)
	if err := planBitDepth(b); err != nil {
		return Plan{}, err
	}
	planSampleRate(b)
	planChannels(b, effectivelyMono)
	planContainer(b)
	return b.Finish(), nil
}

func planBitDepth(b *Builder) error {
	current, target := b.props.BitDepth, b.target.BitDepth
	switch {
	case current == target:
		return nil
	case current > target:
		var hint Directive
		if current == 32 {
			switch b.props.Encoding.Kind {
			case sample.SignedIntegerPCM, sample.FloatingPointPCM:
				hint = SetEncoding{Kind: b.props.Encoding.Kind}
			default:
				return services.Wrap(ErrUnsupportedEncoding, "plan", "bit-depth", b.props.Encoding.Name, nil)
			}
		}
		reason := ReasonNone
		if b.target.PreNormalize {
			b.prependSource(Normalize{GuardDB: NormalizeGuardDB})
			reason = ReasonPreNormalize
		}
		if hint != nil {
			b.appendSource(hint)
		}
		b.appendDest(SetBitDepth{Bits: target})
		if target == DitherlessBitDepth {
			b.appendDest(DisableDither{})
		}
		b.change(PropertyBitDepth, current, target, reason)
	case current < BitDepthFloor:
		minimum := b.target.MinimumBitDepth
		if minimum <= current {
			return nil
		}
		b.appendDest(SetBitDepth{Bits: minimum})
		if minimum == DitherlessBitDepth {
			b.appendDest(DisableDither{})
		}
		b.change(PropertyBitDepth, current, minimum, ReasonMinimumEnforced)
	}
	return nil
}

func planSampleRate(b *Builder) {
	current, target := b.props.SampleRate, b.target.SampleRate
	switch {
	case current == target:
	case current > target:
		b.appendDest(SetSampleRate{Rate: target})
		b.change(PropertySampleRate, current, target, ReasonNone)
	case current < SampleRateFloor:
		minimum := b.target.MinimumSampleRate
		if minimum <= current {
			return
		}
		b.appendDest(SetSampleRate{Rate: minimum})
		b.change(PropertySampleRate, current, minimum, ReasonMinimumEnforced)
	}
}

func planChannels(b *Builder, effectivelyMono bool) {
	current := b.props.Channels
	switch {
	case current <= 1:
	case b.target.AutoMono && effectivelyMono:
		b.appendPost(MixDownChannels{From: current, To: 1})
		b.change(PropertyChannels, current, 1, ReasonAutoMono)
	case b.target.Channels > 0 && current > b.target.Channels:
		b.appendPost(MixDownChannels{From: current, To: b.target.Channels})
		b.change(PropertyChannels, current, b.target.Channels, ReasonNone)
	}
}

func planContainer(b *Builder) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(b.props.Path)), ".")
	if ext != config.CanonicalExtension && len(b.plan.Changes) == 0 {
		b.plan.ExtensionChangeOnly = true
	}
}
