package sample

import (
	"strings"

	"slimsamples/internal/media/header"
)

// EncodingKind classifies sample encodings that matter to the planner.
type EncodingKind int

const (
	EncodingOther EncodingKind = iota
	SignedIntegerPCM
	FloatingPointPCM
)

func (k EncodingKind) String() string {
	switch k {
	case SignedIntegerPCM:
		return "signed-integer"
	case FloatingPointPCM:
		return "floating-point"
	default:
		return "other"
	}
}

// Encoding pairs the classified kind with the label reported by the tool.
type Encoding struct {
	Kind EncodingKind
	Name string
}

// ParseEncoding classifies an encoding label such as "Signed Integer PCM".
func ParseEncoding(label string) Encoding {
	label = strings.TrimSpace(label)
	switch {
	case strings.EqualFold(label, header.LabelSignedInteger):
		return Encoding{Kind: SignedIntegerPCM, Name: label}
	case strings.EqualFold(label, header.LabelFloatingPoint):
		return Encoding{Kind: FloatingPointPCM, Name: label}
	default:
		return Encoding{Kind: EncodingOther, Name: label}
	}
}

func (e Encoding) String() string {
	if e.Kind == EncodingOther {
		if e.Name == "" {
			return "other"
		}
		return "other(" + e.Name + ")"
	}
	return e.Kind.String()
}

// Source values for Properties.Source.
const (
	SourceHeader = "header"
	SourceSox    = "sox"
)

// Properties is a snapshot of a sample's audio characteristics. It is built
// once per file and never mutated.
type Properties struct {
	Path              string
	Channels          int
	BitDepth          int
	SampleRate        int
	Encoding          Encoding
	EffectiveBitDepth int
	// StereoPeakDiffDB is nil for mono files. Negative infinity means the
	// channels cancel perfectly.
	StereoPeakDiffDB *float64
	Source           string
}
