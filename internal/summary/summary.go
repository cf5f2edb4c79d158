// Package summary renders plans as fixed-column text lines.
package summary

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"slimsamples/internal/config"
	"slimsamples/internal/plan"
	"slimsamples/internal/sample"
)

// Status suffixes.
const (
	StatusChanged = "[CHANGED]"
	StatusChange  = "[CHANGE]"
)

// Format renders one summary line:
//
//	<bits> <channels> <stereo diff> <effective bits> <path> [status]
//
// Columns are padded to fixed widths. A sample-rate change is appended to
// the bits segment after "@" and the segment is left as is otherwise. The
// status is omitted when the plan requires no conversion.
func Format(p plan.Plan, props sample.Properties, mode config.Mode) string {
	bits := segment(p, plan.PropertyBitDepth, props.BitDepth)
	if _, ok := p.Change(plan.PropertySampleRate); ok {
		bits += "@" + segment(p, plan.PropertySampleRate, props.SampleRate)
	}
	line := fmt.Sprintf("%-8s %-6s %6s %2d %s",
		bits,
		segment(p, plan.PropertyChannels, props.Channels),
		stereoDiff(props.StereoPeakDiffDB),
		props.EffectiveBitDepth,
		props.Path,
	)
	if !p.RequiresConversion() {
		return line
	}
	if mode == config.ModeConvert {
		return line + " " + StatusChanged
	}
	return line + " " + StatusChange
}

func segment(p plan.Plan, prop plan.Property, current int) string {
	change, ok := p.Change(prop)
	if !ok {
		return strconv.Itoa(current)
	}
	return strconv.Itoa(change.From) + "->" + strconv.Itoa(change.To) + change.Reason.Code()
}

func stereoDiff(diff *float64) string {
	switch {
	case diff == nil:
		return ""
	case math.IsInf(*diff, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(*diff, 'f', 1, 64)
	}
}

// Command renders an argument list as a single shell-safe line.
func Command(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quote(arg)
	}
	return strings.Join(quoted, " ")
}

func quote(arg string) string {
	if arg == "" {
		return "''"
	}
	safe := true
	for _, r := range arg {
		if !isSafe(r) {
			safe = false
			break
		}
	}
	if safe {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func isSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_./=:,+@%", r)
}
