package sox

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Info describes the nominal properties reported by `sox --i`.
type Info struct {
	Channels   int
	SampleRate int
	BitDepth   int
	// Encoding is the sample encoding label without its bit prefix, for
	// example "Signed Integer PCM" or "Floating Point PCM".
	Encoding string
}

// Stats holds the overall column of the stats effect.
type Stats struct {
	PeakLevelDB float64
	// BitDepth is the effective bit-depth (the numerator of "Bit-depth a/b").
	BitDepth int
	// NominalBitDepth is the denominator of "Bit-depth a/b".
	NominalBitDepth int
}

func parseInfo(output string) (Info, error) {
	var info Info
	var precision int
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "Channels":
			info.Channels, _ = strconv.Atoi(value)
		case "Sample Rate":
			info.SampleRate = parseLeadingInt(value)
		case "Precision":
			precision = parseBits(value)
		case "Sample Encoding":
			bits, label := splitEncoding(value)
			info.BitDepth = bits
			info.Encoding = label
		}
	}
	if info.BitDepth == 0 {
		info.BitDepth = precision
	}
	if info.Channels <= 0 || info.SampleRate <= 0 {
		return Info{}, fmt.Errorf("unrecognised sox info output %q", strings.TrimSpace(output))
	}
	return info, nil
}

// splitEncoding turns "24-bit Signed Integer PCM" into (24, "Signed Integer PCM").
func splitEncoding(value string) (int, string) {
	first, rest, ok := strings.Cut(value, " ")
	if !ok {
		return 0, value
	}
	if bits := parseBits(first); bits > 0 {
		return bits, strings.TrimSpace(rest)
	}
	return 0, value
}

func parseBits(value string) int {
	value = strings.TrimSpace(value)
	if !strings.HasSuffix(value, "-bit") {
		return 0
	}
	bits, err := strconv.Atoi(strings.TrimSuffix(value, "-bit"))
	if err != nil {
		return 0
	}
	return bits
}

func parseLeadingInt(value string) int {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

func parseStats(output string) (Stats, error) {
	stats := Stats{PeakLevelDB: math.NaN()}
	var sawPeak, sawDepth bool
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		switch {
		case len(fields) >= 4 && fields[0] == "Pk" && fields[1] == "lev" && fields[2] == "dB":
			peak, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return Stats{}, fmt.Errorf("parse peak level %q: %w", fields[3], err)
			}
			stats.PeakLevelDB = peak
			sawPeak = true
		case len(fields) >= 2 && fields[0] == "Bit-depth":
			effective, nominal, ok := strings.Cut(fields[1], "/")
			if !ok {
				return Stats{}, fmt.Errorf("parse bit-depth %q", fields[1])
			}
			var err error
			if stats.BitDepth, err = strconv.Atoi(effective); err != nil {
				return Stats{}, fmt.Errorf("parse bit-depth %q: %w", fields[1], err)
			}
			if stats.NominalBitDepth, err = strconv.Atoi(nominal); err != nil {
				return Stats{}, fmt.Errorf("parse bit-depth %q: %w", fields[1], err)
			}
			sawDepth = true
		}
	}
	if !sawPeak && !sawDepth {
		return Stats{}, errors.New("no stats found in sox output")
	}
	return stats, nil
}
