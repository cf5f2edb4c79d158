// Package header reads nominal audio properties straight from WAV and AIFF
// headers without spawning a subprocess.
package header

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/go-audio/wav"
)

// ErrUnsupported reports that the file must be inspected by an external tool.
var ErrUnsupported = errors.New("header format not handled natively")

// Encoding labels match the wording used by sox.
const (
	LabelSignedInteger   = "Signed Integer PCM"
	LabelUnsignedInteger = "Unsigned Integer PCM"
	LabelFloatingPoint   = "Floating Point PCM"
)

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// Info holds the nominal fields of a decoded header.
type Info struct {
	Container  string
	Channels   int
	SampleRate int
	BitDepth   int
	Encoding   string
}

// Read decodes the header of path. Files whose layout cannot be mapped
// unambiguously return ErrUnsupported.
func Read(path string) (Info, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return readFile(path, readWAV)
	case ".aif", ".aiff":
		return readFile(path, readAIFF)
	default:
		return Info{}, ErrUnsupported
	}
}

func readFile(path string, fn func(io.ReadSeeker) (Info, error)) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer file.Close()
	return fn(file)
}

func readWAV(r io.ReadSeeker) (Info, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("%w: invalid wav header", ErrUnsupported)
	}
	info := Info{
		Container:  "wav",
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
	}
	switch dec.WavAudioFormat {
	case wavFormatPCM:
		// 8-bit RIFF PCM is unsigned by definition.
		if info.BitDepth == 8 {
			info.Encoding = LabelUnsignedInteger
		} else {
			info.Encoding = LabelSignedInteger
		}
	case wavFormatFloat:
		info.Encoding = LabelFloatingPoint
	default:
		return Info{}, fmt.Errorf("%w: wav format tag %#x", ErrUnsupported, dec.WavAudioFormat)
	}
	if info.Channels < 1 || info.SampleRate < 1 {
		return Info{}, fmt.Errorf("%w: incomplete wav header", ErrUnsupported)
	}
	return info, nil
}

func readAIFF(r io.ReadSeeker) (Info, error) {
	form := make([]byte, 12)
	if _, err := io.ReadFull(r, form); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	// AIFF-C carries its own compression type, sox handles those.
	if !bytes.Equal(form[0:4], []byte("FORM")) || !bytes.Equal(form[8:12], []byte("AIFF")) {
		return Info{}, fmt.Errorf("%w: not a plain aiff file", ErrUnsupported)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Info{}, err
	}
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("%w: invalid aiff header", ErrUnsupported)
	}
	dec.ReadInfo()
	info := Info{
		Container:  "aiff",
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Encoding:   LabelSignedInteger,
	}
	if info.BitDepth >= 32 {
		return Info{}, fmt.Errorf("%w: %d-bit aiff", ErrUnsupported, info.BitDepth)
	}
	if info.Channels < 1 || info.SampleRate < 1 || info.BitDepth < 1 {
		return Info{}, fmt.Errorf("%w: incomplete aiff header", ErrUnsupported)
	}
	return info, nil
}
