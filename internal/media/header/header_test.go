package header_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"slimsamples/internal/media/header"
)

func writeWAV(t *testing.T, path string, rate, bits, channels, format int) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer file.Close()
	enc := wav.NewEncoder(file, rate, bits, channels, format)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, 64*channels),
		SourceBitDepth: bits,
	}
	for i := range buf.Data {
		buf.Data[i] = (i % 16) - 8
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write samples: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
}

func TestReadWAVHeaders(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		rate     int
		bits     int
		channels int
		format   int
		encoding string
	}{
		{"pcm24.wav", 48000, 24, 2, 1, header.LabelSignedInteger},
		{"pcm16.WAV", 44100, 16, 1, 1, header.LabelSignedInteger},
		{"pcm8.wav", 22050, 8, 1, 1, header.LabelUnsignedInteger},
		{"float32.wav", 96000, 32, 2, 3, header.LabelFloatingPoint},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		writeWAV(t, path, tt.rate, tt.bits, tt.channels, tt.format)
		info, err := header.Read(path)
		if err != nil {
			t.Fatalf("%s: Read returned error: %v", tt.name, err)
		}
		if info.SampleRate != tt.rate || info.BitDepth != tt.bits || info.Channels != tt.channels {
			t.Fatalf("%s: unexpected info %+v", tt.name, info)
		}
		if info.Encoding != tt.encoding {
			t.Fatalf("%s: expected encoding %q, got %q", tt.name, tt.encoding, info.Encoding)
		}
	}
}

func TestReadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.flac")
	if err := os.WriteFile(path, []byte("fLaC"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := header.Read(path); !errors.Is(err, header.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestReadRejectsCorruptWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("RIFF\x00\x00\x00\x00JUNK"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := header.Read(path); !errors.Is(err, header.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestReadAIFCFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pad.aif")
	data := append([]byte("FORM\x00\x00\x00\x04AIFC"), make([]byte, 16)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := header.Read(path); !errors.Is(err, header.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := header.Read(filepath.Join(t.TempDir(), "missing.wav"))
	if err == nil || errors.Is(err, header.ErrUnsupported) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
