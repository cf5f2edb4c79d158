package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WAV describes a PCM fixture written by WriteWAV.
type WAV struct {
	SampleRate int
	BitDepth   int
	Channels   int
	// Format is the WAVE format tag: 1 for integer PCM, 3 for float.
	Format int
	Frames int
}

// WriteWAV encodes a short WAV file with the given layout. Zero fields take
// 44.1 kHz, 16-bit, mono integer PCM with 64 frames.
func WriteWAV(t testing.TB, path string, layout WAV) {
	t.Helper()

	if layout.SampleRate == 0 {
		layout.SampleRate = 44100
	}
	if layout.BitDepth == 0 {
		layout.BitDepth = 16
	}
	if layout.Channels == 0 {
		layout.Channels = 1
	}
	if layout.Format == 0 {
		layout.Format = 1
	}
	if layout.Frames == 0 {
		layout.Frames = 64
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, layout.SampleRate, layout.BitDepth, layout.Channels, layout.Format)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: layout.Channels, SampleRate: layout.SampleRate},
		Data:           make([]int, layout.Frames*layout.Channels),
		SourceBitDepth: layout.BitDepth,
	}
	for i := range buf.Data {
		buf.Data[i] = (i % 16) - 8
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write samples to %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder for %s: %v", path, err)
	}
}
