package sox_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"slimsamples/internal/media/sox"
	"slimsamples/internal/services"
)

type stubExecutor struct {
	out   sox.Output
	err   error
	block bool
	args  [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) (sox.Output, error) {
	s.args = append(s.args, append([]string(nil), args...))
	if s.block {
		<-ctx.Done()
		return sox.Output{}, ctx.Err()
	}
	return s.out, s.err
}

const infoOutput = `
Input File     : 'kick.wav'
Channels       : 2
Sample Rate    : 48000
Precision      : 24-bit
Duration       : 00:00:01.00 = 48000 samples ~ 75 CDDA sectors
File Size      : 288k
Bit Rate       : 2.30M
Sample Encoding: 24-bit Signed Integer PCM
`

const statsOutput = `
             Overall     Left      Right
DC offset  -0.000012 -0.000012  0.000010
Min level  -0.501953 -0.501953 -0.500000
Max level   0.499969  0.499969  0.499969
Pk lev dB      -5.99     -5.99     -6.02
RMS lev dB    -12.04    -12.04    -12.05
Bit-depth      16/24     16/24     15/24
Num samples    48.0k
Length s       1.000
`

func TestInfoParsesSoxOutput(t *testing.T) {
	exec := &stubExecutor{out: sox.Output{Stdout: []byte(infoOutput)}}
	client, err := sox.New("sox", sox.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	info, err := client.Info(context.Background(), "kick.wav")
	if err != nil {
		t.Fatalf("Info returned error: %v", err)
	}
	if info.Channels != 2 || info.SampleRate != 48000 || info.BitDepth != 24 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.Encoding != "Signed Integer PCM" {
		t.Fatalf("unexpected encoding %q", info.Encoding)
	}
	if got := strings.Join(exec.args[0], " "); got != "--i -- kick.wav" {
		t.Fatalf("unexpected args %q", got)
	}
}

func TestInfoFallsBackToPrecision(t *testing.T) {
	output := "Channels       : 1\nSample Rate    : 44100\nPrecision      : 16-bit\nSample Encoding: MPEG audio (layer I, II or III)\n"
	client, _ := sox.New("sox", sox.WithExecutor(&stubExecutor{out: sox.Output{Stdout: []byte(output)}}))
	info, err := client.Info(context.Background(), "loop.mp3")
	if err != nil {
		t.Fatalf("Info returned error: %v", err)
	}
	if info.BitDepth != 16 {
		t.Fatalf("expected precision fallback, got %d", info.BitDepth)
	}
	if info.Encoding != "MPEG audio (layer I, II or III)" {
		t.Fatalf("unexpected encoding %q", info.Encoding)
	}
}

func TestInfoRejectsGarbage(t *testing.T) {
	client, _ := sox.New("sox", sox.WithExecutor(&stubExecutor{out: sox.Output{Stdout: []byte("nothing useful")}}))
	if _, err := client.Info(context.Background(), "x.wav"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStatsReadsOverallColumn(t *testing.T) {
	exec := &stubExecutor{out: sox.Output{Stderr: []byte(statsOutput)}}
	client, _ := sox.New("sox", sox.WithExecutor(exec))
	stats, err := client.Stats(context.Background(), "kick.wav")
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.PeakLevelDB != -5.99 {
		t.Fatalf("unexpected peak %v", stats.PeakLevelDB)
	}
	if stats.BitDepth != 16 || stats.NominalBitDepth != 24 {
		t.Fatalf("unexpected bit depth %d/%d", stats.BitDepth, stats.NominalBitDepth)
	}
	if got := strings.Join(exec.args[0], " "); got != "kick.wav -n stats" {
		t.Fatalf("unexpected args %q", got)
	}
}

func TestStereoPeakDiffHandlesNegativeInfinity(t *testing.T) {
	output := "Pk lev dB       -inf\nBit-depth      0/0\n"
	exec := &stubExecutor{out: sox.Output{Stderr: []byte(output)}}
	client, _ := sox.New("sox", sox.WithExecutor(exec))
	diff, err := client.StereoPeakDiff(context.Background(), "pad.wav")
	if err != nil {
		t.Fatalf("StereoPeakDiff returned error: %v", err)
	}
	if !math.IsInf(diff, -1) {
		t.Fatalf("expected -Inf, got %v", diff)
	}
	if got := strings.Join(exec.args[0], " "); got != "pad.wav -n remix 1,2i stats" {
		t.Fatalf("unexpected args %q", got)
	}
}

func TestConvertWrapsToolFailure(t *testing.T) {
	client, _ := sox.New("sox", sox.WithExecutor(&stubExecutor{err: errors.New("exit status 2")}))
	err := client.Convert(context.Background(), []string{"in.wav", "out.wav"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestConvertTimesOut(t *testing.T) {
	exec := &stubExecutor{block: true}
	client, _ := sox.New("sox", sox.WithExecutor(exec), sox.WithTimeouts(0, 20*time.Millisecond))
	err := client.Convert(context.Background(), []string{"in.wav", "out.wav"})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestCancelledContextIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client, _ := sox.New("sox", sox.WithExecutor(&stubExecutor{block: true}))
	err := client.Convert(ctx, nil)
	if errors.Is(err, services.ErrTimeout) {
		t.Fatalf("cancellation should not be reported as timeout: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSpectrogramArgs(t *testing.T) {
	exec := &stubExecutor{}
	client, _ := sox.New("sox", sox.WithExecutor(exec))
	if err := client.Spectrogram(context.Background(), "a.wav", "a.png", "kick"); err != nil {
		t.Fatalf("Spectrogram returned error: %v", err)
	}
	if got := strings.Join(exec.args[0], " "); got != "a.wav -n spectrogram -t kick -o a.png" {
		t.Fatalf("unexpected args %q", got)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := sox.New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
