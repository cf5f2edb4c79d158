package plan_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"slimsamples/internal/config"
	"slimsamples/internal/plan"
	"slimsamples/internal/sample"
	"slimsamples/internal/services"
)

func props(bits, rate, channels int) sample.Properties {
	return sample.Properties{
		Path:              "kit/kick.wav",
		Channels:          channels,
		BitDepth:          bits,
		SampleRate:        rate,
		Encoding:          sample.Encoding{Kind: sample.SignedIntegerPCM, Name: "Signed Integer PCM"},
		EffectiveBitDepth: bits,
	}
}

func target() config.Target {
	return config.Default().Target
}

func mustBuild(t *testing.T, p sample.Properties, tgt config.Target, mono bool) plan.Plan {
	t.Helper()
	result, err := plan.Build(p, tgt, mono)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return result
}

func TestBuildDownsamplesBitDepth(t *testing.T) {
	result := mustBuild(t, props(24, 44100, 1), target(), false)
	want := []plan.Change{{Property: plan.PropertyBitDepth, From: 24, To: 16, Reason: plan.ReasonNone}}
	if !reflect.DeepEqual(result.Changes, want) {
		t.Fatalf("unexpected changes %+v", result.Changes)
	}
	if !result.RequiresConversion() || result.ExtensionChangeOnly {
		t.Fatalf("expected conversion without extension-only flag: %+v", result)
	}
	if got := strings.Join(plan.Args(result), " "); got != "kit/kick.wav -b 16 kit/kick.wav" {
		t.Fatalf("unexpected args %q", got)
	}
}

func TestBuildNoChangeAtTarget(t *testing.T) {
	tgt := target()
	tgt.Channels = 2
	result := mustBuild(t, props(16, 44100, 2), tgt, false)
	if result.RequiresConversion() {
		t.Fatalf("expected no conversion, got %+v", result.Changes)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	tgt := target()
	tgt.AutoMono = true
	tgt.PreNormalize = true
	tgt.MinimumBitDepth = 8
	tgt.MinimumSampleRate = 22050
	inputs := []sample.Properties{props(24, 96000, 2), props(4, 8000, 1), props(32, 48000, 2)}
	for _, in := range inputs {
		first := mustBuild(t, in, tgt, true)
		after := in
		after.Path = first.DestPath
		if change, ok := first.Change(plan.PropertyBitDepth); ok {
			after.BitDepth = change.To
		}
		if change, ok := first.Change(plan.PropertySampleRate); ok {
			after.SampleRate = change.To
		}
		if change, ok := first.Change(plan.PropertyChannels); ok {
			after.Channels = change.To
		}
		for i := 0; i < 2; i++ {
			again := mustBuild(t, after, tgt, after.Channels > 1)
			if again.RequiresConversion() {
				t.Fatalf("converted %+v still requires conversion: %+v", after, again.Changes)
			}
		}
	}
}

func TestBuildMinimumBitDepth(t *testing.T) {
	tgt := target()
	tgt.MinimumBitDepth = 8
	result := mustBuild(t, props(4, 44100, 1), tgt, false)
	want := []plan.Change{{Property: plan.PropertyBitDepth, From: 4, To: 8, Reason: plan.ReasonMinimumEnforced}}
	if !reflect.DeepEqual(result.Changes, want) {
		t.Fatalf("unexpected changes %+v", result.Changes)
	}
	if got := strings.Join(plan.Args(result), " "); got != "kit/kick.wav -b 8 -D kit/kick.wav" {
		t.Fatalf("unexpected args %q", got)
	}

	tgt.MinimumBitDepth = 0
	if result := mustBuild(t, props(4, 44100, 1), tgt, false); result.RequiresConversion() {
		t.Fatalf("expected no bit-depth change without minimum, got %+v", result.Changes)
	}
}

func TestBuildMinimumSampleRate(t *testing.T) {
	tgt := target()
	tgt.MinimumSampleRate = 22050
	result := mustBuild(t, props(16, 8000, 1), tgt, false)
	change, ok := result.Change(plan.PropertySampleRate)
	if !ok || change.To != 22050 || change.Reason != plan.ReasonMinimumEnforced {
		t.Fatalf("expected minimum enforced rate change, got %+v", result.Changes)
	}
	// Between the floor and the target nothing is raised.
	if result := mustBuild(t, props(16, 22050, 1), tgt, false); result.RequiresConversion() {
		t.Fatalf("expected no change above floor, got %+v", result.Changes)
	}
}

func TestBuildMonotonicDownsizing(t *testing.T) {
	depths := []int{4, 8, 16, 24, 32}
	rates := []int{8000, 11025, 22050, 44100, 48000, 96000}
	minDepths := []int{0, 8}
	minRates := []int{0, 11025, 22050}
	for _, bits := range depths {
		for _, rate := range rates {
			for _, minBits := range minDepths {
				for _, minRate := range minRates {
					tgt := target()
					tgt.MinimumBitDepth = minBits
					tgt.MinimumSampleRate = minRate
					result := mustBuild(t, props(bits, rate, 1), tgt, false)
					for _, change := range result.Changes {
						switch change.Property {
						case plan.PropertyBitDepth:
							limit := tgt.BitDepth
							if change.Reason == plan.ReasonMinimumEnforced {
								limit = tgt.MinimumBitDepth
							}
							if change.To > limit {
								t.Fatalf("bit-depth %d->%d exceeds %d", change.From, change.To, limit)
							}
						case plan.PropertySampleRate:
							limit := tgt.SampleRate
							if change.Reason == plan.ReasonMinimumEnforced {
								limit = tgt.MinimumSampleRate
							}
							if change.To > limit {
								t.Fatalf("sample-rate %d->%d exceeds %d", change.From, change.To, limit)
							}
						}
					}
				}
			}
		}
	}
}

func TestBuildAutoMonoPriority(t *testing.T) {
	for _, channels := range []int{0, 1, 2} {
		tgt := target()
		tgt.AutoMono = true
		tgt.Channels = channels
		result := mustBuild(t, props(16, 44100, 2), tgt, true)
		change, ok := result.Change(plan.PropertyChannels)
		if !ok || change.To != 1 || change.Reason != plan.ReasonAutoMono {
			t.Fatalf("target channels %d: expected auto-mono mix-down, got %+v", channels, result.Changes)
		}
		if got := strings.Join(plan.Args(result), " "); got != "kit/kick.wav kit/kick.wav channels 1" {
			t.Fatalf("unexpected args %q", got)
		}
	}
}

func TestBuildChannelTarget(t *testing.T) {
	tgt := target()
	tgt.Channels = 1
	result := mustBuild(t, props(16, 44100, 2), tgt, false)
	change, ok := result.Change(plan.PropertyChannels)
	if !ok || change.Reason != plan.ReasonNone || change.To != 1 {
		t.Fatalf("expected plain mix-down, got %+v", result.Changes)
	}
	tgt.Channels = 0
	if result := mustBuild(t, props(16, 44100, 6), tgt, false); result.RequiresConversion() {
		t.Fatalf("expected no channel change without target, got %+v", result.Changes)
	}
}

func TestBuildThirtyTwoBitDispatch(t *testing.T) {
	tests := []struct {
		encoding sample.Encoding
		want     string
	}{
		{sample.Encoding{Kind: sample.FloatingPointPCM, Name: "Floating Point PCM"}, "-e floating-point kit/kick.wav -b 16 kit/kick.wav"},
		{sample.Encoding{Kind: sample.SignedIntegerPCM, Name: "Signed Integer PCM"}, "-e signed-integer kit/kick.wav -b 16 kit/kick.wav"},
	}
	for _, tt := range tests {
		in := props(32, 44100, 1)
		in.Encoding = tt.encoding
		result := mustBuild(t, in, target(), false)
		if got := strings.Join(plan.Args(result), " "); got != tt.want {
			t.Fatalf("%s: unexpected args %q", tt.encoding, got)
		}
	}

	in := props(32, 44100, 1)
	in.Encoding = sample.Encoding{Kind: sample.EncodingOther, Name: "u-law"}
	result, err := plan.Build(in, target(), false)
	if !errors.Is(err, plan.ErrUnsupportedEncoding) || !errors.Is(err, services.ErrUnsupportedEncoding) {
		t.Fatalf("expected unsupported encoding, got %v", err)
	}
	if len(result.Source)+len(result.Dest)+len(result.Post) != 0 {
		t.Fatalf("expected no directives, got %+v", result)
	}
}

func TestBuildPreNormalizeAndDither(t *testing.T) {
	tgt := target()
	tgt.BitDepth = 8
	tgt.SampleRate = 22050
	tgt.PreNormalize = true
	tgt.AutoMono = true
	in := props(32, 48000, 2)
	in.Encoding = sample.Encoding{Kind: sample.FloatingPointPCM}
	result := mustBuild(t, in, tgt, true)

	change, _ := result.Change(plan.PropertyBitDepth)
	if change.Reason != plan.ReasonPreNormalize {
		t.Fatalf("expected pre-normalize reason, got %v", change.Reason)
	}
	want := "--norm=-0.1 -e floating-point kit/kick.wav -b 8 -D -r 22050 kit/kick.wav channels 1"
	if got := strings.Join(plan.Args(result), " "); got != want {
		t.Fatalf("unexpected args\n got %q\nwant %q", got, want)
	}
	gotOrder := []plan.Property{}
	for _, c := range result.Changes {
		gotOrder = append(gotOrder, c.Property)
	}
	wantOrder := []plan.Property{plan.PropertyBitDepth, plan.PropertySampleRate, plan.PropertyChannels}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Fatalf("unexpected change order %v", gotOrder)
	}
}

func TestBuildExtensionChangeOnly(t *testing.T) {
	in := props(16, 44100, 1)
	in.Path = "kit/Snare.AIFF"
	result := mustBuild(t, in, target(), false)
	if !result.ExtensionChangeOnly || !result.RequiresConversion() {
		t.Fatalf("expected extension-only conversion, got %+v", result)
	}
	if result.DestPath != "kit/Snare.wav" {
		t.Fatalf("unexpected destination %q", result.DestPath)
	}

	in.Path = "kit/Snare.WAV"
	if result := mustBuild(t, in, target(), false); result.RequiresConversion() {
		t.Fatal("upper-case canonical extension must not require conversion")
	}

	in.Path = "kit/Snare.aiff"
	in.BitDepth = 24
	result = mustBuild(t, in, target(), false)
	if result.ExtensionChangeOnly {
		t.Fatal("extension-only must be false when a property changes")
	}
}

func TestArgsToOverridesDestination(t *testing.T) {
	result := mustBuild(t, props(24, 48000, 1), target(), false)
	got := strings.Join(plan.ArgsTo(result, "kit/kick.1234.tmp.wav"), " ")
	if got != "kit/kick.wav -b 16 -r 44100 kit/kick.1234.tmp.wav" {
		t.Fatalf("unexpected args %q", got)
	}
}
