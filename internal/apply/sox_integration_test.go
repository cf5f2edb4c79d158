package apply_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"slimsamples/internal/apply"
	"slimsamples/internal/config"
	"slimsamples/internal/media/sox"
	"slimsamples/internal/plan"
	"slimsamples/internal/sample"
	"slimsamples/internal/testsupport"
)

func TestApplyWithSoxClientAndSpectrograms(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedSox())
	cfg.Run.Spectrograms = true
	base := testsupport.BaseDir(cfg)
	src := filepath.Join(base, "loops", "pad.wav")
	testsupport.WriteWAV(t, src, testsupport.WAV{SampleRate: 48000, BitDepth: 24, Channels: 2})
	before := readFile(t, src)

	client, err := sox.New(cfg.Tools.Sox)
	if err != nil {
		t.Fatalf("sox.New: %v", err)
	}
	ctx := context.Background()
	props, err := sample.NewInspector(client).Inspect(ctx, src)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	p, err := plan.Build(props, cfg.Target, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	orchestrator, err := apply.New(client, cfg, apply.WithBaseDir(base))
	if err != nil {
		t.Fatalf("apply.New: %v", err)
	}
	outcome, record, err := orchestrator.Apply(ctx, p, config.ModeConvert)
	if err != nil || outcome != apply.OutcomeSucceeded {
		t.Fatalf("Apply = %s, %v", outcome, err)
	}

	wantBackup := filepath.Join(cfg.Run.BackupDir, "loops", "pad.wav")
	if record.Backup != wantBackup {
		t.Fatalf("backup = %s, want %s", record.Backup, wantBackup)
	}
	if !bytes.Equal(readFile(t, wantBackup), before) {
		t.Fatal("backup is not a byte copy")
	}
	if !bytes.HasSuffix(readFile(t, src), []byte("converted\n")) {
		t.Fatal("source not replaced by conversion output")
	}
	for _, name := range []string{"pad.old.png", "pad.new.png"} {
		if _, err := os.Stat(filepath.Join(cfg.Run.BackupDir, "loops", name)); err != nil {
			t.Fatalf("spectrogram %s missing: %v", name, err)
		}
	}
}

func TestApplyDryRunWithSoxClientTouchesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedSox(), testsupport.WithMode(config.ModeDryRun))
	base := testsupport.BaseDir(cfg)
	src := filepath.Join(base, "hat.wav")
	testsupport.WriteWAV(t, src, testsupport.WAV{SampleRate: 96000, BitDepth: 24})
	before := readFile(t, src)

	client, err := sox.New(cfg.Tools.Sox)
	if err != nil {
		t.Fatalf("sox.New: %v", err)
	}
	ctx := context.Background()
	props, err := sample.NewInspector(client).Inspect(ctx, src)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if props.SampleRate != 96000 || props.Channels != 1 || props.Source != sample.SourceHeader {
		t.Fatalf("unexpected properties %+v", props)
	}
	p, err := plan.Build(props, cfg.Target, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	orchestrator, err := apply.New(client, cfg, apply.WithBaseDir(base))
	if err != nil {
		t.Fatalf("apply.New: %v", err)
	}
	outcome, _, err := orchestrator.Apply(ctx, p, cfg.Run.Mode)
	if err != nil || outcome != apply.OutcomeDryRun {
		t.Fatalf("Apply = %s, %v", outcome, err)
	}
	if !bytes.Equal(readFile(t, src), before) {
		t.Fatal("dry run modified the source")
	}
	if _, err := os.Stat(cfg.Run.BackupDir); !os.IsNotExist(err) {
		t.Fatalf("dry run created the backup dir: %v", err)
	}
}
