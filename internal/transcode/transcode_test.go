package transcode

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeTestWAV(t *testing.T, dir string, sampleRate, channels int) string {
	t.Helper()
	path := filepath.Join(dir, "probe.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, sampleRate/10*channels),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("writing test wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing test wav: %v", err)
	}
	return path
}

func TestNormalizeArgsRequestCanonicalFormat(t *testing.T) {
	args := normalizeArgs("/tmp/in.3gp", "/tmp/in_norm.wav")
	joined := strings.Join(args, " ")

	for _, want := range []string{"-ar 16000", "-ac 1", "-acodec pcm_s16le", "/tmp/in.3gp", "/tmp/in_norm.wav"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if args[0] != "-y" {
		t.Errorf("args must overwrite existing output, got leading %q", args[0])
	}
}

func TestProbeWAVAcceptsCanonicalFile(t *testing.T) {
	path := writeTestWAV(t, t.TempDir(), 16000, 1)

	info, err := ProbeWAV(path)
	if err != nil {
		t.Fatalf("ProbeWAV: %v", err)
	}
	if info.Channels != 1 || info.SampleRate != 16000 || info.BitDepth != 16 {
		t.Errorf("probe reported %+v, want mono/16000/16", info)
	}
	if math.Abs(info.DurationSeconds-0.1) > 1e-6 {
		t.Errorf("DurationSeconds = %f, want 0.1", info.DurationSeconds)
	}
}

func TestProbeWAVRejectsWrongSampleRate(t *testing.T) {
	path := writeTestWAV(t, t.TempDir(), 8000, 1)

	_, err := ProbeWAV(path)
	var tErr *TranscodeError
	if !errors.As(err, &tErr) {
		t.Fatalf("ProbeWAV error = %v, want *TranscodeError", err)
	}
}

func TestProbeWAVRejectsStereo(t *testing.T) {
	path := writeTestWAV(t, t.TempDir(), 16000, 2)

	if _, err := ProbeWAV(path); err == nil {
		t.Fatal("ProbeWAV accepted a stereo file")
	}
}

func TestProbeWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("not audio at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ProbeWAV(path); err == nil {
		t.Fatal("ProbeWAV accepted garbage bytes")
	}
}

func TestNormalizeFailsWithMissingBinary(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.m4a")
	if err := os.WriteFile(input, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	n := NewNormalizer(filepath.Join(dir, "no-such-ffmpeg"), 0)
	_, err := n.Normalize(context.Background(), input)

	var tErr *TranscodeError
	if !errors.As(err, &tErr) {
		t.Fatalf("Normalize error = %v, want *TranscodeError", err)
	}
	if tErr.Path != input {
		t.Errorf("error path = %q, want %q", tErr.Path, input)
	}
}

func TestTrimStderrKeepsTail(t *testing.T) {
	long := strings.Repeat("x", 600) + "actual failure line"
	got := trimStderr(long)
	if !strings.HasPrefix(got, "...") {
		t.Errorf("trimmed stderr should mark truncation, got %q", got[:10])
	}
	if !strings.HasSuffix(got, "actual failure line") {
		t.Error("trimmed stderr lost the failure line at the tail")
	}
}
