package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Format the speech engine requires: mono, 16 kHz, 16-bit signed PCM.
const (
	wavSampleRate = 16000
	wavChannels   = 1
	wavBitDepth   = 16
)

// TranscodeError reports that an input file could not be converted to the
// engine's WAV format.
type TranscodeError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *TranscodeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("transcode %s failed: %v\nStderr: %s", e.Path, e.Err, e.Stderr)
	}
	return fmt.Sprintf("transcode %s failed: %v", e.Path, e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

// Normalizer converts arbitrary uploaded audio into the canonical WAV format
// by shelling out to ffmpeg. The binary path and the per-conversion timeout
// are fixed at construction.
type Normalizer struct {
	ffmpegPath string
	timeout    time.Duration
}

// NewNormalizer returns a Normalizer using the given ffmpeg binary. An empty
// path falls back to "ffmpeg" on PATH.
func NewNormalizer(ffmpegPath string, timeout time.Duration) *Normalizer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Normalizer{ffmpegPath: ffmpegPath, timeout: timeout}
}

// Normalize converts inputPath into a mono 16 kHz 16-bit PCM WAV file next to
// the input and returns the new path. On failure it removes any partial
// output and returns a *TranscodeError.
func (n *Normalizer) Normalize(ctx context.Context, inputPath string) (string, error) {
	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "_norm.wav"

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, n.ffmpegPath, normalizeArgs(inputPath, outputPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(outputPath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%v: %w", err, ctxErr)
		}
		return "", &TranscodeError{Path: inputPath, Stderr: trimStderr(stderr.String()), Err: err}
	}

	if _, err := ProbeWAV(outputPath); err != nil {
		os.Remove(outputPath)
		return "", err
	}

	return outputPath, nil
}

// normalizeArgs builds the ffmpeg invocation for the canonical format.
func normalizeArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-ar", strconv.Itoa(wavSampleRate),
		"-ac", strconv.Itoa(wavChannels),
		"-acodec", "pcm_s16le",
		outputPath,
	}
}

// trimStderr keeps error payloads readable; ffmpeg prints its full banner
// and progress before the actual failure line.
func trimStderr(s string) string {
	s = strings.TrimSpace(s)
	const max = 512
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
