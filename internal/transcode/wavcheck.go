package transcode

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVInfo describes a decoded WAV file.
type WAVInfo struct {
	Channels        int
	SampleRate      int
	BitDepth        int
	DurationSeconds float64
}

// ProbeWAV decodes path and confirms it is a valid PCM WAV in the canonical
// engine format. It returns the decoded parameters so callers can log them.
func ProbeWAV(path string) (*WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &TranscodeError{Path: path, Err: err}
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, &TranscodeError{Path: path, Err: fmt.Errorf("output is not a valid WAV file")}
	}

	info := &WAVInfo{
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
	}

	var buf *audio.IntBuffer
	if buf, err = dec.FullPCMBuffer(); err != nil {
		return nil, &TranscodeError{Path: path, Err: fmt.Errorf("reading PCM data: %w", err)}
	}
	if buf.Format != nil && buf.Format.SampleRate > 0 {
		info.DurationSeconds = float64(buf.NumFrames()) / float64(buf.Format.SampleRate)
	}

	if info.Channels != wavChannels || info.SampleRate != wavSampleRate || info.BitDepth != wavBitDepth {
		return nil, &TranscodeError{
			Path: path,
			Err: fmt.Errorf("output format is %dch/%dHz/%dbit, want %dch/%dHz/%dbit",
				info.Channels, info.SampleRate, info.BitDepth, wavChannels, wavSampleRate, wavBitDepth),
		}
	}

	return info, nil
}
