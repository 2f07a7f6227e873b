package speech

import (
	"context"
	"fmt"
)

// WordTiming is a single recognized word with its offset and spoken length,
// both in seconds from the start of the audio.
type WordTiming struct {
	Text            string  `json:"word"`
	StartSeconds    float64 `json:"start"`
	DurationSeconds float64 `json:"duration"`
}

// Outcome classifies what the engine made of the audio.
type Outcome int

const (
	// OutcomeRecognized means the engine produced a transcript. Words may
	// still be empty if the engine returned no per-word detail.
	OutcomeRecognized Outcome = iota
	// OutcomeNoMatch means the engine found no usable speech in the audio.
	OutcomeNoMatch
	// OutcomeUnrecognized means the engine answered with a status outside
	// the known set. Treated as a recognition failure, not a transport one.
	OutcomeUnrecognized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecognized:
		return "recognized"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeUnrecognized:
		return "unrecognized"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is the parsed engine response for one utterance.
type Result struct {
	Outcome    Outcome
	Transcript string
	Words      []WordTiming
	// Detail carries the raw engine status for OutcomeUnrecognized.
	Detail string
}

// Options control a single recognition call.
type Options struct {
	// Language is a BCP-47 tag, e.g. "en-US".
	Language string
	// WordTimestamps requests per-word offsets and durations.
	WordTimestamps bool
}

// Recognizer transcribes one short utterance of WAV audio.
type Recognizer interface {
	RecognizeOnce(ctx context.Context, wav []byte, opts Options) (*Result, error)
}

// TransportError reports a failure to reach the engine or an auth/quota
// rejection. It is distinct from the engine deciding the audio held no
// speech, which is a Result with OutcomeNoMatch.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("speech engine %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("speech engine %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
