package fluency

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/speech"
)

const (
	// PauseThresholdSeconds is the minimum silence between two words that
	// counts as a pause.
	PauseThresholdSeconds = 0.3

	// Prolongation: a word is considered stretched when it takes longer
	// than prolongationFactor times its expected length, where expected
	// length is expectedSecondsPerChar per character.
	expectedSecondsPerChar = 0.1
	prolongationFactor     = 1.5

	// DefaultExpectedDurationSeconds is assumed when the engine returned a
	// transcript without word detail and the caller gave no duration hint.
	// Carried over from the original assessment flow.
	DefaultExpectedDurationSeconds = 5.0
)

// Pause is a silence gap between two consecutive words longer than the
// threshold. Position is the index of the word that follows the gap.
type Pause struct {
	Position        int     `json:"position"`
	DurationSeconds float64 `json:"duration"`
}

// Metrics is the per-assessment aggregate derived from word timings.
type Metrics struct {
	WordCount            int
	TotalDurationSeconds float64
	SpeakingRateWPM      int
	Pauses               []Pause
	DisfluencyCount      int
}

// Fallback supplies the values used when the engine produced a transcript
// but no per-word timing.
type Fallback struct {
	Transcript      string
	DurationSeconds float64
}

// Extract walks the ordered word list once and derives word count, total
// duration, speaking rate, pauses and disfluencies. With an empty word list
// it falls back to counting whitespace-separated tokens of fb.Transcript over
// fb.DurationSeconds. Pure function, safe for concurrent use.
func Extract(words []speech.WordTiming, fb Fallback) Metrics {
	if len(words) == 0 {
		m := Metrics{
			WordCount:            len(strings.Fields(fb.Transcript)),
			TotalDurationSeconds: fb.DurationSeconds,
		}
		m.SpeakingRateWPM = speakingRate(m.WordCount, m.TotalDurationSeconds)
		return m
	}

	last := words[len(words)-1]
	m := Metrics{
		WordCount:            len(words),
		TotalDurationSeconds: last.StartSeconds + last.DurationSeconds,
	}
	m.SpeakingRateWPM = speakingRate(m.WordCount, m.TotalDurationSeconds)

	var prevEnd float64
	var prevText string
	for i, w := range words {
		if i > 0 {
			if gap := w.StartSeconds - prevEnd; gap > PauseThresholdSeconds {
				m.Pauses = append(m.Pauses, Pause{Position: i, DurationSeconds: gap})
			}
			if strings.EqualFold(prevText, w.Text) {
				m.DisfluencyCount++
			}
		}
		// Prolongation applies to every word, including the first. A word
		// may count twice when it is both repeated and stretched.
		expected := expectedSecondsPerChar * float64(utf8.RuneCountInString(w.Text))
		if w.DurationSeconds > prolongationFactor*expected {
			m.DisfluencyCount++
		}
		prevEnd = w.StartSeconds + w.DurationSeconds
		prevText = w.Text
	}
	return m
}

// speakingRate converts a word count over a duration into words per minute.
// A zero or negative duration yields 0 rather than dividing by zero.
func speakingRate(wordCount int, totalSeconds float64) int {
	if totalSeconds <= 0 {
		return 0
	}
	return int(math.Round(float64(wordCount) / totalSeconds * 60))
}
