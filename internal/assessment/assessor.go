// Package assessment sequences one fluency assessment: normalize the upload,
// run speech recognition, extract metrics, score and pick feedback.
package assessment

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/fluency"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/speech"
)

// Normalizer converts an uploaded audio file into the WAV format the speech
// engine accepts and returns the converted file's path.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath string) (string, error)
}

// Input is one assessment request after the upload has been saved to disk.
type Input struct {
	AudioPath               string
	Language                string
	ExpectedDurationSeconds float64
	TargetText              string
}

// Kind classifies how an assessment ended when the pipeline itself did not
// fail. Hard failures (transcoding, engine transport) are returned as errors
// instead.
type Kind int

const (
	// KindScored means recognition succeeded and a score was produced.
	KindScored Kind = iota
	// KindNoSpeech means the engine found no usable speech.
	KindNoSpeech
	// KindUnrecognized means the engine answered with an unknown status.
	KindUnrecognized
)

// Outcome is the terminal artifact of one assessment.
type Outcome struct {
	Kind       Kind
	Transcript string
	Metrics    fluency.Metrics
	Score      int
	Feedback   string
	Words      []speech.WordTiming
}

// Assessor runs assessments. A single instance serves concurrent requests;
// each call works on its own files and state.
type Assessor struct {
	normalizer Normalizer
	recognizer speech.Recognizer
	log        *logrus.Logger
	timeout    time.Duration
	sem        chan struct{}
}

// New builds an Assessor. timeout bounds one whole assessment (conversion
// plus recognition); maxConcurrent bounds simultaneous engine calls, zero
// means unbounded.
func New(n Normalizer, r speech.Recognizer, log *logrus.Logger, timeout time.Duration, maxConcurrent int) *Assessor {
	a := &Assessor{normalizer: n, recognizer: r, log: log, timeout: timeout}
	if maxConcurrent > 0 {
		a.sem = make(chan struct{}, maxConcurrent)
	}
	return a
}

// Assess runs the full pipeline for one request. The converted WAV file is
// always removed before returning, whatever the outcome. The caller owns the
// uploaded input file and its cleanup.
func (a *Assessor) Assess(ctx context.Context, in Input) (*Outcome, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	a.log.WithField("input", in.AudioPath).Info("Normalizing audio for assessment")
	wavPath, err := a.normalizer.Normalize(ctx, in.AudioPath)
	if err != nil {
		return nil, err
	}
	defer a.removeTemp(wavPath)

	wavBytes, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, fmt.Errorf("reading normalized audio: %w", err)
	}

	if err := a.acquireSlot(ctx); err != nil {
		return nil, err
	}
	res, err := a.recognizer.RecognizeOnce(ctx, wavBytes, speech.Options{
		Language:       in.Language,
		WordTimestamps: true,
	})
	a.releaseSlot()
	if err != nil {
		return nil, err
	}

	switch res.Outcome {
	case speech.OutcomeNoMatch:
		a.log.WithField("detail", res.Detail).Info("No speech detected in sample")
		return &Outcome{Kind: KindNoSpeech}, nil
	case speech.OutcomeUnrecognized:
		a.log.WithField("detail", res.Detail).Warn("Engine returned an unknown recognition status")
		return &Outcome{Kind: KindUnrecognized}, nil
	}

	expected := in.ExpectedDurationSeconds
	if expected <= 0 {
		expected = fluency.DefaultExpectedDurationSeconds
	}

	metrics := fluency.Extract(res.Words, fluency.Fallback{
		Transcript:      res.Transcript,
		DurationSeconds: expected,
	})
	score := fluency.Score(metrics)

	a.log.WithFields(logrus.Fields{
		"transcript":   res.Transcript,
		"word_count":   metrics.WordCount,
		"rate_wpm":     metrics.SpeakingRateWPM,
		"pauses":       len(metrics.Pauses),
		"disfluencies": metrics.DisfluencyCount,
		"score":        score,
	}).Info("Assessment scored")

	return &Outcome{
		Kind:       KindScored,
		Transcript: res.Transcript,
		Metrics:    metrics,
		Score:      score,
		Feedback:   fluency.Feedback(score),
		Words:      res.Words,
	}, nil
}

// acquireSlot blocks until an engine slot frees up or the request dies.
func (a *Assessor) acquireSlot(ctx context.Context) error {
	if a.sem == nil {
		return nil
	}
	select {
	case a.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for a recognition slot: %w", ctx.Err())
	}
}

func (a *Assessor) releaseSlot() {
	if a.sem != nil {
		<-a.sem
	}
}

// removeTemp deletes a temporary file. Failures are logged and swallowed;
// cleanup is never part of the contract with the client.
func (a *Assessor) removeTemp(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		a.log.WithFields(logrus.Fields{"path": path, "error": err.Error()}).Warn("Failed to remove temporary audio file")
	}
}
