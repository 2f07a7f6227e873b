// Package azurestt implements speech.Recognizer against the Azure Speech
// short-audio REST endpoint.
package azurestt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/speech"
)

// ticksPerSecond is the engine's native time unit: one tick is 100 ns. Word
// offsets and durations arrive in ticks and must be divided by this constant
// to become seconds. Any other engine substituted behind speech.Recognizer
// needs its own conversion.
const ticksPerSecond = 10_000_000

const recognitionPath = "/speech/recognition/conversation/cognitiveservices/v1"

// Recognition statuses the engine is known to return.
const (
	statusSuccess               = "Success"
	statusNoMatch               = "NoMatch"
	statusInitialSilenceTimeout = "InitialSilenceTimeout"
	statusBabbleTimeout         = "BabbleTimeout"
)

// Config holds the connection settings for one speech resource.
type Config struct {
	SubscriptionKey string
	Region          string
	// DefaultLanguage applies when a request does not name one. Empty means
	// en-US.
	DefaultLanguage string
	// Endpoint overrides the regional URL when set. Tests use this to point
	// the client at a local server.
	Endpoint   string
	HTTPClient *http.Client
}

// Client calls the engine once per utterance. Safe for concurrent use.
type Client struct {
	key         string
	endpoint    string
	defaultLang string
	httpc       *http.Client
}

// New validates cfg and returns a ready client.
func New(cfg Config) (*Client, error) {
	if cfg.SubscriptionKey == "" {
		return nil, fmt.Errorf("azurestt: subscription key is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		if cfg.Region == "" {
			return nil, fmt.Errorf("azurestt: region is required when no endpoint is set")
		}
		endpoint = fmt.Sprintf("https://%s.stt.speech.microsoft.com%s", cfg.Region, recognitionPath)
	}
	defaultLang := cfg.DefaultLanguage
	if defaultLang == "" {
		defaultLang = "en-US"
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{key: cfg.SubscriptionKey, endpoint: endpoint, defaultLang: defaultLang, httpc: httpc}, nil
}

// RecognizeOnce sends one normalized WAV utterance and classifies the reply.
// Network, auth and quota failures come back as *speech.TransportError; every
// reply the engine itself produced becomes a speech.Result.
func (c *Client) RecognizeOnce(ctx context.Context, wavBytes []byte, opts speech.Options) (*speech.Result, error) {
	lang := opts.Language
	if lang == "" {
		lang = c.defaultLang
	}

	q := url.Values{}
	q.Set("language", lang)
	q.Set("format", "detailed")
	if opts.WordTimestamps {
		q.Set("wordLevelTimestamps", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?"+q.Encode(), bytes.NewReader(wavBytes))
	if err != nil {
		return nil, &speech.TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Content-Type", "audio/wav; codecs=audio/pcm; samplerate=16000")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &speech.TransportError{Op: "recognize", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &speech.TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &speech.TransportError{
			Op:         "recognize",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", truncate(string(body), 200)),
		}
	}

	var payload recognitionResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &speech.TransportError{Op: "decode response", Err: err}
	}

	return payload.toResult(), nil
}

// recognitionResponse mirrors the engine's detailed-format JSON.
type recognitionResponse struct {
	RecognitionStatus string      `json:"RecognitionStatus"`
	DisplayText       string      `json:"DisplayText"`
	Offset            int64       `json:"Offset"`
	Duration          int64       `json:"Duration"`
	NBest             []nBestItem `json:"NBest"`
}

type nBestItem struct {
	Confidence float64     `json:"Confidence"`
	Lexical    string      `json:"Lexical"`
	ITN        string      `json:"ITN"`
	MaskedITN  string      `json:"MaskedITN"`
	Display    string      `json:"Display"`
	Words      []wordEntry `json:"Words"`
}

type wordEntry struct {
	Word     string `json:"Word"`
	Offset   int64  `json:"Offset"`
	Duration int64  `json:"Duration"`
}

func (r *recognitionResponse) toResult() *speech.Result {
	switch r.RecognitionStatus {
	case statusSuccess:
		transcript := r.DisplayText
		var words []speech.WordTiming
		if len(r.NBest) > 0 {
			best := r.NBest[0]
			if transcript == "" {
				if best.Display != "" {
					transcript = best.Display
				} else {
					transcript = best.Lexical
				}
			}
			for _, w := range best.Words {
				words = append(words, speech.WordTiming{
					Text:            w.Word,
					StartSeconds:    secondsFromTicks(w.Offset),
					DurationSeconds: secondsFromTicks(w.Duration),
				})
			}
		}
		return &speech.Result{Outcome: speech.OutcomeRecognized, Transcript: transcript, Words: words}
	case statusNoMatch, statusInitialSilenceTimeout, statusBabbleTimeout:
		return &speech.Result{Outcome: speech.OutcomeNoMatch, Detail: r.RecognitionStatus}
	default:
		return &speech.Result{Outcome: speech.OutcomeUnrecognized, Detail: r.RecognitionStatus}
	}
}

func secondsFromTicks(ticks int64) float64 {
	return float64(ticks) / ticksPerSecond
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
