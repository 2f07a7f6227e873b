package fluency

// Scoring model constants. The 80-180 WPM comfort band, the 120 WPM center
// and the penalty slopes/caps are fixed values of the assessment model;
// changing any of them changes every historical score's meaning.
const (
	RateBandLowWPM  = 80
	RateBandHighWPM = 180
	RateCenterWPM   = 120

	PausePenaltyPerEvent = 5
	PausePenaltyCap      = 30

	DisfluencyPenaltyPerEvent = 10
	DisfluencyPenaltyCap      = 40
)

// Feedback bands, highest score first.
const (
	FeedbackExcellent     = "Excellent! Your speech was smooth and fluent."
	FeedbackGood          = "Good job! Your fluency is coming along well."
	FeedbackFair          = "Fair effort. Keep practicing to build smoother speech."
	FeedbackNeedsPractice = "Needs practice. Try speaking slowly and taking steady breaths."
)

// Score maps extracted metrics to a fluency score in [0,100]. Speaking rate
// inside the comfort band earns the full rate score; outside it the score
// falls off linearly with distance from the center. Pause and disfluency
// penalties are linear and capped.
func Score(m Metrics) int {
	rateScore := 100
	if m.SpeakingRateWPM < RateBandLowWPM || m.SpeakingRateWPM > RateBandHighWPM {
		dist := m.SpeakingRateWPM - RateCenterWPM
		if dist < 0 {
			dist = -dist
		}
		rateScore = 100 - dist
		if rateScore < 0 {
			rateScore = 0
		}
	}

	pausePenalty := len(m.Pauses) * PausePenaltyPerEvent
	if pausePenalty > PausePenaltyCap {
		pausePenalty = PausePenaltyCap
	}

	disfluencyPenalty := m.DisfluencyCount * DisfluencyPenaltyPerEvent
	if disfluencyPenalty > DisfluencyPenaltyCap {
		disfluencyPenalty = DisfluencyPenaltyCap
	}

	score := rateScore - pausePenalty - disfluencyPenalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Feedback selects the qualitative band for a final score.
func Feedback(score int) string {
	switch {
	case score >= 90:
		return FeedbackExcellent
	case score >= 75:
		return FeedbackGood
	case score >= 60:
		return FeedbackFair
	default:
		return FeedbackNeedsPractice
	}
}
