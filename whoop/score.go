package whoop

// ScoreState reports whether WHOOP has finished computing a record's score.
// Score fields are only populated when the state is ScoreStateScored.
type ScoreState string

const (
	ScoreStateScored       ScoreState = "SCORED"
	ScoreStatePendingScore ScoreState = "PENDING_SCORE"
	ScoreStateUnscorable   ScoreState = "UNSCORABLE"
)

// IsScored reports whether the score is available.
func (s ScoreState) IsScored() bool {
	return s == ScoreStateScored
}
