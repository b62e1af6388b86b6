// Package transcript defines the cue data model shared by every retrieval
// source and format writer, plus normalization, timing, and subtitle parsing.
package transcript

// Cue is one timed (or untimed) unit of transcript text. All five fields are
// always present in JSON output; a null value means the source did not carry
// that piece of data.
type Cue struct {
	Text       *string  `json:"text"`
	Start      *float64 `json:"start"`
	Duration   *float64 `json:"duration"`
	Speaker    *string  `json:"speaker"`
	Confidence *float64 `json:"confidence"`
}

// Transcript is an ordered cue sequence. Order is the spoken sequence and is
// preserved through every transform.
type Transcript []Cue

// Ptr returns a pointer to v, for building cues with literal values.
func Ptr[T any](v T) *T {
	return &v
}
