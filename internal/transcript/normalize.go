package transcript

import (
	"errors"
	"fmt"
)

// ErrNormalization reports that no known payload shape produced cues.
var ErrNormalization = errors.New("unable to normalize transcript payload")

// accessorKeys are the wrapper-object keys checked in priority order when a
// provider nests its cue list inside an envelope.
var accessorKeys = []string{"fetch", "list", "to_list", "as_list", "get_transcript"}

// Normalize converts a decoded JSON payload into an ordered cue sequence.
// Three shapes are recognized: a record list, a wrapper object carrying the
// list under one of accessorKeys, and remote transcription records keyed by
// start_time/end_time. Anything else fails with ErrNormalization.
func Normalize(v any) (Transcript, error) {
	switch p := v.(type) {
	case Transcript:
		if len(p) > 0 {
			return p, nil
		}
	case []any:
		if len(p) > 0 {
			return recordList(p), nil
		}
	case map[string]any:
		for _, key := range accessorKeys {
			inner, ok := p[key]
			if !ok {
				continue
			}
			if cues, err := Normalize(inner); err == nil {
				return cues, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrNormalization, v)
}

// recordList maps each record field-by-field. Items that are not objects
// still produce a cue with every field null, preserving positions.
func recordList(items []any) Transcript {
	cues := make(Transcript, 0, len(items))
	for _, it := range items {
		rec, ok := it.(map[string]any)
		if !ok {
			cues = append(cues, Cue{})
			continue
		}
		cues = append(cues, cueFromRecord(rec))
	}
	return cues
}

func cueFromRecord(rec map[string]any) Cue {
	cue := Cue{
		Text:       stringField(rec, "text"),
		Start:      floatField(rec, "start"),
		Duration:   floatField(rec, "duration"),
		Speaker:    stringField(rec, "speaker"),
		Confidence: floatField(rec, "confidence"),
	}
	// Remote transcription records carry start_time/end_time instead.
	if cue.Start == nil {
		cue.Start = floatField(rec, "start_time")
	}
	if cue.Duration == nil && cue.Start != nil {
		if end := floatField(rec, "end_time"); end != nil {
			d := round3(*end - *cue.Start)
			if d >= 0 {
				cue.Duration = &d
			}
		}
	}
	return cue
}

func stringField(rec map[string]any, key string) *string {
	if s, ok := rec[key].(string); ok {
		return &s
	}
	return nil
}

func floatField(rec map[string]any, key string) *float64 {
	if f, ok := rec[key].(float64); ok {
		return &f
	}
	return nil
}
