package transcript

import (
	"fmt"
	"math"
)

// ComputeEnd derives a cue's end time: explicit duration wins, then the next
// cue's start, otherwise unknown.
func ComputeEnd(start, duration, nextStart *float64) *float64 {
	if start == nil {
		return nil
	}
	if duration != nil {
		end := *start + *duration
		return &end
	}
	if nextStart != nil {
		end := *nextStart
		return &end
	}
	return nil
}

// RenderWindow returns concrete start/end seconds for the cue at index i.
// Cues with no start at all get a synthetic timeline: start = i*2.0 and a
// 2-second default duration, so untimed transcripts still render as
// monotonically spaced cues.
func RenderWindow(i int, cues Transcript) (float64, float64) {
	cue := cues[i]
	var nextStart *float64
	if i+1 < len(cues) {
		nextStart = cues[i+1].Start
	}

	end := ComputeEnd(cue.Start, cue.Duration, nextStart)
	start := cue.Start
	if start == nil {
		s := float64(i) * 2.0
		start = &s
		end = nil
	}
	if end == nil {
		d := 2.0
		if cue.Duration != nil {
			d = *cue.Duration
		}
		e := *start + d
		end = &e
	}
	return *start, *end
}

// SRTTimestamp renders seconds as "HH:MM:SS,mmm".
func SRTTimestamp(secs float64) string {
	h, m, s, ms := splitSeconds(secs)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// VTTTimestamp renders seconds as "HH:MM:SS.mmm".
func VTTTimestamp(secs float64) string {
	h, m, s, ms := splitSeconds(secs)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func splitSeconds(secs float64) (h, m, s, ms int) {
	whole := int(secs)
	ms = int(math.Round((secs - float64(whole)) * 1000))
	if ms == 1000 {
		// A fraction that rounds up to a full second carries into the
		// seconds column; the millisecond field stays three digits.
		whole++
		ms = 0
	}
	h = whole / 3600
	m = (whole % 3600) / 60
	s = whole % 60
	return h, m, s, ms
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
