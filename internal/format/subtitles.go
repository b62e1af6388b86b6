package format

import (
	"os"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

func writeSRT(cues transcript.Transcript, path string) error {
	lines := make([]string, 0, len(cues)*4)
	for i := range cues {
		start, end := transcript.RenderWindow(i, cues)
		lines = append(lines,
			strconv.Itoa(i+1),
			transcript.SRTTimestamp(start)+" --> "+transcript.SRTTimestamp(end),
			cueLine(cues[i]),
			"",
		)
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}

func writeVTT(cues transcript.Transcript, path string) error {
	lines := make([]string, 0, len(cues)*3+2)
	lines = append(lines, "WEBVTT", "")
	for i := range cues {
		start, end := transcript.RenderWindow(i, cues)
		lines = append(lines,
			transcript.VTTTimestamp(start)+" --> "+transcript.VTTTimestamp(end),
			cueLine(cues[i]),
			"",
		)
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}
