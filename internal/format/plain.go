package format

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

func writeTXT(cues transcript.Transcript, path string) error {
	var sb strings.Builder
	for _, cue := range cues {
		text := ""
		if cue.Text != nil {
			text = *cue.Text
		}
		if cue.Speaker != nil && *cue.Speaker != "" {
			sb.WriteString("[" + *cue.Speaker + "] ")
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func writeJSON(cues transcript.Transcript, path string) error {
	if cues == nil {
		cues = transcript.Transcript{}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cues); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(cues transcript.Transcript, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	// start/duration use the VTT timestamp format, same as docx/pdf headers.
	ts := func(v *float64) string {
		if v == nil {
			return ""
		}
		return transcript.VTTTimestamp(*v)
	}

	if err := w.Write([]string{"start", "duration", "speaker", "confidence", "text"}); err != nil {
		f.Close()
		return err
	}
	for _, cue := range cues {
		speaker, text, confidence := "", "", ""
		if cue.Speaker != nil {
			speaker = *cue.Speaker
		}
		if cue.Text != nil {
			text = *cue.Text
		}
		if cue.Confidence != nil {
			confidence = strconv.FormatFloat(*cue.Confidence, 'g', -1, 64)
		}
		if err := w.Write([]string{ts(cue.Start), ts(cue.Duration), speaker, confidence, text}); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
