// Package format serializes transcript cue sequences into output files.
// Supported formats: txt, json, srt, vtt, csv, docx, pdf.
package format

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

// ErrUnsupported reports an unknown output format name.
var ErrUnsupported = errors.New("unsupported format")

var writers = map[string]func(transcript.Transcript, string) error{
	"txt":  writeTXT,
	"json": writeJSON,
	"srt":  writeSRT,
	"vtt":  writeVTT,
	"csv":  writeCSV,
	"docx": writeDOCX,
	"pdf":  writePDF,
}

// Save writes cues to path in the named format and returns the path written.
// The format name is validated before any file is created, so an unsupported
// name never leaves a partial file behind.
func Save(cues transcript.Transcript, name, path string) (string, error) {
	w, ok := writers[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	if err := w(cues, path); err != nil {
		return "", fmt.Errorf("write %s: %w", strings.ToLower(name), err)
	}
	return path, nil
}

// Supported returns the accepted format names, sorted.
func Supported() []string {
	names := make([]string, 0, len(writers))
	for name := range writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultFilename is the conventional output name when the caller did not
// pick one: "<videoID>_transcript.<format>".
func DefaultFilename(videoID, name string) string {
	return videoID + "_transcript." + strings.ToLower(name)
}

// cueLine renders the cue body for srt/vtt/txt: "speaker: text" when a
// speaker is known, bare text otherwise.
func cueLine(cue transcript.Cue) string {
	text := ""
	if cue.Text != nil {
		text = *cue.Text
	}
	if cue.Speaker != nil && *cue.Speaker != "" {
		return *cue.Speaker + ": " + text
	}
	return text
}
