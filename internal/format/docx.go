package format

import (
	"os"

	"github.com/fumiama/go-docx"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

// writeDOCX renders one paragraph per cue: bold speaker, italic [timestamp],
// then the plain text.
func writeDOCX(cues transcript.Transcript, path string) error {
	doc := docx.New().WithDefaultTheme()
	for _, cue := range cues {
		para := doc.AddParagraph()
		if cue.Speaker != nil && *cue.Speaker != "" {
			para.AddText(*cue.Speaker + " ").Bold()
		}
		if cue.Start != nil {
			para.AddText("[" + transcript.VTTTimestamp(*cue.Start) + "] ").Italic()
		}
		text := ""
		if cue.Text != nil {
			text = *cue.Text
		}
		para.AddText(text)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
