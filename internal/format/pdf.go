package format

import (
	"github.com/go-pdf/fpdf"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

// writePDF renders one block per cue: an optional bold "speaker [timestamp]"
// header line followed by the body text, flowing across pages.
func writePDF(cues transcript.Transcript, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 11)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, cue := range cues {
		header := ""
		if cue.Speaker != nil && *cue.Speaker != "" {
			header = *cue.Speaker + " "
		}
		if cue.Start != nil {
			header += "[" + transcript.VTTTimestamp(*cue.Start) + "] "
		}
		if header != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.MultiCell(0, 6, tr(header), "", "", false)
			pdf.SetFont("Arial", "", 11)
		}
		text := ""
		if cue.Text != nil {
			text = *cue.Text
		}
		pdf.MultiCell(0, 6, tr(text), "", "", false)
		pdf.Ln(2)
	}
	return pdf.OutputFileAndClose(path)
}
