package format

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

func sampleCues() transcript.Transcript {
	return transcript.Transcript{
		{Text: transcript.Ptr("hello world"), Start: transcript.Ptr(0.0), Duration: transcript.Ptr(2.0)},
		{Text: transcript.Ptr("with speaker"), Start: transcript.Ptr(2.0), Duration: transcript.Ptr(1.5),
			Speaker: transcript.Ptr("Alice"), Confidence: transcript.Ptr(0.95)},
		{Text: transcript.Ptr("untimed tail")},
	}
}

func texts(cues transcript.Transcript) []string {
	out := make([]string, len(cues))
	for i, c := range cues {
		if c.Text != nil {
			out[i] = *c.Text
		}
	}
	return out
}

func TestUnsupportedFormatWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xml")
	_, err := Save(sampleCues(), "xml", path)
	require.ErrorIs(t, err, ErrUnsupported)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "no file may exist after an unsupported-format request")
}

func TestSRTRoundTrip(t *testing.T) {
	cues := sampleCues()
	path := filepath.Join(t.TempDir(), "out.srt")
	written, err := Save(cues, "srt", path)
	require.NoError(t, err)
	require.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	parsed := transcript.ParseSubtitles(string(data))
	require.Equal(t, []string{"hello world", "Alice: with speaker", "untimed tail"}, texts(parsed))
	require.Contains(t, string(data), "00:00:02,000 --> 00:00:03,500")
}

func TestVTTRoundTrip(t *testing.T) {
	cues := sampleCues()
	path := filepath.Join(t.TempDir(), "out.vtt")
	_, err := Save(cues, "vtt", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "WEBVTT\n\n"))

	parsed := transcript.ParseSubtitles(string(data))
	require.Equal(t, texts(cues)[0], *parsed[0].Text)
	require.Equal(t, "Alice: with speaker", *parsed[1].Text)
	// Untimed cue rendered on the synthetic timeline: index 2 → 4s start.
	require.Contains(t, string(data), "00:00:04.000 --> 00:00:06.000")
}

func TestJSONRoundTrip(t *testing.T) {
	cues := sampleCues()
	path := filepath.Join(t.TempDir(), "out.json")
	_, err := Save(cues, "json", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed transcript.Transcript
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Equal(t, cues, parsed)

	// Every cue keeps all five keys, null when unknown.
	require.Contains(t, string(data), `"speaker": null`)
	require.Contains(t, string(data), `"confidence": 0.95`)
}

func TestTXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	_, err := Save(sampleCues(), "txt", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello world\n[Alice] with speaker\nuntimed tail\n", string(data))
}

func TestCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	_, err := Save(sampleCues(), "csv", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, []string{"start", "duration", "speaker", "confidence", "text"}, rows[0])
	require.Equal(t, []string{"00:00:02.000", "00:00:01.500", "Alice", "0.95", "with speaker"}, rows[2])
	// Null timing renders as empty strings, not zero timestamps.
	require.Equal(t, []string{"", "", "", "", "untimed tail"}, rows[3])
}

func TestDOCXAndPDFSmoke(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"docx", "pdf"} {
		path := filepath.Join(dir, "out."+name)
		written, err := Save(sampleCues(), name, path)
		require.NoError(t, err, name)
		require.Equal(t, path, written)

		info, err := os.Stat(path)
		require.NoError(t, err, name)
		require.Greater(t, info.Size(), int64(0), name)
	}
}

func TestSupportedIncludesAllWriters(t *testing.T) {
	require.Equal(t, []string{"csv", "docx", "json", "pdf", "srt", "txt", "vtt"}, Supported())
}

func TestSaveCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	_, err := Save(sampleCues(), "TXT", path)
	require.NoError(t, err)
}

func TestDefaultFilename(t *testing.T) {
	require.Equal(t, "abc123_transcript.srt", DefaultFilename("abc123", "SRT"))
}

func TestErrUnsupportedWrapped(t *testing.T) {
	_, err := Save(nil, "yaml", filepath.Join(t.TempDir(), "x.yaml"))
	var target error = ErrUnsupported
	require.True(t, errors.Is(err, target))
	require.Contains(t, err.Error(), "yaml")
}
