// Package transcriptserver registers the MCP tools exposed by go_transcript:
// transcript fetching, multi-format saving, playlist and channel batch runs,
// remote transcription, video metadata, and save history.
package transcriptserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
	"github.com/anatolykoptev/go_transcript/internal/format"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

// RegisterTools registers all transcript tools on the given MCP server.
func RegisterTools(server *mcp.Server) {
	registerTranscriptGet(server)
	registerTranscriptSave(server)
	registerPlaylistTranscripts(server)
	registerChannelTranscripts(server)
	registerTranscribeRemote(server)
	registerVideoInfo(server)
	registerTranscriptHistory(server)
}

// normFormat validates and defaults the output format name.
func normFormat(name string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(name))
	if f == "" {
		return "txt", nil
	}
	for _, s := range format.Supported() {
		if f == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s (supported: %s)", format.ErrUnsupported, name, strings.Join(format.Supported(), ", "))
}

// saveCues writes cues to the output dir in the given format and records the
// save in history. Returns the absolute path written.
func saveCues(ctx context.Context, cues transcript.Transcript, videoID, title, formatName, filename string) (string, error) {
	if filename == "" {
		filename = format.DefaultFilename(videoID, formatName)
	}
	filename = toolutil.EnsureExt(toolutil.SafeFilename(filename), formatName)

	dir := engine.Cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("output dir: %w", err)
	}

	path, err := format.Save(cues, formatName, filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	engine.IncrFileWritten()

	if _, err := engine.RecordSave(ctx, engine.SavedTranscript{
		VideoID: videoID,
		Title:   title,
		Format:  formatName,
		Path:    path,
		Cues:    len(cues),
	}); err != nil {
		// History is best effort; the file is already on disk.
		return path, nil
	}
	return path, nil
}

// joinText flattens cues into plain text, one line per cue.
func joinText(cues transcript.Transcript) string {
	var sb strings.Builder
	for _, cue := range cues {
		if cue.Text == nil || *cue.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		if cue.Speaker != nil && *cue.Speaker != "" {
			sb.WriteString(*cue.Speaker)
			sb.WriteString(": ")
		}
		sb.WriteString(*cue.Text)
	}
	return sb.String()
}

// resolveVideo extracts the video id from tool input.
func resolveVideo(rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("url is required")
	}
	return sources.ExtractVideoID(rawURL)
}
