package transcriptserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
)

func registerTranscriptGet(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_get",
		Description: "Fetch the transcript of a YouTube video as plain text. Accepts any YouTube URL form (watch, youtu.be, shorts, embed) or a bare video id. Tries caption tracks first, then the transcript panel, then subtitle files.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TranscriptGetInput) (*mcp.CallToolResult, engine.TranscriptGetOutput, error) {
		videoID, err := resolveVideo(input.URL)
		if err != nil {
			return nil, engine.TranscriptGetOutput{}, err
		}

		cues, err := sources.FetchCues(ctx, videoID, toolutil.PreferredLangs(input.Languages))
		if err != nil {
			return nil, engine.TranscriptGetOutput{}, err
		}

		return nil, engine.TranscriptGetOutput{
			VideoID: videoID,
			Cues:    len(cues),
			Text:    joinText(cues),
		}, nil
	})
}

func registerTranscriptSave(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_save",
		Description: "Fetch a YouTube video transcript and save it to a file. Formats: txt, json, srt, vtt, csv, docx, pdf. Timed formats carry cue timestamps; untimed cues get synthetic 2-second windows. Returns the written path.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TranscriptSaveInput) (*mcp.CallToolResult, engine.TranscriptSaveOutput, error) {
		videoID, err := resolveVideo(input.URL)
		if err != nil {
			return nil, engine.TranscriptSaveOutput{}, err
		}
		formatName, err := normFormat(input.Format)
		if err != nil {
			return nil, engine.TranscriptSaveOutput{}, err
		}

		cues, err := sources.FetchCues(ctx, videoID, toolutil.PreferredLangs(input.Languages))
		if err != nil {
			return nil, engine.TranscriptSaveOutput{}, err
		}

		title := ""
		if info, err := sources.FetchVideoInfo(ctx, videoID); err == nil {
			title = info.Title
		}

		path, err := saveCues(ctx, cues, videoID, title, formatName, input.Filename)
		if err != nil {
			return nil, engine.TranscriptSaveOutput{}, err
		}

		return nil, engine.TranscriptSaveOutput{
			VideoID: videoID,
			Path:    path,
			Format:  formatName,
			Cues:    len(cues),
		}, nil
	})
}
