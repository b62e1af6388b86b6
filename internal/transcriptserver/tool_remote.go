package transcriptserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
)

func registerTranscribeRemote(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcribe_remote",
		Description: "Transcribe a YouTube video through the Bright Data dataset API. Use for videos with no captions at all: triggers a server-side transcription job and polls until the snapshot is ready. Slow (minutes) and requires an API token.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input sources.TranscribeInput) (*mcp.CallToolResult, *sources.TranscribeOutput, error) {
		if input.URL == "" {
			return nil, nil, fmt.Errorf("url is required")
		}
		if engine.Cfg.BrightDataToken == "" {
			return nil, nil, fmt.Errorf("remote transcription disabled: set BRIGHTDATA_API_TOKEN")
		}

		out, err := sources.Transcribe(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, out, nil
	})
}
