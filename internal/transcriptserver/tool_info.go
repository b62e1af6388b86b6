package transcriptserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
)

func registerVideoInfo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_info",
		Description: "Fetch metadata for a YouTube video: title, channel, description, and duration. Scraped from the watch page, no API key needed.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoInfoInput) (*mcp.CallToolResult, *engine.VideoInfoOutput, error) {
		videoID, err := resolveVideo(input.URL)
		if err != nil {
			return nil, nil, err
		}
		info, err := sources.FetchVideoInfo(ctx, videoID)
		if err != nil {
			return nil, nil, err
		}
		return nil, info, nil
	})
}
