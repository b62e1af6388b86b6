package transcriptserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

func registerTranscriptHistory(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_history",
		Description: "List previously saved transcript files (local SQLite history). Optionally filter by video id. Returns paths, formats, and cue counts, newest first.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.HistoryListInput) (*mcp.CallToolResult, *engine.HistoryListResult, error) {
		result, err := engine.ListSaves(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
