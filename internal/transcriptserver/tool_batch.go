package transcriptserver

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
)

// batchWorkers caps concurrent per-video fetches in playlist/channel runs.
// The shared YouTube rate limiter paces the actual requests.
const batchWorkers = 3

// runBatch fetches and saves transcripts for a list of videos concurrently,
// preserving input order in the results.
func runBatch(ctx context.Context, videos []engine.PlaylistVideo, formatName, template string, langs []string) []engine.BatchItemResult {
	results := make([]engine.BatchItemResult, len(videos))
	sem := make(chan struct{}, batchWorkers)
	var wg sync.WaitGroup

	for i, video := range videos {
		wg.Add(1)
		go func(idx int, v engine.PlaylistVideo) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := engine.BatchItemResult{URL: v.URL}
			cues, err := sources.FetchCues(ctx, v.ID, langs)
			if err != nil {
				result.Error = err.Error()
				results[idx] = result
				return
			}

			filename := toolutil.ApplyTemplate(template, idx+1, v.ID, v.Title, formatName)
			path, err := saveCues(ctx, cues, v.ID, v.Title, formatName, filename)
			if err != nil {
				result.Error = err.Error()
				results[idx] = result
				return
			}
			result.OK = true
			result.Path = path
			results[idx] = result
		}(i, video)
	}
	wg.Wait()
	return results
}

func countOK(results []engine.BatchItemResult) (succeeded, failed int) {
	for _, r := range results {
		if r.OK {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

func registerPlaylistTranscripts(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "playlist_transcripts",
		Description: "Save transcripts for every video in a YouTube playlist. One output file per video, named via an optional template with {index}, {video_id}, {title}, {ext} placeholders. Videos without captions are reported per-item, not fatal.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PlaylistTranscriptsInput) (*mcp.CallToolResult, engine.PlaylistTranscriptsOutput, error) {
		engine.IncrPlaylist()

		playlistID, err := sources.ExtractPlaylistID(input.URL)
		if err != nil {
			return nil, engine.PlaylistTranscriptsOutput{}, err
		}
		formatName, err := normFormat(input.Format)
		if err != nil {
			return nil, engine.PlaylistTranscriptsOutput{}, err
		}

		videos, err := sources.PlaylistVideos(ctx, playlistID, input.Limit)
		if err != nil {
			return nil, engine.PlaylistTranscriptsOutput{}, err
		}

		results := runBatch(ctx, videos, formatName, input.Template, toolutil.PreferredLangs(input.Languages))
		succeeded, failed := countOK(results)
		return nil, engine.PlaylistTranscriptsOutput{
			PlaylistID: playlistID,
			Total:      len(results),
			Succeeded:  succeeded,
			Failed:     failed,
			Results:    results,
		}, nil
	})
}

func registerChannelTranscripts(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_transcripts",
		Description: "Save transcripts for a YouTube channel's uploads. Takes a channel id (UC...) and walks its uploads playlist. One output file per video; use limit to cap large channels.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ChannelTranscriptsInput) (*mcp.CallToolResult, engine.ChannelTranscriptsOutput, error) {
		engine.IncrChannel()

		if input.ChannelID == "" {
			return nil, engine.ChannelTranscriptsOutput{}, fmt.Errorf("channel_id is required")
		}
		uploads, err := sources.ChannelUploadsPlaylist(input.ChannelID)
		if err != nil {
			return nil, engine.ChannelTranscriptsOutput{}, err
		}
		formatName, err := normFormat(input.Format)
		if err != nil {
			return nil, engine.ChannelTranscriptsOutput{}, err
		}

		videos, err := sources.PlaylistVideos(ctx, uploads, input.Limit)
		if err != nil {
			return nil, engine.ChannelTranscriptsOutput{}, err
		}

		results := runBatch(ctx, videos, formatName, input.Template, toolutil.PreferredLangs(input.Languages))
		succeeded, failed := countOK(results)
		return nil, engine.ChannelTranscriptsOutput{
			ChannelID: input.ChannelID,
			Total:     len(results),
			Succeeded: succeeded,
			Failed:    failed,
			Results:   results,
		}, nil
	})
}
