package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscriptRequests atomic.Int64
	TranscriptErrors   atomic.Int64
	SubtitleFallbacks  atomic.Int64
	FetchRequests      atomic.Int64
	FetchErrors        atomic.Int64
	RemoteJobs         atomic.Int64
	RemoteJobErrors    atomic.Int64
	PlaylistRequests   atomic.Int64
	ChannelRequests    atomic.Int64
	VideoInfoRequests  atomic.Int64
	FilesWritten       atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"transcript_errors":   metrics.TranscriptErrors.Load(),
		"subtitle_fallbacks":  metrics.SubtitleFallbacks.Load(),
		"fetch_requests":      metrics.FetchRequests.Load(),
		"fetch_errors":        metrics.FetchErrors.Load(),
		"remote_jobs":         metrics.RemoteJobs.Load(),
		"remote_job_errors":   metrics.RemoteJobErrors.Load(),
		"playlist_requests":   metrics.PlaylistRequests.Load(),
		"channel_requests":    metrics.ChannelRequests.Load(),
		"video_info_requests": metrics.VideoInfoRequests.Load(),
		"files_written":       metrics.FilesWritten.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"transcript_requests", "transcript_errors", "subtitle_fallbacks",
		"fetch_requests", "fetch_errors",
		"remote_jobs", "remote_job_errors",
		"playlist_requests", "channel_requests", "video_info_requests",
		"files_written",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ and server sub-packages.
func IncrTranscript()       { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptError()  { metrics.TranscriptErrors.Add(1) }
func IncrSubtitleFallback() { metrics.SubtitleFallbacks.Add(1) }
func IncrFetch()            { metrics.FetchRequests.Add(1) }
func IncrFetchError()       { metrics.FetchErrors.Add(1) }
func IncrRemoteJob()        { metrics.RemoteJobs.Add(1) }
func IncrRemoteJobError()   { metrics.RemoteJobErrors.Add(1) }
func IncrPlaylist()         { metrics.PlaylistRequests.Add(1) }
func IncrChannel()          { metrics.ChannelRequests.Add(1) }
func IncrVideoInfo()        { metrics.VideoInfoRequests.Add(1) }
func IncrFileWritten()      { metrics.FilesWritten.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
