package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

// Subtitle file fallback. When the structured transcript paths fail we pull
// the caption track as a VTT file and run it through the subtitle parser,
// which tolerates malformed cues and degrades to untimed text blocks.

// RetrievalError means every transcript retrieval path failed for a video.
type RetrievalError struct {
	VideoID string
	Last    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("no transcript retrievable for %s: %v", e.VideoID, e.Last)
}

func (e *RetrievalError) Unwrap() error { return e.Last }

// DownloadSubtitles downloads the best caption track as a VTT file into the
// work dir and returns its path.
func DownloadSubtitles(ctx context.Context, videoID string, langs []string) (string, error) {
	track, err := bestCaptionTrack(ctx, videoID, langs)
	if err != nil {
		return "", err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL+"&fmt=vtt", nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("download subtitles: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return "", fmt.Errorf("read subtitles: %w", err)
	}

	dir := engine.Cfg.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("subtitles dir: %w", err)
	}
	path := filepath.Join(dir, videoID+".subs.vtt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write subtitles: %w", err)
	}
	return path, nil
}

// cuesFromSubtitleFile parses a downloaded subtitle file into cues.
func cuesFromSubtitleFile(path string) (transcript.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cues := transcript.ParseSubtitles(string(data))
	if len(cues) == 0 {
		return nil, fmt.Errorf("no cues in subtitle file %s", filepath.Base(path))
	}
	return cues, nil
}

// FetchCues returns the transcript for a video, consulting the cache first,
// then the structured transcript paths, then the subtitle file fallback.
// Retrieval runs under the slow-operation tracker.
func FetchCues(ctx context.Context, videoID string, langs []string) (transcript.Transcript, error) {
	key := engine.CacheKey("transcript", videoID, fmt.Sprint(langs))
	if cached, ok := engine.CacheLoadJSON[transcript.Transcript](ctx, key); ok && len(cached) > 0 {
		return cached, nil
	}

	var cues transcript.Transcript
	err := engine.TrackOperation(ctx, "fetch_cues", func(ctx context.Context) error {
		var err error
		cues, err = fetchCuesUncached(ctx, videoID, langs)
		return err
	})
	if err != nil {
		return nil, err
	}
	engine.CacheStoreJSON(ctx, key, cues)
	return cues, nil
}

// fetchCuesUncached walks the retrieval paths in order: structured transcript
// fetch, then the subtitle file fallback.
func fetchCuesUncached(ctx context.Context, videoID string, langs []string) (transcript.Transcript, error) {
	cues, err := FetchTranscript(ctx, videoID, langs)
	if err == nil {
		return cues, nil
	}
	lastErr := err

	engine.IncrSubtitleFallback()
	slog.Warn("transcript paths failed, trying subtitle file",
		slog.String("id", videoID), slog.Any("err", err))

	path, err := DownloadSubtitles(ctx, videoID, langs)
	if err == nil {
		defer os.Remove(path)
		if cues, err := cuesFromSubtitleFile(path); err == nil {
			return cues, nil
		} else {
			lastErr = err
		}
	} else {
		lastErr = err
	}

	return nil, &RetrievalError{VideoID: videoID, Last: lastErr}
}
