package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

// Timed transcript fetching.
// Primary:  scrape watch page ytInitialPlayerResponse → caption XML (works from any IP)
// Fallback: /next → engagement panel → /get_transcript  (works from datacenter IPs)
// Fallback: ANDROID Innertube /player → captionTracks   (works from non-blocked IPs)

// ErrCaptionsUnavailable means the video exists but exposes no usable captions.
var ErrCaptionsUnavailable = errors.New("captions unavailable")

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// getTranscriptRE extracts the continuation token from a raw /next JSON response.
var getTranscriptRE = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

func extractTranscriptToken(data []byte) (string, error) {
	if m := getTranscriptRE.FindSubmatch(data); len(m) >= 2 {
		// The params value in the /next JSON response is URL-encoded.
		// /get_transcript expects the decoded (raw base64) form.
		decoded, err := url.QueryUnescape(string(m[1]))
		if err != nil {
			return string(m[1]), nil
		}
		return decoded, nil
	}
	return "", errors.New("getTranscriptEndpoint not found in engagement panels")
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// parseTranscriptSegments converts a /get_transcript JSON response into timed cues.
func parseTranscriptSegments(resp ytGetTranscriptResp) transcript.Transcript {
	var cues transcript.Transcript
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		segs := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, seg := range segs {
			sr := seg.TranscriptSegmentRenderer
			if sr == nil {
				continue
			}
			var parts []string
			for _, run := range sr.Snippet.Runs {
				if run.Text != "" {
					parts = append(parts, run.Text)
				}
			}
			text := strings.TrimSpace(strings.Join(parts, " "))
			if text == "" {
				continue
			}
			cue := transcript.Cue{Text: transcript.Ptr(text)}
			if startMs, err := strconv.ParseFloat(sr.StartMs, 64); err == nil {
				start := round3(startMs / 1000)
				cue.Start = transcript.Ptr(start)
				if endMs, err := strconv.ParseFloat(sr.EndMs, 64); err == nil {
					if dur := round3(endMs/1000 - start); dur >= 0 {
						cue.Duration = transcript.Ptr(dur)
					}
				}
			}
			cues = append(cues, cue)
		}
	}
	return cues
}

// fetchTranscriptViaEngagementPanel fetches a transcript via:
//  1. POST /next → get engagementPanels containing transcript continuation token
//  2. POST /get_transcript with the token → JSON segments
//
// This approach works from datacenter IPs where /player returns LOGIN_REQUIRED.
func fetchTranscriptViaEngagementPanel(ctx context.Context, videoID string) (transcript.Transcript, error) {
	visitorData := generateVisitorData()

	nextData, err := postInnerTubeWEB(ctx, ytNextURL, map[string]any{
		"videoId": videoID,
		"context": ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("/next: %w", err)
	}

	token, err := extractTranscriptToken(nextData)
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}

	transcriptData, err := postInnerTubeWEB(ctx, ytGetTranscriptURL, map[string]any{
		"params": token,
		"context": map[string]any{
			"client": ytWebClientCtx{
				ClientName:    "WEB",
				ClientVersion: ytWebVersion,
				VisitorData:   visitorData,
				Hl:            "en",
				Gl:            "US",
			},
		},
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("/get_transcript: %w", err)
	}

	var transcriptResp ytGetTranscriptResp
	if err := json.Unmarshal(transcriptData, &transcriptResp); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	cues := parseTranscriptSegments(transcriptResp)
	if len(cues) == 0 {
		return nil, errors.New("empty transcript segments")
	}
	return cues, nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the given language preferences.
// Skips tracks that require PoToken — those only work in a browser.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return tracks[0], false
	}
	// 1. Manual track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	// 2. Auto-generated track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	// 3. Any English track
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// fetchTimedText fetches a YouTube timedtext XML caption URL and converts it to cues.
func fetchTimedText(ctx context.Context, baseURL string) (transcript.Transcript, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, err
	}

	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	var cues transcript.Transcript
	for _, line := range tt.Lines {
		text := engine.CleanHTML(html.UnescapeString(line.Text))
		if text == "" {
			continue
		}
		cue := transcript.Cue{Text: transcript.Ptr(text)}
		if line.Start != nil {
			cue.Start = transcript.Ptr(round3(*line.Start))
		}
		if line.Dur != nil && *line.Dur >= 0 {
			cue.Duration = transcript.Ptr(round3(*line.Dur))
		}
		cues = append(cues, cue)
	}
	if len(cues) == 0 {
		return nil, errors.New("empty timedtext")
	}
	return cues, nil
}

// captionTracksFromPage scrapes caption tracks out of the watch page HTML.
func captionTracksFromPage(ctx context.Context, videoID string) ([]captionTrack, error) {
	body, err := fetchWatchPage(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	playerResp, err := playerResponseFromPage(body)
	if err != nil {
		return nil, err
	}
	if playerResp.Captions == nil {
		return nil, fmt.Errorf("%w: no captions in ytInitialPlayerResponse", ErrCaptionsUnavailable)
	}
	tracks := playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no caption tracks in watch page", ErrCaptionsUnavailable)
	}
	return tracks, nil
}

// captionTracksFromPlayer fetches caption tracks via the ANDROID Innertube /player endpoint.
// Works from non-blocked (residential/cloud) IP addresses.
func captionTracksFromPlayer(ctx context.Context, videoID string) ([]captionTrack, error) {
	if err := engine.WaitYouTube(ctx); err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ytInnertubeURL+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()

	var playerResp innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&playerResp); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	if playerResp.Captions == nil {
		reason := ""
		if playerResp.PlayabilityStatus != nil {
			reason = playerResp.PlayabilityStatus.Reason
		}
		if reason != "" {
			return nil, fmt.Errorf("%w: %s", ErrCaptionsUnavailable, reason)
		}
		return nil, fmt.Errorf("%w: no captions in player response", ErrCaptionsUnavailable)
	}
	tracks := playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no caption tracks", ErrCaptionsUnavailable)
	}
	return tracks, nil
}

// bestCaptionTrack resolves the best caption track for a video, trying the
// watch page first and the ANDROID player second.
func bestCaptionTrack(ctx context.Context, videoID string, langs []string) (captionTrack, error) {
	tracks, err := captionTracksFromPage(ctx, videoID)
	if err != nil {
		slog.Debug("youtube: page tracks failed, trying player",
			slog.String("id", videoID), slog.Any("err", err))
		tracks, err = captionTracksFromPlayer(ctx, videoID)
		if err != nil {
			return captionTrack{}, err
		}
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return captionTrack{}, fmt.Errorf("%w: all caption tracks require PoToken", ErrCaptionsUnavailable)
	}
	return track, nil
}

func transcriptViaTracks(ctx context.Context, tracks []captionTrack, langs []string) (transcript.Transcript, error) {
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return nil, fmt.Errorf("%w: all caption tracks require PoToken", ErrCaptionsUnavailable)
	}
	return fetchTimedText(ctx, track.BaseURL)
}

// FetchTranscript fetches the timed transcript for a YouTube video, trying
// each retrieval path in turn and returning the first that yields cues.
func FetchTranscript(ctx context.Context, videoID string, langs []string) (transcript.Transcript, error) {
	engine.IncrTranscript()

	var lastErr error

	if tracks, err := captionTracksFromPage(ctx, videoID); err == nil {
		if cues, err := transcriptViaTracks(ctx, tracks, langs); err == nil {
			return cues, nil
		} else {
			lastErr = err
		}
	} else {
		lastErr = err
	}
	slog.Warn("youtube: page scrape failed, trying engagement panel",
		slog.String("id", videoID), slog.Any("err", lastErr))

	if cues, err := fetchTranscriptViaEngagementPanel(ctx, videoID); err == nil {
		return cues, nil
	} else {
		lastErr = err
		slog.Warn("youtube: engagement panel failed, trying player",
			slog.String("id", videoID), slog.Any("err", err))
	}

	tracks, err := captionTracksFromPlayer(ctx, videoID)
	if err != nil {
		engine.IncrTranscriptError()
		return nil, fmt.Errorf("transcript %s: %w (last: %v)", videoID, err, lastErr)
	}
	cues, err := transcriptViaTracks(ctx, tracks, langs)
	if err != nil {
		engine.IncrTranscriptError()
		return nil, fmt.Errorf("transcript %s: %w", videoID, err)
	}
	return cues, nil
}
