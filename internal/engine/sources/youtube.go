package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// YouTube URL handling, watch page scraping, and playlist/channel listing.
// The implementation is split across three files by responsibility:
//   youtube_innertube.go  — Innertube API types, constants, and low-level HTTP primitives
//   youtube_transcript.go — timed transcript fetching (page scrape, engagement panel, ANDROID player)
//   youtube.go            — URL/id parsing, video metadata, playlist and channel listing

// ErrInvalidURL means no video id could be extracted from the input.
var ErrInvalidURL = errors.New("invalid YouTube URL")

var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)

// ExtractVideoID pulls the video id out of any YouTube URL form: watch URLs
// with a v parameter, youtu.be short links, /shorts/, /embed/, /live/ paths,
// or a bare id passed through as-is.
func ExtractVideoID(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	if videoIDRe.MatchString(s) && !strings.Contains(s, "/") {
		return s, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	if v := u.Query().Get("v"); v != "" {
		return v, nil
	}

	// youtu.be/<id>, /shorts/<id>, /embed/<id>, /live/<id>
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if last := segs[len(segs)-1]; videoIDRe.MatchString(last) {
		return last, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
}

// ExtractPlaylistID pulls a playlist id from a playlist URL, or accepts a bare id.
func ExtractPlaylistID(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}
	if !strings.Contains(s, "/") && !strings.Contains(s, "?") {
		return s, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	if list := u.Query().Get("list"); list != "" {
		return list, nil
	}
	return "", fmt.Errorf("%w: no playlist id in %s", ErrInvalidURL, rawURL)
}

// ChannelUploadsPlaylist maps a channel id (UC...) to its uploads playlist (UU...).
func ChannelUploadsPlaylist(channelID string) (string, error) {
	id := strings.TrimSpace(channelID)
	if !strings.HasPrefix(id, "UC") || len(id) < 10 {
		return "", fmt.Errorf("%w: channel id must start with UC: %s", ErrInvalidURL, channelID)
	}
	return "UU" + id[2:], nil
}

// fetchWatchPage fetches a YouTube page's HTML. Prefers the stealth browser
// client when configured; falls back to the plain HTTP fetch path.
func fetchWatchPage(ctx context.Context, pageURL string) ([]byte, error) {
	if bc := engine.Cfg.BrowserClient; bc != nil {
		if err := engine.WaitYouTube(ctx); err != nil {
			return nil, err
		}
		headers := engine.ChromeHeaders()
		headers["Accept-Language"] = "en-US,en;q=0.9"
		data, _, status, err := bc.Do("GET", pageURL, headers, nil)
		if err != nil {
			return nil, fmt.Errorf("browser fetch: %w", err)
		}
		if status != 200 {
			return nil, fmt.Errorf("browser fetch: HTTP %d", status)
		}
		return data, nil
	}

	if err := engine.WaitYouTube(ctx); err != nil {
		return nil, err
	}
	resp, err := engine.FetchWithRetry(ctx, pageURL, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return engine.ReadResponseBody(resp)
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	var prev byte
	for i, c := range b {
		if inStr {
			if c == '"' && prev != '\\' {
				inStr = false
			}
		} else {
			switch c {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
		prev = c
	}
	return nil
}

// playerResponseFromPage scrapes ytInitialPlayerResponse JSON out of watch page HTML.
func playerResponseFromPage(body []byte) (*innertubePlayerResp, error) {
	idx := strings.Index(string(body), ytInitialPlayerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}
	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &playerResp, nil
}

// FetchVideoInfo fetches video metadata by scraping the watch page.
// Falls back to <title> and meta tags when videoDetails is missing.
func FetchVideoInfo(ctx context.Context, videoID string) (*engine.VideoInfoOutput, error) {
	engine.IncrVideoInfo()

	watchURL := "https://www.youtube.com/watch?v=" + videoID
	out := &engine.VideoInfoOutput{VideoID: videoID, URL: watchURL}

	key := engine.CacheKey("video_info", videoID)
	if cached, ok := engine.CacheLoadJSON[engine.VideoInfoOutput](ctx, key); ok {
		return &cached, nil
	}

	body, err := fetchWatchPage(ctx, watchURL)
	if err != nil {
		return nil, fmt.Errorf("video info %s: %w", videoID, err)
	}

	if playerResp, perr := playerResponseFromPage(body); perr == nil && playerResp.VideoDetails != nil {
		vd := playerResp.VideoDetails
		out.Title = vd.Title
		out.Channel = vd.Author
		out.ChannelID = vd.ChannelID
		out.Description = engine.TruncateRunes(vd.ShortDescription, 2000, "...")
		if secs, err := strconv.Atoi(vd.LengthSeconds); err == nil {
			out.DurationSeconds = secs
		}
	}
	if out.Title == "" {
		fillInfoFromHTML(body, out)
	}
	if out.Title == "" {
		return nil, fmt.Errorf("video info %s: no metadata in watch page", videoID)
	}

	engine.CacheStoreJSON(ctx, key, *out)
	return out, nil
}

// fillInfoFromHTML pulls title/description from the page's meta tags.
func fillInfoFromHTML(body []byte, out *engine.VideoInfoOutput) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if out.Title == "" && n.FirstChild != nil {
					out.Title = strings.TrimSuffix(strings.TrimSpace(n.FirstChild.Data), " - YouTube")
				}
			case "meta":
				var name, content string
				for _, a := range n.Attr {
					switch a.Key {
					case "name", "property":
						name = a.Val
					case "content":
						content = a.Val
					}
				}
				switch name {
				case "og:title", "twitter:title":
					if out.Title == "" {
						out.Title = content
					}
				case "og:description", "description":
					if out.Description == "" {
						out.Description = content
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// --- playlist listing via Innertube /browse ---

type ytPlaylistVideoRenderer struct {
	VideoID string `json:"videoId"`
	Title   struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
		SimpleText string `json:"simpleText"`
	} `json:"title"`
}

// PlaylistVideos lists the videos of a playlist via the Innertube /browse endpoint.
func PlaylistVideos(ctx context.Context, playlistID string, limit int) ([]engine.PlaylistVideo, error) {
	visitorData := generateVisitorData()
	data, err := postInnerTubeWEB(ctx, ytBrowseURL, map[string]any{
		"browseId": "VL" + playlistID,
		"context":  ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, err)
	}

	videos := extractPlaylistVideos(data, limit)
	if len(videos) == 0 {
		return nil, fmt.Errorf("playlist %s: no videos found", playlistID)
	}
	return videos, nil
}

// extractPlaylistVideos recursively walks /browse JSON for playlistVideoRenderer entries.
func extractPlaylistVideos(data []byte, limit int) []engine.PlaylistVideo {
	var results []engine.PlaylistVideo
	seen := make(map[string]bool)
	var walk func(v json.RawMessage)
	walk = func(v json.RawMessage) {
		if limit > 0 && len(results) >= limit {
			return
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(v, &obj); err == nil {
			if raw, ok := obj["playlistVideoRenderer"]; ok {
				var pr ytPlaylistVideoRenderer
				if err := json.Unmarshal(raw, &pr); err == nil && pr.VideoID != "" && !seen[pr.VideoID] {
					seen[pr.VideoID] = true
					title := pr.Title.SimpleText
					if title == "" && len(pr.Title.Runs) > 0 {
						title = pr.Title.Runs[0].Text
					}
					results = append(results, engine.PlaylistVideo{
						ID:    pr.VideoID,
						Title: title,
						URL:   "https://www.youtube.com/watch?v=" + pr.VideoID,
					})
					return
				}
			}
			for _, child := range obj {
				if limit > 0 && len(results) >= limit {
					return
				}
				walk(child)
			}
			return
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(v, &arr); err == nil {
			for _, item := range arr {
				if limit > 0 && len(results) >= limit {
					return
				}
				walk(item)
			}
		}
	}
	walk(data)
	return results
}
