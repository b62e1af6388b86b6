package sources

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"watch URL with extra params", "https://www.youtube.com/watch?t=42&v=dQw4w9WgXcQ&list=PLx", "dQw4w9WgXcQ", false},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", false},
		{"shorts", "https://www.youtube.com/shorts/abc123DEF45", "abc123DEF45", false},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"live", "https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"empty", "", "", true},
		{"no id", "https://www.youtube.com/", "", true},
		{"short path segment", "https://www.youtube.com/feed", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("err = %v, want ErrInvalidURL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/playlist?list=PLabc123", "PLabc123", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLxyz789", "PLxyz789", false},
		{"PLabc123", "PLabc123", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractPlaylistID(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ExtractPlaylistID(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ExtractPlaylistID(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestChannelUploadsPlaylist(t *testing.T) {
	got, err := ChannelUploadsPlaylist("UC_x5XG1OV2P6uZZ5FSM9Ttw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "UU_x5XG1OV2P6uZZ5FSM9Ttw" {
		t.Errorf("got %q", got)
	}

	if _, err := ChannelUploadsPlaylist("PLabc123"); err == nil {
		t.Error("expected error for non-UC id")
	}
	if _, err := ChannelUploadsPlaylist("UC"); err == nil {
		t.Error("expected error for truncated id")
	}
}

func TestPickBestTrack(t *testing.T) {
	manual := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/api?lang=" + lang, LanguageCode: lang}
	}
	asr := func(lang string) captionTrack {
		return captionTrack{BaseURL: "https://yt/api?lang=" + lang + "&kind=asr", LanguageCode: lang, Kind: "asr"}
	}
	poToken := captionTrack{BaseURL: "https://yt/api?lang=en&exp=xpe", LanguageCode: "en"}

	tests := []struct {
		name    string
		tracks  []captionTrack
		langs   []string
		wantURL string
		wantOK  bool
	}{
		{"manual preferred over asr", []captionTrack{asr("en"), manual("en")}, []string{"en"}, manual("en").BaseURL, true},
		{"asr when no manual", []captionTrack{asr("en")}, []string{"en"}, asr("en").BaseURL, true},
		{"language priority order", []captionTrack{manual("en"), manual("de")}, []string{"de", "en"}, manual("de").BaseURL, true},
		{"english prefix fallback", []captionTrack{manual("fr"), manual("en-GB")}, []string{"ja"}, manual("en-GB").BaseURL, true},
		{"first usable fallback", []captionTrack{manual("fr"), manual("es")}, []string{"ja"}, manual("fr").BaseURL, true},
		{"skips potoken tracks", []captionTrack{poToken, manual("de")}, []string{"en"}, manual("de").BaseURL, true},
		{"all potoken", []captionTrack{poToken}, []string{"en"}, poToken.BaseURL, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickBestTrack(tt.tracks, tt.langs)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got.BaseURL != tt.wantURL {
				t.Errorf("got %q, want %q", got.BaseURL, tt.wantURL)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple object", `{"a":1};var x`, `{"a":1}`},
		{"nested", `{"a":{"b":{"c":[1,2]}}} trailing`, `{"a":{"b":{"c":[1,2]}}}`},
		{"braces in strings", `{"a":"}{"}rest`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"\"}"}x`, `{"a":"\"}"}`},
		{"not an object", `[1,2,3]`, ""},
		{"unterminated", `{"a":1`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON([]byte(tt.input))
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTranscriptToken(t *testing.T) {
	body := []byte(`{"engagementPanels":[{"getTranscriptEndpoint":{"params":"CgtkUXc0dzlXZ1hjUQ%3D%3D"}}]}`)
	token, err := extractTranscriptToken(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "CgtkUXc0dzlXZ1hjUQ==" {
		t.Errorf("token = %q", token)
	}

	if _, err := extractTranscriptToken([]byte(`{"engagementPanels":[]}`)); err == nil {
		t.Error("expected error when endpoint missing")
	}
}

func TestTimedTextParsing(t *testing.T) {
	raw := `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.12" dur="2.5">Hello &amp;amp; welcome</text>
  <text start="2.62" dur="1.88">to the &lt;b&gt;show&lt;/b&gt;</text>
  <text start="4.5">no duration</text>
  <text start="6.0" dur="1.0">   </text>
</transcript>`

	var tt ytTimedText
	if err := xml.Unmarshal([]byte(raw), &tt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(tt.Lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(tt.Lines))
	}
	if tt.Lines[0].Start == nil || *tt.Lines[0].Start != 0.12 {
		t.Errorf("line 0 start = %v", tt.Lines[0].Start)
	}
	if tt.Lines[0].Dur == nil || *tt.Lines[0].Dur != 2.5 {
		t.Errorf("line 0 dur = %v", tt.Lines[0].Dur)
	}
	if tt.Lines[2].Dur != nil {
		t.Errorf("line 2 dur = %v, want nil", tt.Lines[2].Dur)
	}
}

func TestParseTranscriptSegments(t *testing.T) {
	raw := []byte(`{"actions":[{"updateEngagementPanelAction":{"content":{"transcriptRenderer":{"content":{"transcriptSearchPanelRenderer":{"body":{"transcriptSegmentListRenderer":{"initialSegments":[` +
		`{"transcriptSegmentRenderer":{"startMs":"0","endMs":"1500","snippet":{"runs":[{"text":"first"},{"text":"segment"}]}}},` +
		`{"transcriptSegmentRenderer":{"startMs":"1500","endMs":"3250","snippet":{"runs":[{"text":"second"}]}}},` +
		`{"transcriptSegmentRenderer":{"startMs":"bad","endMs":"x","snippet":{"runs":[{"text":"untimed"}]}}}` +
		`]}}}}}}}}]}`)

	var resp ytGetTranscriptResp
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	cues := parseTranscriptSegments(resp)
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}
	if *cues[0].Text != "first segment" {
		t.Errorf("cue 0 text = %q", *cues[0].Text)
	}
	if cues[0].Start == nil || *cues[0].Start != 0 {
		t.Errorf("cue 0 start = %v", cues[0].Start)
	}
	if cues[0].Duration == nil || *cues[0].Duration != 1.5 {
		t.Errorf("cue 0 duration = %v", cues[0].Duration)
	}
	if cues[1].Duration == nil || *cues[1].Duration != 1.75 {
		t.Errorf("cue 1 duration = %v", cues[1].Duration)
	}
	if cues[2].Start != nil || cues[2].Duration != nil {
		t.Errorf("cue 2 timing = %v/%v, want nil/nil", cues[2].Start, cues[2].Duration)
	}
}

func TestExtractPlaylistVideos(t *testing.T) {
	raw := []byte(`{"contents":{"tabs":[{"content":{"items":[` +
		`{"playlistVideoRenderer":{"videoId":"vid000000001","title":{"runs":[{"text":"First Video"}]}}},` +
		`{"playlistVideoRenderer":{"videoId":"vid000000002","title":{"simpleText":"Second Video"}}},` +
		`{"playlistVideoRenderer":{"videoId":"vid000000001","title":{"runs":[{"text":"Duplicate"}]}}},` +
		`{"continuationItemRenderer":{}}` +
		`]}}]}}`)

	videos := extractPlaylistVideos(raw, 0)
	if len(videos) != 2 {
		t.Fatalf("got %d videos, want 2 (duplicates collapsed)", len(videos))
	}
	if videos[0].ID != "vid000000001" || videos[0].Title != "First Video" {
		t.Errorf("video 0 = %+v", videos[0])
	}
	if videos[1].Title != "Second Video" {
		t.Errorf("video 1 = %+v", videos[1])
	}
	if videos[0].URL != "https://www.youtube.com/watch?v=vid000000001" {
		t.Errorf("video 0 URL = %q", videos[0].URL)
	}

	limited := extractPlaylistVideos(raw, 1)
	if len(limited) != 1 {
		t.Errorf("limit 1: got %d videos", len(limited))
	}
}

func TestPlayerResponseFromPage(t *testing.T) {
	page := []byte(`<html><script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"https://yt/api","languageCode":"en","kind":"asr"}]}},"videoDetails":{"videoId":"dQw4w9WgXcQ","title":"Test","author":"Tester","lengthSeconds":"212"}};</script></html>`)

	resp, err := playerResponseFromPage(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Captions == nil {
		t.Fatal("captions not parsed")
	}
	tracks := resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) != 1 || tracks[0].LanguageCode != "en" || tracks[0].Kind != "asr" {
		t.Errorf("tracks = %+v", tracks)
	}
	if resp.VideoDetails == nil || resp.VideoDetails.Title != "Test" {
		t.Errorf("videoDetails = %+v", resp.VideoDetails)
	}

	if _, err := playerResponseFromPage([]byte("<html>nothing here</html>")); err == nil {
		t.Error("expected error when marker missing")
	}
}
