package engine

// Tool input/output types shared between the MCP server and the sources layer.

// TranscriptGetInput requests a transcript for a single video.
type TranscriptGetInput struct {
	URL       string   `json:"url" jsonschema:"YouTube video URL or bare video id"`
	Languages []string `json:"languages,omitempty" jsonschema:"Preferred caption languages in priority order (default: en)"`
}

// TranscriptGetOutput carries the normalized transcript.
type TranscriptGetOutput struct {
	VideoID string `json:"video_id"`
	Cues    int    `json:"cues"`
	Text    string `json:"text"`
}

// TranscriptSaveInput fetches a transcript and writes it to disk.
type TranscriptSaveInput struct {
	URL       string   `json:"url" jsonschema:"YouTube video URL or bare video id"`
	Format    string   `json:"format,omitempty" jsonschema:"Output format: txt json srt vtt csv docx pdf (default txt)"`
	Filename  string   `json:"filename,omitempty" jsonschema:"Output filename (default <video_id>_transcript.<format>)"`
	Languages []string `json:"languages,omitempty" jsonschema:"Preferred caption languages in priority order"`
}

// TranscriptSaveOutput reports the written file.
type TranscriptSaveOutput struct {
	VideoID string `json:"video_id"`
	Path    string `json:"path"`
	Format  string `json:"format"`
	Cues    int    `json:"cues"`
}

// BatchItemResult is the per-video outcome of a playlist or channel run.
type BatchItemResult struct {
	OK    bool   `json:"ok"`
	URL   string `json:"url"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// PlaylistTranscriptsInput saves transcripts for every video in a playlist.
type PlaylistTranscriptsInput struct {
	URL       string   `json:"url" jsonschema:"YouTube playlist URL or playlist id"`
	Format    string   `json:"format,omitempty" jsonschema:"Output format for each file (default txt)"`
	Template  string   `json:"template,omitempty" jsonschema:"Filename template with {index} {video_id} {title} {ext} placeholders"`
	Languages []string `json:"languages,omitempty" jsonschema:"Preferred caption languages in priority order"`
	Limit     int      `json:"limit,omitempty" jsonschema:"Max videos to process (0 = all)"`
}

// PlaylistTranscriptsOutput summarizes a playlist run.
type PlaylistTranscriptsOutput struct {
	PlaylistID string            `json:"playlist_id"`
	Total      int               `json:"total"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Results    []BatchItemResult `json:"results"`
}

// ChannelTranscriptsInput saves transcripts for a channel's uploads.
type ChannelTranscriptsInput struct {
	ChannelID string   `json:"channel_id" jsonschema:"YouTube channel id (UC...)"`
	Format    string   `json:"format,omitempty" jsonschema:"Output format for each file (default txt)"`
	Template  string   `json:"template,omitempty" jsonschema:"Filename template with {index} {video_id} {title} {ext} placeholders"`
	Languages []string `json:"languages,omitempty" jsonschema:"Preferred caption languages in priority order"`
	Limit     int      `json:"limit,omitempty" jsonschema:"Max videos to process (0 = all)"`
}

// ChannelTranscriptsOutput summarizes a channel run.
type ChannelTranscriptsOutput struct {
	ChannelID string            `json:"channel_id"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []BatchItemResult `json:"results"`
}

// VideoInfoInput requests metadata for a single video.
type VideoInfoInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL or bare video id"`
}

// VideoInfoOutput carries video metadata scraped from the watch page.
type VideoInfoOutput struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Channel         string `json:"channel,omitempty"`
	ChannelID       string `json:"channel_id,omitempty"`
	Description     string `json:"description,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	URL             string `json:"url"`
}

// PlaylistVideo is one entry of a playlist listing.
type PlaylistVideo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}
