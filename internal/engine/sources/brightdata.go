package sources

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

// Bright Data remote transcription. For videos with no captions at all we
// trigger a dataset scrape job that transcribes the audio server-side, then
// poll the snapshot until records arrive.

const (
	bdScrapeURL    = "https://api.brightdata.com/datasets/v3/scrape"
	bdSnapshotURL  = "https://api.brightdata.com/datasets/v3/snapshot"
	bdOutputFields = "description,title,transcript,formatted_transcript"
)

var (
	// ErrRemoteJob means the remote transcription job failed server-side.
	ErrRemoteJob = errors.New("remote transcription failed")
	// ErrRemoteJobTimeout means the snapshot did not become ready within the wait budget.
	ErrRemoteJobTimeout = errors.New("remote transcription timed out")
)

// TranscribeInput requests a remote transcription job.
type TranscribeInput struct {
	URL      string `json:"url" jsonschema:"YouTube video URL to transcribe remotely"`
	Language string `json:"language,omitempty" jsonschema:"Transcription language code (default en)"`
	Country  string `json:"country,omitempty" jsonschema:"Two-letter country code for the scrape origin"`
}

// TranscribeRequest is one input row of the scrape trigger payload.
type TranscribeRequest struct {
	URL      string `json:"url"`
	Language string `json:"transcription_language,omitempty"`
	Country  string `json:"country,omitempty"`
}

// RemoteRecord is one dataset record returned by a snapshot.
type RemoteRecord struct {
	URL                 string          `json:"url"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Transcript          json.RawMessage `json:"transcript"`
	FormattedTranscript json.RawMessage `json:"formatted_transcript"`
	SnapshotID          string          `json:"snapshot_id"`
	Status              string          `json:"status"`
}

// TranscribeOutput is the result of a completed remote job.
type TranscribeOutput struct {
	SnapshotID string                `json:"snapshot_id"`
	Records    []RemoteRecord        `json:"records"`
	Cues       transcript.Transcript `json:"cues"`
}

// Cues normalizes the record's transcript payload into timed cues.
// Prefers the structured transcript field; falls back to parsing
// formatted_transcript as subtitle text.
func (r RemoteRecord) Cues() (transcript.Transcript, error) {
	if len(r.Transcript) > 0 {
		var raw any
		if err := json.Unmarshal(r.Transcript, &raw); err == nil && raw != nil {
			if cues, err := transcript.Normalize(raw); err == nil {
				return cues, nil
			}
		}
	}
	if len(r.FormattedTranscript) > 0 {
		var text string
		if err := json.Unmarshal(r.FormattedTranscript, &text); err == nil && text != "" {
			if cues := transcript.ParseSubtitles(text); len(cues) > 0 {
				return cues, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: record has no usable transcript", ErrRemoteJob)
}

// triggerScrape starts a dataset scrape job and returns the snapshot id.
func triggerScrape(ctx context.Context, input TranscribeInput) (string, error) {
	if engine.Cfg.BrightDataToken == "" {
		return "", fmt.Errorf("%w: no API token configured", ErrRemoteJob)
	}

	body, err := json.Marshal(map[string]any{
		"input": []TranscribeRequest{{
			URL:      input.URL,
			Language: input.Language,
			Country:  input.Country,
		}},
	})
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("dataset_id", engine.Cfg.BrightDataDatasetID)
	params.Set("custom_output_fields", bdOutputFields)
	params.Set("notify", "false")
	params.Set("include_errors", "true")

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, bdScrapeURL+"?"+params.Encode(), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+engine.Cfg.BrightDataToken)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("trigger scrape: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "", fmt.Errorf("read trigger response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: trigger HTTP %d: %s", ErrRemoteJob, resp.StatusCode, engine.Truncate(string(data), 256))
	}

	id := snapshotIDFromResponse(data)
	if id == "" {
		return "", fmt.Errorf("%w: no snapshot id in trigger response", ErrRemoteJob)
	}
	return id, nil
}

// snapshotIDFromResponse pulls snapshot_id from a trigger response, which may
// be a single object or a list whose first item carries the id.
func snapshotIDFromResponse(data []byte) string {
	var obj struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.SnapshotID != "" {
		return obj.SnapshotID
	}
	var list []struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return list[0].SnapshotID
	}
	return ""
}

// decodeRecords parses a snapshot body: a JSON list, a single JSON object,
// an object wrapping records under "data", or NDJSON (one record per line).
func decodeRecords(data []byte) ([]RemoteRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty snapshot body")
	}

	var records []RemoteRecord
	if err := json.Unmarshal(trimmed, &records); err == nil {
		return records, nil
	}

	var wrapper struct {
		Data []RemoteRecord `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err == nil && len(wrapper.Data) > 0 {
		return wrapper.Data, nil
	}

	var single RemoteRecord
	if err := json.Unmarshal(trimmed, &single); err == nil && (len(single.Transcript) > 0 || single.Status != "" || single.URL != "") {
		return []RemoteRecord{single}, nil
	}

	// NDJSON: one JSON object per line
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var ndRecords []RemoteRecord
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec RemoteRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decode snapshot line: %w", err)
		}
		ndRecords = append(ndRecords, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan snapshot body: %w", err)
	}
	if len(ndRecords) == 0 {
		return nil, errors.New("no records in snapshot body")
	}
	return ndRecords, nil
}

// pollAction is the verdict of one snapshot poll cycle.
type pollAction int

const (
	actionWait pollAction = iota
	actionDone
	actionFail
	actionTimeout
)

// snapshotSchedule decides what to do after a poll given the reported status.
func snapshotSchedule(attempt, maxAttempts int, status string, interval time.Duration) (pollAction, time.Duration) {
	switch strings.ToLower(status) {
	case "failed", "error", "cancelled", "canceled":
		return actionFail, 0
	case "running", "building", "collecting", "pending", "scheduled", "starting":
		if attempt >= maxAttempts {
			return actionTimeout, 0
		}
		return actionWait, interval
	default:
		return actionDone, 0
	}
}

// pollSleep is swapped out in tests.
var pollSleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PollSnapshot polls a snapshot until its records are ready.
func PollSnapshot(ctx context.Context, snapshotID string) ([]RemoteRecord, error) {
	interval := engine.Cfg.BrightDataPollEvery
	if interval <= 0 {
		interval = 30 * time.Second
	}
	maxWait := engine.Cfg.BrightDataMaxWait
	if maxWait <= 0 {
		maxWait = 30 * time.Minute
	}
	maxAttempts := int(maxWait / interval)
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	snapURL := bdSnapshotURL + "/" + snapshotID + "?format=json"
	for attempt := 1; ; attempt++ {
		resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapURL, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+engine.Cfg.BrightDataToken)
			return engine.Cfg.HTTPClient.Do(req)
		})
		if err != nil {
			return nil, fmt.Errorf("poll snapshot %s: %w", snapshotID, err)
		}
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, 64*1024*1024))
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("read snapshot %s: %w", snapshotID, readErr)
		}

		status := snapshotStatus(resp.StatusCode, data)
		action, wait := snapshotSchedule(attempt, maxAttempts, status, interval)
		switch action {
		case actionDone:
			records, err := decodeRecords(data)
			if err != nil {
				return nil, fmt.Errorf("snapshot %s: %w", snapshotID, err)
			}
			return records, nil
		case actionFail:
			return nil, fmt.Errorf("%w: snapshot %s status %s", ErrRemoteJob, snapshotID, status)
		case actionTimeout:
			return nil, fmt.Errorf("%w: snapshot %s after %d attempts", ErrRemoteJobTimeout, snapshotID, attempt)
		case actionWait:
			if err := pollSleep(ctx, wait); err != nil {
				return nil, err
			}
		}
	}
}

// snapshotStatus extracts the job status from a poll response.
// HTTP 202 means the snapshot is still building regardless of body.
func snapshotStatus(httpStatus int, data []byte) string {
	if httpStatus == http.StatusAccepted {
		return "running"
	}
	var obj struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &obj); err == nil {
		return obj.Status
	}
	return ""
}

// Transcribe runs a full remote transcription job: trigger, poll, normalize.
func Transcribe(ctx context.Context, input TranscribeInput) (*TranscribeOutput, error) {
	engine.IncrRemoteJob()

	if input.Language == "" {
		input.Language = "en"
	}

	snapshotID, err := triggerScrape(ctx, input)
	if err != nil {
		engine.IncrRemoteJobError()
		return nil, err
	}

	records, err := PollSnapshot(ctx, snapshotID)
	if err != nil {
		engine.IncrRemoteJobError()
		return nil, err
	}

	out := &TranscribeOutput{SnapshotID: snapshotID, Records: records}
	for _, rec := range records {
		if cues, err := rec.Cues(); err == nil {
			out.Cues = cues
			break
		}
	}
	if len(out.Cues) == 0 {
		engine.IncrRemoteJobError()
		return out, fmt.Errorf("%w: no record yielded cues", ErrRemoteJob)
	}
	return out, nil
}
