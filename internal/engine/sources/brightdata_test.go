package sources

import (
	"bufio"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDecodeRecordsJSONList(t *testing.T) {
	data := []byte(`[{"url":"https://youtu.be/abc","title":"Video","transcript":[{"text":"hi","start_time":0,"end_time":1.5}],"snapshot_id":"s_123"}]`)
	records, err := decodeRecords(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Title != "Video" || records[0].SnapshotID != "s_123" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestDecodeRecordsSingleObject(t *testing.T) {
	data := []byte(`{"url":"https://youtu.be/abc","transcript":[{"text":"hi"}]}`)
	records, err := decodeRecords(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].URL != "https://youtu.be/abc" {
		t.Errorf("records = %+v", records)
	}
}

func TestDecodeRecordsDataWrapper(t *testing.T) {
	data := []byte(`{"data":[{"url":"https://youtu.be/one"},{"url":"https://youtu.be/two"}]}`)
	records, err := decodeRecords(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 || records[1].URL != "https://youtu.be/two" {
		t.Errorf("records = %+v", records)
	}
}

func TestDecodeRecordsNDJSON(t *testing.T) {
	data := []byte(`{"url":"https://youtu.be/one","title":"One"}
{"url":"https://youtu.be/two","title":"Two"}
`)
	records, err := decodeRecords(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Title != "One" || records[1].Title != "Two" {
		t.Errorf("records = %+v", records)
	}
}

func TestDecodeRecordsOversizedLine(t *testing.T) {
	// A line exceeding the scanner buffer must surface bufio.ErrTooLong
	// rather than silently truncating the record set.
	data := []byte(`{"url":"https://youtu.be/one","title":"One"}` + "\n" +
		`{"title":"` + strings.Repeat("a", 17*1024*1024) + `"}` + "\n")
	_, err := decodeRecords(data)
	if err == nil {
		t.Fatal("expected error for oversized snapshot line")
	}
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Errorf("err = %v, want bufio.ErrTooLong", err)
	}
}

func TestDecodeRecordsEmpty(t *testing.T) {
	if _, err := decodeRecords([]byte("   \n")); err == nil {
		t.Error("expected error for empty body")
	}
	if _, err := decodeRecords([]byte("not json at all")); err == nil {
		t.Error("expected error for garbage body")
	}
}

func TestSnapshotIDFromResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"object", `{"snapshot_id":"s_abc"}`, "s_abc"},
		{"list", `[{"snapshot_id":"s_first"},{"snapshot_id":"s_second"}]`, "s_first"},
		{"missing", `{"ok":true}`, ""},
		{"garbage", `nope`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snapshotIDFromResponse([]byte(tt.input)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSnapshotSchedule(t *testing.T) {
	interval := 30 * time.Second
	tests := []struct {
		name        string
		attempt     int
		maxAttempts int
		status      string
		wantAction  pollAction
		wantWait    time.Duration
	}{
		{"running waits", 1, 10, "running", actionWait, interval},
		{"building waits", 3, 10, "building", actionWait, interval},
		{"ready done", 2, 10, "ready", actionDone, 0},
		{"empty status done", 2, 10, "", actionDone, 0},
		{"failed", 2, 10, "failed", actionFail, 0},
		{"error", 2, 10, "error", actionFail, 0},
		{"cancelled", 2, 10, "cancelled", actionFail, 0},
		{"timeout at max attempts", 10, 10, "running", actionTimeout, 0},
		{"case insensitive", 1, 10, "RUNNING", actionWait, interval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, wait := snapshotSchedule(tt.attempt, tt.maxAttempts, tt.status, interval)
			if action != tt.wantAction {
				t.Errorf("action = %d, want %d", action, tt.wantAction)
			}
			if wait != tt.wantWait {
				t.Errorf("wait = %v, want %v", wait, tt.wantWait)
			}
		})
	}
}

func TestSnapshotStatus(t *testing.T) {
	if got := snapshotStatus(202, []byte(`[]`)); got != "running" {
		t.Errorf("202 status = %q, want running", got)
	}
	if got := snapshotStatus(200, []byte(`{"status":"failed"}`)); got != "failed" {
		t.Errorf("status = %q, want failed", got)
	}
	if got := snapshotStatus(200, []byte(`[{"url":"x"}]`)); got != "" {
		t.Errorf("status = %q, want empty", got)
	}
}

func TestRemoteRecordCues(t *testing.T) {
	rec := RemoteRecord{Transcript: json.RawMessage(`[{"text":"hello","start_time":1.0,"end_time":3.5}]`)}
	cues, err := rec.Cues()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("got %d cues, want 1", len(cues))
	}
	if *cues[0].Text != "hello" || *cues[0].Start != 1.0 || *cues[0].Duration != 2.5 {
		t.Errorf("cue = %+v", cues[0])
	}
}

func TestRemoteRecordCuesFormattedFallback(t *testing.T) {
	vtt := "WEBVTT\n\n00:00:01.000 --> 00:00:02.500\nfrom formatted\n"
	raw, _ := json.Marshal(vtt)
	rec := RemoteRecord{
		Transcript:          json.RawMessage(`"not a cue list"`),
		FormattedTranscript: raw,
	}
	cues, err := rec.Cues()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cues) != 1 || *cues[0].Text != "from formatted" {
		t.Errorf("cues = %+v", cues)
	}
}

func TestRemoteRecordCuesNoTranscript(t *testing.T) {
	rec := RemoteRecord{Status: "ready"}
	if _, err := rec.Cues(); err == nil {
		t.Error("expected error for record without transcript")
	}
}
