package toolutil

import (
	"strings"
	"testing"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

func TestNormLang(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "en"},
		{"EN", "en"},
		{" de ", "de"},
		{"pt-BR", "pt-br"},
	}
	for _, tt := range tests {
		if got := NormLang(tt.input); got != tt.want {
			t.Errorf("NormLang(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPreferredLangs(t *testing.T) {
	old := *engine.Cfg
	engine.Init(engine.Config{PreferLangs: []string{"de", "fr"}})
	t.Cleanup(func() { engine.Init(old) })

	got := PreferredLangs([]string{"ja", "de"})
	want := []string{"ja", "de", "fr", "en"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestPreferredLangsDefault(t *testing.T) {
	old := *engine.Cfg
	engine.Init(engine.Config{})
	t.Cleanup(func() { engine.Init(old) })

	got := PreferredLangs(nil)
	if len(got) != 1 || got[0] != "en" {
		t.Errorf("got %v, want [en]", got)
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "My Video Title", "My Video Title"},
		{"path separators", "a/b\\c", "a_b_c"},
		{"special chars", "what?!: a video", "what___ a video"},
		{"unicode stripped", "café tour", "caf_ tour"},
		{"keeps dots and dashes", "ep-01.final", "ep-01.final"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeFilename(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafeFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("a", 300)
	if got := SafeFilename(long); len(got) != 200 {
		t.Errorf("len = %d, want 200", len(got))
	}
}

func TestEnsureExt(t *testing.T) {
	tests := []struct {
		name, ext, want string
	}{
		{"video", "txt", "video.txt"},
		{"video.txt", "txt", "video.txt"},
		{"video.TXT", "txt", "video.TXT"},
		{"video.srt", "txt", "video.srt.txt"},
		{"video", ".json", "video.json"},
	}
	for _, tt := range tests {
		if got := EnsureExt(tt.name, tt.ext); got != tt.want {
			t.Errorf("EnsureExt(%q, %q) = %q, want %q", tt.name, tt.ext, got, tt.want)
		}
	}
}

func TestApplyTemplate(t *testing.T) {
	got := ApplyTemplate("{index}_{video_id}_{title}.{ext}", 3, "dQw4w9WgXcQ", "My Video", "srt")
	if got != "3_dQw4w9WgXcQ_My Video.srt" {
		t.Errorf("got %q", got)
	}

	// Default template when empty
	got = ApplyTemplate("", 1, "dQw4w9WgXcQ", "ignored", "txt")
	if got != "dQw4w9WgXcQ_transcript.txt" {
		t.Errorf("got %q", got)
	}

	// Extension appended when template omits it
	got = ApplyTemplate("{title}", 1, "id", "Talk", "json")
	if got != "Talk.json" {
		t.Errorf("got %q", got)
	}

	// Unsafe title characters sanitized
	got = ApplyTemplate("{title}.{ext}", 1, "id", "a/b:c", "txt")
	if got != "a_b_c.txt" {
		t.Errorf("got %q", got)
	}
}
