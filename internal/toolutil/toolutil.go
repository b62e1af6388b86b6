// Package toolutil provides shared helper functions for go_transcript MCP tools:
// language normalization, filename sanitation, and output filename templating.
package toolutil

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// NormLang normalises a language field: empty string → "en".
func NormLang(lang string) string {
	if lang == "" {
		return "en"
	}
	return strings.ToLower(strings.TrimSpace(lang))
}

// PreferredLangs resolves the caption language preference order: explicit
// request first, then the configured default, then "en".
func PreferredLangs(langs []string) []string {
	out := make([]string, 0, len(langs)+len(engine.Cfg.PreferLangs)+1)
	seen := make(map[string]bool)
	add := func(lang string) {
		l := NormLang(lang)
		if l != "" && !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for _, l := range langs {
		add(l)
	}
	for _, l := range engine.Cfg.PreferLangs {
		add(l)
	}
	add("en")
	return out
}

var unsafeCharRe = regexp.MustCompile(`[^A-Za-z0-9._\-\s]`)

// SafeFilename sanitizes a string for use as a filename: path separators and
// shell-hostile characters become underscores, length capped at 200.
func SafeFilename(name string) string {
	s := strings.ReplaceAll(name, "/", "_")
	s = strings.ReplaceAll(s, `\`, "_")
	s = unsafeCharRe.ReplaceAllString(s, "_")
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// EnsureExt appends the extension when the filename doesn't already carry it.
func EnsureExt(name, ext string) string {
	suffix := "." + strings.TrimPrefix(ext, ".")
	if strings.HasSuffix(strings.ToLower(name), strings.ToLower(suffix)) {
		return name
	}
	return name + suffix
}

// ApplyTemplate expands a filename template for one item of a batch run.
// Supported placeholders: {index} (1-based), {video_id}, {title}, {ext}.
// The result is sanitized and guaranteed to end with the format extension.
func ApplyTemplate(template string, index int, videoID, title, ext string) string {
	if template == "" {
		template = "{video_id}_transcript.{ext}"
	}
	r := strings.NewReplacer(
		"{index}", strconv.Itoa(index),
		"{video_id}", videoID,
		"{title}", title,
		"{ext}", strings.TrimPrefix(ext, "."),
	)
	return EnsureExt(SafeFilename(r.Replace(template)), ext)
}
