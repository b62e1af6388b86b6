package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Subtitle blob parsing for the fallback retrieval path. Cue blocks are
// scanned with block-level regexes rather than a full grammar; WebVTT is
// tried first, then SubRip.

var (
	vttCueRE     = regexp.MustCompile(`(?s)(\d{2}:\d{2}:\d{2}\.\d+)\s*-->\s*(\d{2}:\d{2}:\d{2}\.\d+)\s*\n(.*?)(?:\n{2,}|\z)`)
	srtCueRE     = regexp.MustCompile(`(?s)\d+\s*\n(\d{2}:\d{2}:\d{2},\d+)\s*-->\s*(\d{2}:\d{2}:\d{2},\d+)\s*\n(.*?)(?:\n{2,}|\z)`)
	blankSplitRE = regexp.MustCompile(`\n{2,}`)
	indexLineRE  = regexp.MustCompile(`\d+\n`)
)

// ParseSubtitles parses a raw WebVTT or SRT blob into cues. Subtitle files
// carry no speaker or confidence data, so those fields are always null.
//
// When neither timing grammar matches, every blank-line-separated block
// becomes a text-only cue with null timing. That path is lossy and exists
// only so malformed files still yield their text.
func ParseSubtitles(data string) Transcript {
	if cues := parseTimedBlocks(data, vttCueRE, false); len(cues) > 0 {
		return cues
	}
	if cues := parseTimedBlocks(data, srtCueRE, true); len(cues) > 0 {
		return cues
	}

	var cues Transcript
	for _, block := range blankSplitRE.Split(data, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		text := indexLineRE.ReplaceAllString(block, "")
		text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
		if text != "" {
			cues = append(cues, Cue{Text: Ptr(text)})
		}
	}
	return cues
}

func parseTimedBlocks(data string, re *regexp.Regexp, commaMillis bool) Transcript {
	var cues Transcript
	for _, m := range re.FindAllStringSubmatch(data, -1) {
		startTS, endTS := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if commaMillis {
			startTS = strings.Replace(startTS, ",", ".", 1)
			endTS = strings.Replace(endTS, ",", ".", 1)
		}
		text := strings.TrimSpace(strings.ReplaceAll(m[3], "\n", " "))
		cue := Cue{Text: Ptr(text)}

		start, errS := timestampSeconds(startTS)
		end, errE := timestampSeconds(endTS)
		if errS == nil && errE == nil {
			cue.Start = Ptr(start)
			if d := round3(end - start); d >= 0 {
				cue.Duration = Ptr(d)
			}
		}
		cues = append(cues, cue)
	}
	return cues
}

// timestampSeconds converts "HH:MM:SS.mmm" to fractional seconds.
func timestampSeconds(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed timestamp %q", ts)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}
	return float64(h)*3600 + float64(m)*60 + s, nil
}
