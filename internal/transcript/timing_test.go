package transcript

import "testing"

func TestSRTTimestamp(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{3725.4, "01:02:05,400"},
		{0, "00:00:00,000"},
		{59.999, "00:00:59,999"},
		{61.5, "00:01:01,500"},
		{3600, "01:00:00,000"},
	}
	for _, tt := range tests {
		if got := SRTTimestamp(tt.secs); got != tt.want {
			t.Errorf("SRTTimestamp(%v) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestVTTTimestamp(t *testing.T) {
	if got := VTTTimestamp(3725.4); got != "01:02:05.400" {
		t.Errorf("VTTTimestamp(3725.4) = %q, want %q", got, "01:02:05.400")
	}
	if got := VTTTimestamp(0.0015); got != "00:00:00.002" {
		t.Errorf("VTTTimestamp(0.0015) = %q, want rounded milliseconds", got)
	}
}

func TestTimestampMillisecondCarry(t *testing.T) {
	// Fractions that round up to a full second must carry into the seconds
	// column instead of producing a four-digit millisecond field.
	tests := []struct {
		secs    float64
		wantSRT string
		wantVTT string
	}{
		{1.9996, "00:00:02,000", "00:00:02.000"},
		{59.9999, "00:01:00,000", "00:01:00.000"},
		{3599.9999, "01:00:00,000", "01:00:00.000"},
		{0.9999, "00:00:01,000", "00:00:01.000"},
	}
	for _, tt := range tests {
		if got := SRTTimestamp(tt.secs); got != tt.wantSRT {
			t.Errorf("SRTTimestamp(%v) = %q, want %q", tt.secs, got, tt.wantSRT)
		}
		if got := VTTTimestamp(tt.secs); got != tt.wantVTT {
			t.Errorf("VTTTimestamp(%v) = %q, want %q", tt.secs, got, tt.wantVTT)
		}
	}
}

func TestComputeEnd(t *testing.T) {
	tests := []struct {
		name                       string
		start, duration, nextStart *float64
		want                       *float64
	}{
		{"duration wins", Ptr(1.0), Ptr(2.5), Ptr(10.0), Ptr(3.5)},
		{"next start fallback", Ptr(1.0), nil, Ptr(4.0), Ptr(4.0)},
		{"nothing known", Ptr(1.0), nil, nil, nil},
		{"no start", nil, Ptr(2.0), Ptr(4.0), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeEnd(tt.start, tt.duration, tt.nextStart)
			switch {
			case got == nil && tt.want != nil:
				t.Errorf("got nil, want %v", *tt.want)
			case got != nil && tt.want == nil:
				t.Errorf("got %v, want nil", *got)
			case got != nil && tt.want != nil && *got != *tt.want:
				t.Errorf("got %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestRenderWindowDefaultDuration(t *testing.T) {
	cues := Transcript{
		{Start: Ptr(0.0), Duration: Ptr(2.0), Text: Ptr("a")},
		{Start: Ptr(2.0), Text: Ptr("b")},
	}

	start, end := RenderWindow(0, cues)
	if start != 0 || end != 2 {
		t.Errorf("cue 0: got [%v, %v], want [0, 2]", start, end)
	}
	// No duration and no next cue: default 2-second duration applies.
	start, end = RenderWindow(1, cues)
	if start != 2 || end != 4 {
		t.Errorf("cue 1: got [%v, %v], want [2, 4]", start, end)
	}
}

func TestRenderWindowSyntheticTimeline(t *testing.T) {
	cues := Transcript{
		{Text: Ptr("a")},
		{Text: Ptr("b")},
		{Text: Ptr("c")},
	}
	wantStarts := []float64{0, 2, 4}
	for i, want := range wantStarts {
		start, end := RenderWindow(i, cues)
		if start != want {
			t.Errorf("cue %d: start = %v, want %v", i, start, want)
		}
		if end != want+2 {
			t.Errorf("cue %d: end = %v, want %v", i, end, want+2)
		}
	}
}
