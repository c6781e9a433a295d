package platform

import "testing"

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected float64
		ok       bool
	}{
		{
			name:     "fractional percentage",
			line:     "[download]  45.2% of 3.00MiB",
			expected: 45.2,
			ok:       true,
		},
		{
			name:     "integer percentage",
			line:     "[download] 100% of 1.0MiB",
			expected: 100,
			ok:       true,
		},
		{
			name:     "full progress line",
			line:     "[download]   3.7% of   12.34MiB at  512.00KiB/s ETA 00:23",
			expected: 3.7,
			ok:       true,
		},
		{
			name:     "tab separated token",
			line:     "[download]\t7.5% of 1MiB",
			expected: 7.5,
			ok:       true,
		},
		{
			name: "no percent sign",
			line: "[download] Destination: /tmp/rain.webm",
			ok:   false,
		},
		{
			name: "percent in output template",
			line: "[download] Destination: rain.%(ext)s",
			ok:   false,
		},
		{
			name: "not a download record",
			line: "[ExtractAudio] 50% done",
			ok:   false,
		},
		{
			name: "empty token before percent",
			line: "[download] % of 1MiB",
			ok:   false,
		},
		{
			name: "infinite value",
			line: "[download] Inf% of 1MiB",
			ok:   false,
		},
		{
			name: "empty line",
			line: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseProgressLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (value %v)", tt.ok, ok, got)
			}
			if ok && got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
