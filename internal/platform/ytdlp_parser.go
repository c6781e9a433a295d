package platform

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// yt-dlp progress markers
const (
	DownloadMarker = "[download]"
	PercentSign    = "%"
)

// ParseProgressLine extracts the percentage from a yt-dlp progress line such
// as "[download]  45.2% of 3.00MiB at 1.2MiB/s ETA 00:02". The percentage is
// the whitespace-delimited token right before the first '%'. Lines without
// both markers, or with an unparsable token, yield ok=false.
func ParseProgressLine(line string) (percent float64, ok bool) {
	if !strings.Contains(line, DownloadMarker) {
		return 0, false
	}

	before, _, found := strings.Cut(line, PercentSign)
	if !found {
		return 0, false
	}

	token := before
	if idx := strings.LastIndexFunc(before, unicode.IsSpace); idx >= 0 {
		token = before[idx+1:]
	}
	if token == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
