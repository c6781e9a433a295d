package ui

import "time"

// Icons (emojis/symbols)
const (
	IconPending     = "○"
	IconDownloading = "◐"
	IconDone        = "✓"
	IconError       = "✗"
	IconCursor      = "›"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%5.1f%%"
)

// Layout sizing
const (
	ProgressBarWidth = 28
	TitleMinWidth    = 24
	InputWidth       = 48
	DefaultWidth     = 100
)

// PollInterval is how often the queue is polled for worker events
const PollInterval = 100 * time.Millisecond
