package model

// EventKind discriminates DownloadEvent variants
type EventKind int

const (
	// EventProgress carries a percentage between 0 and 100
	EventProgress EventKind = iota
	// EventSuccess carries the resolved file and the fields of the new sound
	EventSuccess
	// EventError carries a human readable failure message
	EventError
)

// String returns the name of the event kind
func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventSuccess:
		return "success"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// DownloadEvent is a message sent by a worker to the controller. Values are
// never mutated after construction.
type DownloadEvent struct {
	Kind    EventKind
	Percent float64

	Name     string
	Category string
	FilePath string
	Icon     string
	URL      string

	Message string
}

// ProgressEvent builds a progress notification
func ProgressEvent(percent float64) DownloadEvent {
	return DownloadEvent{Kind: EventProgress, Percent: percent}
}

// SuccessEvent builds the terminal success notification
func SuccessEvent(name, category, filePath, icon, url string) DownloadEvent {
	return DownloadEvent{
		Kind:     EventSuccess,
		Name:     name,
		Category: category,
		FilePath: filePath,
		Icon:     icon,
		URL:      url,
	}
}

// ErrorEvent builds the terminal failure notification
func ErrorEvent(message string) DownloadEvent {
	return DownloadEvent{Kind: EventError, Message: message}
}

// IsTerminal reports whether the event ends the task
func (e DownloadEvent) IsTerminal() bool {
	return e.Kind == EventSuccess || e.Kind == EventError
}
