package platform

import (
	"os/exec"
)

// DefaultYTDLPCommand is the extraction tool looked up on PATH
const DefaultYTDLPCommand = "yt-dlp"

// FindYTDLP reports whether the extraction tool can be executed and returns
// its resolved path. An empty command means DefaultYTDLPCommand.
func FindYTDLP(command string) (string, bool) {
	if command == "" {
		command = DefaultYTDLPCommand
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", false
	}
	return path, true
}
