//go:build windows

package download

import "os/exec"

// isolateProcessGroup relies on the default kill of the direct child; the
// pipes are still released by WaitDelay.
func isolateProcessGroup(cmd *exec.Cmd) {}
