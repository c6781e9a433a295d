//go:build !windows

package download

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// isolateProcessGroup runs cmd in its own process group and makes context
// cancellation kill the whole group, so helpers spawned by the tool (ffmpeg)
// die with it and release the output pipes.
func isolateProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
