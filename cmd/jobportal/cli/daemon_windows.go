//go:build windows

package cli

import (
	"os"
	"os/exec"
	"syscall"
)

// setSysProcAttr gives a detached server its own process group so closing
// the launching console does not take it down.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// isProcessRunning reports whether pid names a live process. FindProcess
// opens a process handle on Windows and fails for unknown pids.
func isProcessRunning(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	proc.Release()
	return true
}

// stopProcess terminates the server. Windows has no SIGTERM, so the server
// gets no chance to drain connections.
func stopProcess(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}
