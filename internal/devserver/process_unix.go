//go:build unix

package devserver

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup puts the dev server in its own process group so npx and
// the node process it spawns are signalled together.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminate(p *os.Process) error {
	return syscall.Kill(-p.Pid, syscall.SIGTERM)
}

func kill(p *os.Process) error {
	return syscall.Kill(-p.Pid, syscall.SIGKILL)
}

// groupAlive reports whether any process in p's group still exists.
func groupAlive(p *os.Process) bool {
	return syscall.Kill(-p.Pid, 0) == nil
}

func isNoProcess(err error) bool {
	return errors.Is(err, syscall.ESRCH)
}
