//go:build !unix

package devserver

import (
	"errors"
	"os"
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

func terminate(p *os.Process) error {
	return p.Kill()
}

func kill(p *os.Process) error {
	return p.Kill()
}

func groupAlive(p *os.Process) bool { return false }

func isNoProcess(err error) bool {
	return errors.Is(err, os.ErrProcessDone)
}
