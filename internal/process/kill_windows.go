//go:build windows

package process

import (
	"fmt"
	"os/exec"
	"strconv"
)

// KillTree terminates pid and its children with taskkill (/F force,
// /T tree).
func KillTree(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	// #nosec G204 -- numeric pid
	if err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run(); err != nil {
		return fmt.Errorf("taskkill %d: %w", pid, err)
	}
	return nil
}
