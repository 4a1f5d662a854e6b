// Package process terminates the browser process tree left behind by a
// converter.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID is returned for pids that would address the caller's own
// process group.
var ErrInvalidPID = errors.New("invalid pid")

// KillTree force-kills pid and every process it spawned.
func KillTree(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return killTree(pid)
}
