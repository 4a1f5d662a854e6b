//go:build !windows

package process

import "syscall"

// killTree signals the process group; chrome is launched as a group leader.
func killTree(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}
