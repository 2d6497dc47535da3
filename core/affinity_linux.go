//go:build linux

package core

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinCurrentThread binds the calling OS thread to one logical CPU.
// The caller must already hold runtime.LockOSThread.
func pinCurrentThread(index int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(index % runtime.NumCPU())
	return unix.SchedSetaffinity(0, &set)
}
