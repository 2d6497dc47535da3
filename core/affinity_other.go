//go:build !linux

package core

import "errors"

var errAffinityUnsupported = errors.New("thread affinity not supported on this platform")

func pinCurrentThread(index int) error {
	return errAffinityUnsupported
}
