//go:build linux

package logsource

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// currentThread names the OS thread the calling goroutine runs on.
func currentThread() string {
	return "tid-" + strconv.Itoa(unix.Gettid())
}
