//go:build !linux

package logsource

import (
	"os"
	"strconv"
)

func currentThread() string {
	return "pid-" + strconv.Itoa(os.Getpid())
}
