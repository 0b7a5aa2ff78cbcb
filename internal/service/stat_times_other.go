//go:build !linux && !darwin

package service

import (
	"os"
	"time"
)

// statTimes falls back to the modification time on platforms where the
// change and birth times are not exposed through a portable API.
func statTimes(info os.FileInfo) (changeTime time.Time, birthTime time.Time) {
	return info.ModTime(), info.ModTime()
}
