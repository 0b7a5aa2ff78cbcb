//go:build darwin

package service

import (
	"os"
	"syscall"
	"time"
)

// statTimes returns the metadata-change time and the true creation (birth)
// time, both of which macOS exposes through stat.
func statTimes(info os.FileInfo) (changeTime time.Time, birthTime time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}

	changeTime = time.Unix(st.Ctimespec.Sec, st.Ctimespec.Nsec)
	birthTime = time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	return changeTime, birthTime
}
