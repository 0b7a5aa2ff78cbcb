//go:build linux

package service

import (
	"os"
	"syscall"
	"time"
)

// statTimes returns the metadata-change time and the best-effort creation
// time. Linux stat does not expose a birth time, so creation falls back to
// the metadata-change time.
func statTimes(info os.FileInfo) (changeTime time.Time, birthTime time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}

	ctime := time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	return ctime, ctime
}
