package format

import "time"

const (
	filetimeOffset = 116444736000000000 // difference between FILETIME epoch and Unix epoch in 100ns units
	filetimeUnit   = 100                // FILETIME units are 100ns
)

// FiletimeToTime converts a Windows FILETIME value to time.Time.
func FiletimeToTime(v uint64) time.Time {
	if v <= filetimeOffset {
		return time.Unix(0, 0).UTC()
	}
	ns := int64((v - filetimeOffset) * filetimeUnit)
	return time.Unix(ns/int64(time.Second), ns%int64(time.Second)).UTC()
}

// TimeToFiletime converts a time.Time to a Windows FILETIME value.
func TimeToFiletime(t time.Time) uint64 {
	ns := max(t.UnixNano(), 0)
	return uint64(ns)/filetimeUnit + filetimeOffset
}
