package ntfs

import "time"

// Seconds between the FILETIME epoch (1601-01-01) and the Unix epoch.
const filetimeToUnixSeconds = 11644473600

// FiletimeToTime converts a Windows FILETIME (100-nanosecond ticks since
// 1601-01-01T00:00:00Z) to a UTC instant. A raw value of zero means the
// field was never set and decodes to nil, not the epoch.
func FiletimeToTime(filetime uint64) *time.Time {
	if filetime == 0 {
		return nil
	}

	// The spread from 1601 to present overflows time.Duration, so the
	// conversion goes through Unix seconds instead of epoch.Add.
	seconds := int64(filetime/10_000_000) - filetimeToUnixSeconds
	nanos := int64(filetime%10_000_000) * 100

	t := time.Unix(seconds, nanos).UTC()
	return &t
}
