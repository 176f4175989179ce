// Package anomaly derives forensic flags from decoded timestamp tuples.
// Flags are advisory annotations computed on demand; they are never stored
// back onto the block.
package anomaly

import "github.com/blockscope/blockscope/internal/types"

// Flag identifies one suspicious timestamp condition.
type Flag string

const (
	// TimestampImpossible fires when content was modified after the last
	// recorded structural change. Normal filesystem operation cannot
	// produce this ordering; it indicates timestamp manipulation.
	TimestampImpossible Flag = "timestamp_impossible"

	// AccessBeforeModify fires when the last access precedes the last
	// modification, a suspicious ordering on filesystems that maintain
	// access times.
	AccessBeforeModify Flag = "access_before_modify"
)

// Description returns the investigator-facing explanation of a flag.
func (f Flag) Description() string {
	switch f {
	case TimestampImpossible:
		return "mtime is later than ctime: not achievable through normal filesystem operation, indicates possible timestomping"
	case AccessBeforeModify:
		return "atime is earlier than mtime: file accessed before it was last modified"
	default:
		return "unknown anomaly"
	}
}

// Detect evaluates a timestamp record and returns every flag that applies.
// A nil record or one with absent operands yields no flags; absence of a
// timestamp is never itself an anomaly.
func Detect(record *types.TimestampRecord) []Flag {
	if record == nil {
		return nil
	}

	var flags []Flag
	if record.MTime != nil && record.CTime != nil && record.MTime.After(*record.CTime) {
		flags = append(flags, TimestampImpossible)
	}
	if record.MTime != nil && record.ATime != nil && record.ATime.Before(*record.MTime) {
		flags = append(flags, AccessBeforeModify)
	}
	return flags
}
