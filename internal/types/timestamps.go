package types

import "time"

// TimestampRecord holds the MACB instants decoded from one on-disk structure.
// Each field is independently optional: nil means the structure did not carry
// a recoverable value, never the epoch. Records are immutable once decoded.
type TimestampRecord struct {
	MTime *time.Time // content modified
	CTime *time.Time // metadata changed (NTFS $MFT change, ext4 i_ctime; creation on FAT32)
	ATime *time.Time // last accessed
	BTime *time.Time // born / created
}

// IsEmpty reports whether no instant was recovered at all.
func (r *TimestampRecord) IsEmpty() bool {
	return r.MTime == nil && r.CTime == nil && r.ATime == nil && r.BTime == nil
}

// InodeDetail carries the non-timestamp fields an ext4 inode exposes.
// Other filesystems leave it nil.
type InodeDetail struct {
	Size       uint32
	UID        uint16
	GID        uint16
	Mode       uint16
	LinksCount uint16
}

// StructureRecord associates a decoded timestamp tuple with the absolute
// offset of the on-disk structure it came from.
type StructureRecord struct {
	Offset     uint64
	Timestamps TimestampRecord
	Inode      *InodeDetail
}
