package types

// FilesystemKind identifies the filesystem family detected on an evidence
// source. The kind is established once at session start and never changes.
type FilesystemKind string

const (
	FilesystemNTFS    FilesystemKind = "NTFS"
	FilesystemExt4    FilesystemKind = "ext4"
	FilesystemFAT32   FilesystemKind = "FAT32"
	FilesystemExFAT   FilesystemKind = "exFAT"
	FilesystemUnknown FilesystemKind = "Unknown"
)

// HasStructureParser reports whether a structure parser exists for the kind.
// exFAT is detected but carries no parser, so its timestamps are unavailable.
func (k FilesystemKind) HasStructureParser() bool {
	switch k {
	case FilesystemNTFS, FilesystemExt4, FilesystemFAT32:
		return true
	default:
		return false
	}
}
