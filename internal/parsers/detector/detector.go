// Package detector classifies an evidence source's filesystem from
// fixed-offset boot sector and superblock signatures.
package detector

import (
	"bytes"
	"encoding/binary"

	"github.com/blockscope/blockscope/internal/interfaces"
	"github.com/blockscope/blockscope/internal/types"
)

const (
	bootSectorSize   = 512
	superblockOffset = 1024
	superblockSize   = 1024
	ext4Magic        = 0xEF53
	ext4MagicOffset  = 56
)

// Detect classifies the source's filesystem. Detection never fails: a source
// too small or unreadable at the probed offsets degrades to Unknown rather
// than erroring, since an unknown filesystem only means timestamps are
// unavailable.
func Detect(source interfaces.EvidenceSource) types.FilesystemKind {
	bootSector, err := source.ReadAt(0, bootSectorSize)
	if err != nil || len(bootSector) < bootSectorSize {
		return types.FilesystemUnknown
	}

	// NTFS places its OEM id near the start of the boot sector, but a byte
	// search over the whole sector also matches relocated boot code.
	if bytes.Contains(bootSector, []byte("NTFS")) {
		return types.FilesystemNTFS
	}

	superblock, err := source.ReadAt(superblockOffset, superblockSize)
	if err == nil && len(superblock) >= ext4MagicOffset+2 {
		if binary.LittleEndian.Uint16(superblock[ext4MagicOffset:ext4MagicOffset+2]) == ext4Magic {
			return types.FilesystemExt4
		}
	}

	if bytes.HasPrefix(bootSector[54:], []byte("FAT32")) ||
		bytes.HasPrefix(bootSector[82:], []byte("FAT32   ")) {
		return types.FilesystemFAT32
	}

	if bytes.HasPrefix(bootSector[3:], []byte("EXFAT   ")) {
		return types.FilesystemExFAT
	}

	return types.FilesystemUnknown
}
