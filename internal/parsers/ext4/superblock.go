package ext4

import (
	"encoding/binary"
	"fmt"
)

const (
	// SuperblockOffset is the fixed byte offset of the primary superblock.
	SuperblockOffset = 1024
	superblockSize   = 1024

	ext4Magic       = 0xEF53
	ext4MagicOffset = 56

	defaultInodeSize = 128
)

// Superblock carries the geometry fields needed to walk the inode tables.
type Superblock struct {
	InodesCount    uint32
	BlocksCount    uint32
	LogBlockSize   uint32
	InodeSize      uint16
	InodesPerGroup uint32
}

// ParseSuperblock decodes and validates the ext4 superblock.
func ParseSuperblock(data []byte) (*Superblock, error) {
	if len(data) < superblockSize {
		return nil, fmt.Errorf("insufficient data for ext4 superblock: %d bytes", len(data))
	}
	if binary.LittleEndian.Uint16(data[ext4MagicOffset:ext4MagicOffset+2]) != ext4Magic {
		return nil, fmt.Errorf("missing ext4 magic")
	}

	sb := &Superblock{
		InodesCount:    binary.LittleEndian.Uint32(data[0:4]),
		BlocksCount:    binary.LittleEndian.Uint32(data[4:8]),
		LogBlockSize:   binary.LittleEndian.Uint32(data[24:28]),
		InodeSize:      binary.LittleEndian.Uint16(data[88:90]),
		InodesPerGroup: binary.LittleEndian.Uint32(data[40:44]),
	}
	if sb.InodeSize == 0 {
		// Pre-ext4 layouts omit the field.
		sb.InodeSize = defaultInodeSize
	}
	return sb, nil
}

// BlockSize returns the filesystem block size in bytes.
func (sb *Superblock) BlockSize() uint64 {
	return 1024 << sb.LogBlockSize
}
