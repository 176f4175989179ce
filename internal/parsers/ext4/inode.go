// Package ext4 decodes MACB timestamps and inode detail from ext4 inode
// tables.
package ext4

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/blockscope/blockscope/internal/interfaces"
	"github.com/blockscope/blockscope/internal/types"
)

const (
	groupDescriptorSize   = 32
	inodeTableBlockOffset = 8

	minInodeSize = 128
	crtimeOffset = 0x9C
)

// Parser implements interfaces.StructureParser for ext4.
type Parser struct{}

// NewParser creates an ext4 structure parser.
func NewParser() *Parser {
	return &Parser{}
}

// Kind returns the filesystem family this parser decodes.
func (p *Parser) Kind() types.FilesystemKind {
	return types.FilesystemExt4
}

// Scan reads the superblock, walks the leading block-group descriptors and
// decodes in-use inodes from each group's inode table. A group whose
// descriptor or table cannot be read is skipped; the scan continues.
func (p *Parser) Scan(source interfaces.EvidenceSource, emit func(types.StructureRecord), counters *interfaces.ScanCounters, progress interfaces.ProgressSink) error {
	sbData, err := source.ReadAt(SuperblockOffset, superblockSize)
	if err != nil {
		return fmt.Errorf("failed to read ext4 superblock: %w", err)
	}

	sb, err := ParseSuperblock(sbData)
	if err != nil {
		return fmt.Errorf("failed to parse ext4 superblock: %w", err)
	}

	blockSize := sb.BlockSize()
	descriptorTable := blockSize * 2

	groups := uint64(sb.BlocksCount) / 8192
	if groups > types.MaxInodeGroups {
		groups = types.MaxInodeGroups
	}

	inodesPerGroup := uint64(sb.InodesPerGroup)
	if inodesPerGroup > types.MaxInodesPerGroup {
		inodesPerGroup = types.MaxInodesPerGroup
	}

	for group := uint64(0); group < groups; group++ {
		progress.Report(float64(group)/float64(groups)*100,
			fmt.Sprintf("scanning inode table for block group %d/%d", group, groups))

		descData, err := source.ReadAt(descriptorTable+group*groupDescriptorSize, groupDescriptorSize)
		if err != nil || len(descData) < groupDescriptorSize {
			continue
		}

		inodeTableBlock := binary.LittleEndian.Uint32(descData[inodeTableBlockOffset : inodeTableBlockOffset+4])
		tableOffset := uint64(inodeTableBlock) * blockSize

		for slot := uint64(0); slot < inodesPerGroup; slot++ {
			offset := tableOffset + slot*uint64(sb.InodeSize)
			inodeData, err := source.ReadAt(offset, uint32(sb.InodeSize))
			if err != nil {
				continue
			}
			if len(inodeData) < 2 || binary.LittleEndian.Uint16(inodeData[0:2]) == 0 {
				// i_mode of zero marks an unused slot.
				continue
			}

			record, detail, err := ParseInode(inodeData)
			if err != nil {
				counters.Attempt(false)
				continue
			}
			if record.IsEmpty() {
				counters.Attempt(false)
				continue
			}
			counters.Attempt(true)
			emit(types.StructureRecord{Offset: offset, Timestamps: *record, Inode: detail})
		}
	}
	return nil
}

// ParseInode decodes the timestamp fields and carrier detail of one inode.
// The birth time exists only in the larger ext4 inode layout, so buffers
// shorter than 0xA0 bytes never report one.
func ParseInode(data []byte) (*types.TimestampRecord, *types.InodeDetail, error) {
	if len(data) < minInodeSize {
		return nil, nil, fmt.Errorf("insufficient data for ext4 inode: %d bytes", len(data))
	}

	record := &types.TimestampRecord{
		ATime: unixToTime(binary.LittleEndian.Uint32(data[0x08:0x0C])),
		CTime: unixToTime(binary.LittleEndian.Uint32(data[0x0C:0x10])),
		MTime: unixToTime(binary.LittleEndian.Uint32(data[0x10:0x14])),
	}

	if len(data) >= crtimeOffset+4 {
		if crtime := binary.LittleEndian.Uint32(data[crtimeOffset : crtimeOffset+4]); crtime > 0 {
			record.BTime = unixToTime(crtime)
		}
	}

	detail := &types.InodeDetail{
		Mode:       binary.LittleEndian.Uint16(data[0x00:0x02]),
		UID:        binary.LittleEndian.Uint16(data[0x02:0x04]),
		Size:       binary.LittleEndian.Uint32(data[0x04:0x08]),
		GID:        binary.LittleEndian.Uint16(data[0x18:0x1A]),
		LinksCount: binary.LittleEndian.Uint16(data[0x1A:0x1C]),
	}

	return record, detail, nil
}

// unixToTime converts Unix seconds to a UTC instant, treating zero as
// "never set" rather than the epoch.
func unixToTime(seconds uint32) *time.Time {
	if seconds == 0 {
		return nil
	}
	t := time.Unix(int64(seconds), 0).UTC()
	return &t
}
