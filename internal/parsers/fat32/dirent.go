// Package fat32 decodes timestamps from FAT32 directory entries found in the
// data region.
package fat32

import (
	"encoding/binary"
	"fmt"

	"github.com/blockscope/blockscope/internal/interfaces"
	"github.com/blockscope/blockscope/internal/types"
)

const (
	// Directory entry lead bytes that disqualify a slot.
	leadEndOfDirectory = 0x00
	leadDeleted        = 0xE5
	leadInvalidLabel   = 0x20

	createdTimeOffset  = 0x0E
	createdDateOffset  = 0x10
	accessedDateOffset = 0x12
	modifiedTimeOffset = 0x16
	modifiedDateOffset = 0x18
)

// BPB carries the BIOS parameter block fields needed to locate the data
// region.
type BPB struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	SectorsPerFAT     uint32
}

// ParseBPB decodes the FAT32 BIOS parameter block.
func ParseBPB(data []byte) (*BPB, error) {
	if len(data) < 0x28 {
		return nil, fmt.Errorf("insufficient data for FAT32 BPB: %d bytes", len(data))
	}

	bpb := &BPB{
		BytesPerSector:    binary.LittleEndian.Uint16(data[0x0B:0x0D]),
		SectorsPerCluster: data[0x0D],
		ReservedSectors:   binary.LittleEndian.Uint16(data[0x0E:0x10]),
		NumFATs:           data[0x10],
		SectorsPerFAT:     binary.LittleEndian.Uint32(data[0x24:0x28]),
	}

	if bpb.BytesPerSector == 0 {
		return nil, fmt.Errorf("invalid FAT32 geometry: zero bytes per sector")
	}
	return bpb, nil
}

// DataRegionOffset returns the absolute byte offset where the data region
// (and therefore directory entries) begins.
func (b *BPB) DataRegionOffset() uint64 {
	reserved := uint64(b.ReservedSectors) * uint64(b.BytesPerSector)
	fats := uint64(b.NumFATs) * uint64(b.SectorsPerFAT) * uint64(b.BytesPerSector)
	return reserved + fats
}

// Parser implements interfaces.StructureParser for FAT32.
type Parser struct{}

// NewParser creates a FAT32 structure parser.
func NewParser() *Parser {
	return &Parser{}
}

// Kind returns the filesystem family this parser decodes.
func (p *Parser) Kind() types.FilesystemKind {
	return types.FilesystemFAT32
}

// Scan walks the data region sector by sector and decodes every directory
// entry candidate. The walk is bounded to the first 50 MiB of the data
// region; unreadable sectors are skipped.
func (p *Parser) Scan(source interfaces.EvidenceSource, emit func(types.StructureRecord), counters *interfaces.ScanCounters, progress interfaces.ProgressSink) error {
	bootData, err := source.ReadAt(0, 512)
	if err != nil {
		return fmt.Errorf("failed to read FAT32 boot sector: %w", err)
	}

	bpb, err := ParseBPB(bootData)
	if err != nil {
		return fmt.Errorf("failed to parse FAT32 BPB: %w", err)
	}

	start := bpb.DataRegionOffset()
	if start >= source.Size() {
		return fmt.Errorf("FAT32 data region offset %d beyond source size %d", start, source.Size())
	}

	scanBytes := source.Size() - start
	if scanBytes > types.MaxFAT32ScanBytes {
		scanBytes = types.MaxFAT32ScanBytes
	}

	totalSectors := (scanBytes + types.FAT32SectorSize - 1) / types.FAT32SectorSize
	for sector := uint64(0); sector*types.FAT32SectorSize < scanBytes; sector++ {
		if sector%4096 == 0 && totalSectors > 0 {
			progress.Report(float64(sector)/float64(totalSectors)*100,
				fmt.Sprintf("scanning data region sector %d/%d", sector, totalSectors))
		}

		sectorOffset := start + sector*types.FAT32SectorSize
		data, err := source.ReadAt(sectorOffset, types.FAT32SectorSize)
		if err != nil {
			continue
		}

		for slot := 0; slot+types.FAT32DirentSize <= len(data); slot += types.FAT32DirentSize {
			entry := data[slot : slot+types.FAT32DirentSize]
			lead := entry[0]
			if lead == leadEndOfDirectory || lead == leadDeleted || lead == leadInvalidLabel {
				continue
			}

			record := ParseDirent(entry)
			if record == nil || record.IsEmpty() {
				counters.Attempt(false)
				continue
			}
			counters.Attempt(true)
			emit(types.StructureRecord{Offset: sectorOffset + uint64(slot), Timestamps: *record})
		}
	}
	return nil
}

// ParseDirent decodes the timestamp fields of one 32-byte directory entry.
// FAT32 has no independent change time, so the change and birth times both
// carry the creation timestamp; the accessed field is date-only.
func ParseDirent(entry []byte) *types.TimestampRecord {
	if len(entry) < types.FAT32DirentSize {
		return nil
	}

	createdTime := binary.LittleEndian.Uint16(entry[createdTimeOffset : createdTimeOffset+2])
	createdDate := binary.LittleEndian.Uint16(entry[createdDateOffset : createdDateOffset+2])
	accessedDate := binary.LittleEndian.Uint16(entry[accessedDateOffset : accessedDateOffset+2])
	modifiedTime := binary.LittleEndian.Uint16(entry[modifiedTimeOffset : modifiedTimeOffset+2])
	modifiedDate := binary.LittleEndian.Uint16(entry[modifiedDateOffset : modifiedDateOffset+2])

	created := DecodeTimestamp(createdDate, createdTime)

	return &types.TimestampRecord{
		MTime: DecodeTimestamp(modifiedDate, modifiedTime),
		CTime: created,
		ATime: DecodeTimestamp(accessedDate, 0),
		BTime: created,
	}
}
