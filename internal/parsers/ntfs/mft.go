// Package ntfs decodes MACB timestamps from NTFS Master File Table entries.
package ntfs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/blockscope/blockscope/internal/interfaces"
	"github.com/blockscope/blockscope/internal/types"
)

const (
	entrySignature = "FILE"

	// Attribute record layout.
	attrTypeStandardInformation = 0x10
	attrTypeEndMarker           = 0xFFFFFFFF
	attrNonResidentFlagOffset   = 8
	attrContentOffsetField      = 0x14
	firstAttributeOffsetField   = 0x14

	standardInformationSize = 32 // four FILETIME values
)

// Parser implements interfaces.StructureParser for NTFS.
type Parser struct{}

// NewParser creates an NTFS structure parser.
func NewParser() *Parser {
	return &Parser{}
}

// Kind returns the filesystem family this parser decodes.
func (p *Parser) Kind() types.FilesystemKind {
	return types.FilesystemNTFS
}

// Scan locates the MFT from the boot sector and walks its entries
// sequentially, emitting one record per entry whose $STANDARD_INFORMATION
// attribute decodes. Corrupt entries are counted and skipped.
func (p *Parser) Scan(source interfaces.EvidenceSource, emit func(types.StructureRecord), counters *interfaces.ScanCounters, progress interfaces.ProgressSink) error {
	bootData, err := source.ReadAt(0, 512)
	if err != nil {
		return fmt.Errorf("failed to read NTFS boot sector: %w", err)
	}

	boot, err := ParseBootSector(bootData)
	if err != nil {
		return fmt.Errorf("failed to parse NTFS boot sector: %w", err)
	}

	mftOffset := boot.MFTOffset()
	maxEntries := uint64(types.MaxMFTEntries)
	if byEntries := source.Size() / types.MFTEntrySize; byEntries < maxEntries {
		maxEntries = byEntries
	}

	for i := uint64(0); i < maxEntries; i++ {
		if i%1000 == 0 && maxEntries > 0 {
			progress.Report(float64(i)/float64(maxEntries)*100,
				fmt.Sprintf("scanning MFT entry %d/%d", i, maxEntries))
		}

		offset := mftOffset + i*types.MFTEntrySize
		entry, err := source.ReadAt(offset, types.MFTEntrySize)
		if err != nil {
			// Unreadable region: skip the entry, not the scan.
			continue
		}
		if len(entry) < types.MFTEntrySize || !bytes.HasPrefix(entry, []byte(entrySignature)) {
			continue
		}

		record, err := ParseMFTEntry(entry)
		if err != nil {
			counters.Attempt(false)
			continue
		}
		counters.Attempt(true)
		emit(types.StructureRecord{Offset: offset, Timestamps: *record})
	}
	return nil
}

// ParseMFTEntry walks a FILE record's attribute list and decodes the four
// FILETIME values from a resident $STANDARD_INFORMATION attribute.
func ParseMFTEntry(entry []byte) (*types.TimestampRecord, error) {
	if len(entry) < types.MFTEntrySize {
		return nil, fmt.Errorf("insufficient data for MFT entry: %d bytes", len(entry))
	}
	if !bytes.HasPrefix(entry, []byte(entrySignature)) {
		return nil, fmt.Errorf("missing FILE signature")
	}

	offset := int(binary.LittleEndian.Uint16(entry[firstAttributeOffsetField : firstAttributeOffsetField+2]))

	for offset+8 <= len(entry) {
		attrType := binary.LittleEndian.Uint32(entry[offset : offset+4])
		if attrType == attrTypeEndMarker {
			break
		}

		attrLength := int(binary.LittleEndian.Uint32(entry[offset+4 : offset+8]))
		// Corruption guard: a zero or oversized length would loop forever
		// or run off the record.
		if attrLength == 0 || attrLength > len(entry)-offset {
			break
		}

		if attrType == attrTypeStandardInformation {
			return parseStandardInformation(entry, offset, attrLength)
		}

		offset += attrLength
	}

	return nil, fmt.Errorf("no resident $STANDARD_INFORMATION attribute")
}

func parseStandardInformation(entry []byte, attrOffset, attrLength int) (*types.TimestampRecord, error) {
	if attrOffset+attrContentOffsetField+2 > len(entry) {
		return nil, fmt.Errorf("truncated attribute header")
	}
	if entry[attrOffset+attrNonResidentFlagOffset] != 0 {
		return nil, fmt.Errorf("$STANDARD_INFORMATION is non-resident")
	}

	contentOffset := attrOffset + int(binary.LittleEndian.Uint16(entry[attrOffset+attrContentOffsetField:attrOffset+attrContentOffsetField+2]))
	if contentOffset+standardInformationSize > len(entry) || contentOffset+standardInformationSize > attrOffset+attrLength {
		return nil, fmt.Errorf("truncated $STANDARD_INFORMATION content")
	}

	created := binary.LittleEndian.Uint64(entry[contentOffset : contentOffset+8])
	modified := binary.LittleEndian.Uint64(entry[contentOffset+8 : contentOffset+16])
	mftChanged := binary.LittleEndian.Uint64(entry[contentOffset+16 : contentOffset+24])
	accessed := binary.LittleEndian.Uint64(entry[contentOffset+24 : contentOffset+32])

	return &types.TimestampRecord{
		MTime: FiletimeToTime(modified),
		CTime: FiletimeToTime(mftChanged),
		ATime: FiletimeToTime(accessed),
		BTime: FiletimeToTime(created),
	}, nil
}
