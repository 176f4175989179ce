package ntfs

import (
	"encoding/binary"
	"fmt"
)

// BootSector carries the geometry fields needed to locate the MFT.
type BootSector struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	MFTStartCluster   uint64
}

// ParseBootSector decodes the NTFS boot sector geometry fields.
func ParseBootSector(data []byte) (*BootSector, error) {
	if len(data) < 0x38 {
		return nil, fmt.Errorf("insufficient data for NTFS boot sector: %d bytes", len(data))
	}

	bs := &BootSector{
		BytesPerSector:    binary.LittleEndian.Uint16(data[0x0B:0x0D]),
		SectorsPerCluster: data[0x0D],
		MFTStartCluster:   binary.LittleEndian.Uint64(data[0x30:0x38]),
	}

	if bs.BytesPerSector == 0 || bs.SectorsPerCluster == 0 {
		return nil, fmt.Errorf("invalid NTFS geometry: %d bytes/sector, %d sectors/cluster",
			bs.BytesPerSector, bs.SectorsPerCluster)
	}
	return bs, nil
}

// MFTOffset returns the absolute byte offset of the Master File Table.
func (bs *BootSector) MFTOffset() uint64 {
	return bs.MFTStartCluster * uint64(bs.BytesPerSector) * uint64(bs.SectorsPerCluster)
}
