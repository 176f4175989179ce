package ntfs

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/blockscope/blockscope/internal/types"
)

func TestFiletimeToTime(t *testing.T) {
	// 2024-01-01T00:00:00Z in 100ns ticks since 1601.
	got := FiletimeToTime(133485408000000000)
	if got == nil {
		t.Fatal("FiletimeToTime returned nil for a valid value")
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("FiletimeToTime = %v, want %v", got, want)
	}
}

func TestFiletimeZeroIsAbsent(t *testing.T) {
	if got := FiletimeToTime(0); got != nil {
		t.Errorf("FiletimeToTime(0) = %v, want nil", got)
	}
}

func TestFiletimeSubSecond(t *testing.T) {
	// One second and one tick past the 2024 instant.
	got := FiletimeToTime(133485408010000001)
	if got == nil {
		t.Fatal("FiletimeToTime returned nil")
	}
	want := time.Date(2024, 1, 1, 0, 0, 1, 100, time.UTC)
	if !got.Equal(want) {
		t.Errorf("FiletimeToTime = %v, want %v", got, want)
	}
}

func TestParseBootSector(t *testing.T) {
	boot := make([]byte, 512)
	binary.LittleEndian.PutUint16(boot[0x0B:], 512)
	boot[0x0D] = 8
	binary.LittleEndian.PutUint64(boot[0x30:], 4)

	bs, err := ParseBootSector(boot)
	if err != nil {
		t.Fatalf("ParseBootSector failed: %v", err)
	}
	if bs.MFTOffset() != 4*512*8 {
		t.Errorf("MFTOffset() = %d, want %d", bs.MFTOffset(), 4*512*8)
	}
}

func TestParseBootSectorInvalidGeometry(t *testing.T) {
	boot := make([]byte, 512)
	if _, err := ParseBootSector(boot); err == nil {
		t.Error("expected error for zero geometry")
	}
	if _, err := ParseBootSector(boot[:16]); err == nil {
		t.Error("expected error for short buffer")
	}
}

// buildMFTEntry constructs a FILE record with a resident
// $STANDARD_INFORMATION attribute carrying the given FILETIME values.
func buildMFTEntry(created, modified, mftChanged, accessed uint64) []byte {
	entry := make([]byte, types.MFTEntrySize)
	copy(entry, "FILE")
	binary.LittleEndian.PutUint16(entry[0x14:], 0x38) // first attribute offset

	attr := 0x38
	binary.LittleEndian.PutUint32(entry[attr:], attrTypeStandardInformation)
	binary.LittleEndian.PutUint32(entry[attr+4:], 0x60) // attribute length
	entry[attr+8] = 0                                   // resident
	binary.LittleEndian.PutUint16(entry[attr+0x14:], 0x18)

	content := attr + 0x18
	binary.LittleEndian.PutUint64(entry[content:], created)
	binary.LittleEndian.PutUint64(entry[content+8:], modified)
	binary.LittleEndian.PutUint64(entry[content+16:], mftChanged)
	binary.LittleEndian.PutUint64(entry[content+24:], accessed)

	end := attr + 0x60
	binary.LittleEndian.PutUint32(entry[end:], attrTypeEndMarker)
	return entry
}

func TestParseMFTEntry(t *testing.T) {
	const ft2024 = uint64(133485408000000000)
	entry := buildMFTEntry(ft2024, ft2024+10_000_000, ft2024+20_000_000, ft2024+30_000_000)

	record, err := ParseMFTEntry(entry)
	if err != nil {
		t.Fatalf("ParseMFTEntry failed: %v", err)
	}

	if record.BTime == nil || !record.BTime.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("BTime = %v, want 2024-01-01", record.BTime)
	}
	if record.MTime == nil || record.MTime.Sub(*record.BTime) != time.Second {
		t.Errorf("MTime = %v, want one second after BTime", record.MTime)
	}
	if record.CTime == nil || record.CTime.Sub(*record.BTime) != 2*time.Second {
		t.Errorf("CTime = %v, want two seconds after BTime", record.CTime)
	}
	if record.ATime == nil || record.ATime.Sub(*record.BTime) != 3*time.Second {
		t.Errorf("ATime = %v, want three seconds after BTime", record.ATime)
	}
}

func TestParseMFTEntryZeroTimestampsAbsent(t *testing.T) {
	entry := buildMFTEntry(0, 133485408000000000, 0, 0)
	record, err := ParseMFTEntry(entry)
	if err != nil {
		t.Fatalf("ParseMFTEntry failed: %v", err)
	}
	if record.BTime != nil || record.CTime != nil || record.ATime != nil {
		t.Error("zero FILETIME fields should decode to absent")
	}
	if record.MTime == nil {
		t.Error("nonzero MTime should decode")
	}
}

func TestParseMFTEntryMissingSignature(t *testing.T) {
	entry := make([]byte, types.MFTEntrySize)
	if _, err := ParseMFTEntry(entry); err == nil {
		t.Error("expected error for missing FILE signature")
	}
}

func TestParseMFTEntryCorruptAttributeLength(t *testing.T) {
	// Zero attribute length must terminate the walk, not loop.
	entry := make([]byte, types.MFTEntrySize)
	copy(entry, "FILE")
	binary.LittleEndian.PutUint16(entry[0x14:], 0x38)
	binary.LittleEndian.PutUint32(entry[0x38:], 0x80) // unknown attribute type
	binary.LittleEndian.PutUint32(entry[0x38+4:], 0)  // corrupt length

	if _, err := ParseMFTEntry(entry); err == nil {
		t.Error("expected error when no standard information is found")
	}
}

func TestParseMFTEntryOversizedAttributeLength(t *testing.T) {
	entry := make([]byte, types.MFTEntrySize)
	copy(entry, "FILE")
	binary.LittleEndian.PutUint16(entry[0x14:], 0x38)
	binary.LittleEndian.PutUint32(entry[0x38:], 0x80)
	binary.LittleEndian.PutUint32(entry[0x38+4:], 0xFFFF0000)

	if _, err := ParseMFTEntry(entry); err == nil {
		t.Error("expected error for oversized attribute length")
	}
}

func TestParseMFTEntryNonResidentSkipped(t *testing.T) {
	entry := buildMFTEntry(1, 2, 3, 4)
	entry[0x38+8] = 1 // mark $STANDARD_INFORMATION non-resident

	if _, err := ParseMFTEntry(entry); err == nil {
		t.Error("expected error for non-resident standard information")
	}
}
