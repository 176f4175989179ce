package ext4

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestUnixToTime(t *testing.T) {
	got := unixToTime(1704067200)
	if got == nil {
		t.Fatal("unixToTime returned nil for a valid value")
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("unixToTime(1704067200) = %v, want %v", got, want)
	}
}

func TestUnixToTimeZeroIsAbsent(t *testing.T) {
	if got := unixToTime(0); got != nil {
		t.Errorf("unixToTime(0) = %v, want nil", got)
	}
}

func buildSuperblock() []byte {
	sb := make([]byte, 1024)
	binary.LittleEndian.PutUint32(sb[0:], 8192)  // inodes count
	binary.LittleEndian.PutUint32(sb[4:], 32768) // blocks count
	binary.LittleEndian.PutUint32(sb[24:], 0)    // log block size -> 1024
	binary.LittleEndian.PutUint32(sb[40:], 2048) // inodes per group
	binary.LittleEndian.PutUint16(sb[88:], 256)  // inode size
	binary.LittleEndian.PutUint16(sb[56:], 0xEF53)
	return sb
}

func TestParseSuperblock(t *testing.T) {
	sb, err := ParseSuperblock(buildSuperblock())
	if err != nil {
		t.Fatalf("ParseSuperblock failed: %v", err)
	}
	if sb.BlockSize() != 1024 {
		t.Errorf("BlockSize() = %d, want 1024", sb.BlockSize())
	}
	if sb.InodeSize != 256 {
		t.Errorf("InodeSize = %d, want 256", sb.InodeSize)
	}
	if sb.InodesPerGroup != 2048 {
		t.Errorf("InodesPerGroup = %d, want 2048", sb.InodesPerGroup)
	}
}

func TestParseSuperblockDefaultInodeSize(t *testing.T) {
	data := buildSuperblock()
	binary.LittleEndian.PutUint16(data[88:], 0)
	sb, err := ParseSuperblock(data)
	if err != nil {
		t.Fatalf("ParseSuperblock failed: %v", err)
	}
	if sb.InodeSize != 128 {
		t.Errorf("InodeSize = %d, want default 128", sb.InodeSize)
	}
}

func TestParseSuperblockBadMagic(t *testing.T) {
	data := buildSuperblock()
	binary.LittleEndian.PutUint16(data[56:], 0x1234)
	if _, err := ParseSuperblock(data); err == nil {
		t.Error("expected error for missing ext4 magic")
	}
}

// buildInode constructs an inode buffer of the given size with the classic
// timestamp fields set.
func buildInode(size int, atime, ctime, mtime uint32) []byte {
	inode := make([]byte, size)
	binary.LittleEndian.PutUint16(inode[0x00:], 0x81A4) // regular file 0644
	binary.LittleEndian.PutUint16(inode[0x02:], 1000)   // uid
	binary.LittleEndian.PutUint32(inode[0x04:], 4096)   // size
	binary.LittleEndian.PutUint32(inode[0x08:], atime)
	binary.LittleEndian.PutUint32(inode[0x0C:], ctime)
	binary.LittleEndian.PutUint32(inode[0x10:], mtime)
	binary.LittleEndian.PutUint16(inode[0x18:], 1000) // gid
	binary.LittleEndian.PutUint16(inode[0x1A:], 1)    // links count
	return inode
}

func TestParseInode(t *testing.T) {
	inode := buildInode(256, 1704067200, 1704067201, 1704067202)
	binary.LittleEndian.PutUint32(inode[0x9C:], 1704067199) // crtime

	record, detail, err := ParseInode(inode)
	if err != nil {
		t.Fatalf("ParseInode failed: %v", err)
	}

	if record.ATime == nil || record.ATime.Unix() != 1704067200 {
		t.Errorf("ATime = %v, want unix 1704067200", record.ATime)
	}
	if record.CTime == nil || record.CTime.Unix() != 1704067201 {
		t.Errorf("CTime = %v, want unix 1704067201", record.CTime)
	}
	if record.MTime == nil || record.MTime.Unix() != 1704067202 {
		t.Errorf("MTime = %v, want unix 1704067202", record.MTime)
	}
	if record.BTime == nil || record.BTime.Unix() != 1704067199 {
		t.Errorf("BTime = %v, want unix 1704067199", record.BTime)
	}

	if detail.UID != 1000 || detail.GID != 1000 {
		t.Errorf("UID/GID = %d/%d, want 1000/1000", detail.UID, detail.GID)
	}
	if detail.Size != 4096 {
		t.Errorf("Size = %d, want 4096", detail.Size)
	}
	if detail.LinksCount != 1 {
		t.Errorf("LinksCount = %d, want 1", detail.LinksCount)
	}
}

func TestParseInodeSmallLayoutHasNoBirthTime(t *testing.T) {
	// The 128-byte layout predates i_crtime; birth time must stay absent.
	inode := buildInode(128, 1704067200, 1704067200, 1704067200)
	record, _, err := ParseInode(inode)
	if err != nil {
		t.Fatalf("ParseInode failed: %v", err)
	}
	if record.BTime != nil {
		t.Errorf("BTime = %v, want nil for 128-byte inode", record.BTime)
	}
}

func TestParseInodeZeroCrtimeAbsent(t *testing.T) {
	inode := buildInode(256, 1704067200, 1704067200, 1704067200)
	record, _, err := ParseInode(inode)
	if err != nil {
		t.Fatalf("ParseInode failed: %v", err)
	}
	if record.BTime != nil {
		t.Errorf("BTime = %v, want nil for zero crtime", record.BTime)
	}
}

func TestParseInodeTooShort(t *testing.T) {
	if _, _, err := ParseInode(make([]byte, 64)); err == nil {
		t.Error("expected error for truncated inode")
	}
}
