package detector

import (
	"encoding/binary"
	"testing"

	"github.com/blockscope/blockscope/internal/device"
	"github.com/blockscope/blockscope/internal/types"
)

func image(size int) []byte {
	return make([]byte, size)
}

func TestDetectNTFS(t *testing.T) {
	data := image(4096)
	copy(data[3:], "NTFS    ")
	got := Detect(device.NewMemorySource(data))
	if got != types.FilesystemNTFS {
		t.Errorf("Detect = %v, want NTFS", got)
	}
}

func TestDetectExt4(t *testing.T) {
	data := image(4096)
	binary.LittleEndian.PutUint16(data[1024+56:], 0xEF53)
	got := Detect(device.NewMemorySource(data))
	if got != types.FilesystemExt4 {
		t.Errorf("Detect = %v, want ext4", got)
	}
}

func TestDetectFAT32(t *testing.T) {
	data := image(4096)
	copy(data[82:], "FAT32   ")
	got := Detect(device.NewMemorySource(data))
	if got != types.FilesystemFAT32 {
		t.Errorf("Detect = %v, want FAT32 via offset 82", got)
	}

	data = image(4096)
	copy(data[54:], "FAT32")
	got = Detect(device.NewMemorySource(data))
	if got != types.FilesystemFAT32 {
		t.Errorf("Detect = %v, want FAT32 via offset 54", got)
	}
}

func TestDetectExFAT(t *testing.T) {
	data := image(4096)
	copy(data[3:], "EXFAT   ")
	got := Detect(device.NewMemorySource(data))
	if got != types.FilesystemExFAT {
		t.Errorf("Detect = %v, want exFAT", got)
	}
	if got.HasStructureParser() {
		t.Error("exFAT must report no structure parser")
	}
}

func TestDetectUnknown(t *testing.T) {
	got := Detect(device.NewMemorySource(image(4096)))
	if got != types.FilesystemUnknown {
		t.Errorf("Detect = %v, want Unknown", got)
	}
}

func TestDetectPrecedenceNTFSFirst(t *testing.T) {
	// An image carrying both an NTFS OEM id and an ext4 magic classifies
	// as NTFS: the boot sector check runs first.
	data := image(4096)
	copy(data[3:], "NTFS    ")
	binary.LittleEndian.PutUint16(data[1024+56:], 0xEF53)
	got := Detect(device.NewMemorySource(data))
	if got != types.FilesystemNTFS {
		t.Errorf("Detect = %v, want NTFS by precedence", got)
	}
}

func TestDetectTinySourceDegradesToUnknown(t *testing.T) {
	got := Detect(device.NewMemorySource(image(64)))
	if got != types.FilesystemUnknown {
		t.Errorf("Detect = %v, want Unknown for undersized source", got)
	}
}

func TestDetectExt4SourceWithoutSuperblockRegion(t *testing.T) {
	// Large enough for the boot sector but too small for the superblock.
	got := Detect(device.NewMemorySource(image(1024)))
	if got != types.FilesystemUnknown {
		t.Errorf("Detect = %v, want Unknown", got)
	}
}
