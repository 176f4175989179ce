package classifier

import (
	"bytes"
	"math"
	"testing"

	"github.com/blockscope/blockscope/internal/types"
)

func TestEntropyAllZero(t *testing.T) {
	data := make([]byte, 512)
	if got := Entropy(data); got != 0 {
		t.Errorf("Entropy(all zero) = %v, want 0", got)
	}
}

func TestEntropyMaximal(t *testing.T) {
	// 256 distinct byte values, each appearing twice.
	data := make([]byte, 512)
	for i := 0; i < 256; i++ {
		data[2*i] = byte(i)
		data[2*i+1] = byte(i)
	}
	got := Entropy(data)
	if math.Abs(got-8.0) > 1e-9 {
		t.Errorf("Entropy(uniform 256 values) = %v, want 8.0", got)
	}
}

func TestEntropyEmpty(t *testing.T) {
	if got := Entropy(nil); got != 0 {
		t.Errorf("Entropy(nil) = %v, want 0", got)
	}
}

func TestEntropyBounds(t *testing.T) {
	samples := [][]byte{
		bytes.Repeat([]byte{0xAB}, 512),
		[]byte("hello world, this is mostly text"),
		{0x00, 0xFF, 0x00, 0xFF},
	}
	for _, data := range samples {
		got := Entropy(data)
		if got < 0 || got > 8 {
			t.Errorf("Entropy(%v...) = %v, out of [0, 8]", data[:4], got)
		}
	}
}

func TestDetectMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want types.FileKind
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n"), types.FileKindPNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, types.FileKindJPEG},
		{"gif", []byte("GIF89a"), types.FileKindGIF},
		{"zip", []byte("PK\x03\x04rest"), types.FileKindZIP},
		{"pdf", []byte("%PDF-1.7"), types.FileKindPDF},
		{"exe", []byte("MZ\x90\x00"), types.FileKindEXE},
		{"elf", []byte("\x7FELF\x02"), types.FileKindELF},
		{"riff", []byte("RIFF\x24\x08\x00\x00WAVE"), types.FileKindRIFF},
		{"plain bytes", bytes.Repeat([]byte{0x41}, 512), types.FileKindNone},
		{"empty", nil, types.FileKindNone},
	}

	for _, tt := range tests {
		if got := DetectMagic(tt.data); got != tt.want {
			t.Errorf("DetectMagic(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPrintableRatio(t *testing.T) {
	if got := PrintableRatio([]byte("abcd")); got != 1.0 {
		t.Errorf("PrintableRatio(text) = %v, want 1.0", got)
	}
	if got := PrintableRatio([]byte{0, 1, 2, 3}); got != 0 {
		t.Errorf("PrintableRatio(control bytes) = %v, want 0", got)
	}
	if got := PrintableRatio([]byte{'a', 0}); got != 0.5 {
		t.Errorf("PrintableRatio(half printable) = %v, want 0.5", got)
	}
	if got := PrintableRatio(nil); got != 0 {
		t.Errorf("PrintableRatio(nil) = %v, want 0", got)
	}
}

func TestClassify(t *testing.T) {
	head := make([]byte, 512)
	copy(head, "\x89PNG\r\n\x1a\n")
	features := Classify(head)

	if features.IsZero {
		t.Error("IsZero = true for PNG head")
	}
	if features.Magic != types.FileKindPNG {
		t.Errorf("Magic = %q, want PNG", features.Magic)
	}
	if features.Entropy < 0 || features.Entropy > 8 {
		t.Errorf("Entropy = %v, out of [0, 8]", features.Entropy)
	}

	zero := Classify(make([]byte, 512))
	if !zero.IsZero {
		t.Error("IsZero = false for all-zero head")
	}
	if zero.Entropy != 0 {
		t.Errorf("Entropy of zero block = %v, want 0", zero.Entropy)
	}
	if zero.Magic != types.FileKindNone {
		t.Errorf("Magic of zero block = %q, want none", zero.Magic)
	}
}

func TestClassifyTruncatesSample(t *testing.T) {
	long := bytes.Repeat([]byte{'x'}, 4096)
	short := bytes.Repeat([]byte{'x'}, 512)
	if Classify(long) != Classify(short) {
		t.Error("classification should only depend on the first 512 bytes")
	}
}
