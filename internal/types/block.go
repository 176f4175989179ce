package types

// FileKind is a content classification derived from magic bytes at the start
// of a block. The empty string means no known signature matched.
type FileKind string

const (
	FileKindNone FileKind = ""
	FileKindPNG  FileKind = "PNG"
	FileKindJPEG FileKind = "JPEG"
	FileKindGIF  FileKind = "GIF"
	FileKindZIP  FileKind = "ZIP"
	FileKindPDF  FileKind = "PDF"
	FileKindEXE  FileKind = "EXE"
	FileKindELF  FileKind = "ELF"
	FileKindRIFF FileKind = "RIFF"
)

// Features holds content characteristics derived deterministically from a
// block's head sample.
type Features struct {
	IsZero         bool     `json:"is_zero"`
	Entropy        float64  `json:"entropy"`         // Shannon entropy in [0, 8]
	Magic          FileKind `json:"magic,omitempty"` // first matching signature
	PrintableRatio float64  `json:"printable_ratio"` // fraction of bytes in [32, 126]
}

// Block is one fixed-size unit of the evidence image, captured during the
// analysis pass and never mutated afterward. Offset is always ID*blockSize.
type Block struct {
	ID         uint64
	Offset     uint64
	Size       uint32
	HeadSample []byte // first <=512 bytes
	TailSample []byte // last <=512 bytes
	HeadDigest uint64
	TailDigest uint64
	Features   Features
	Timestamps *TimestampRecord // nil when no nearby structure was indexed
	Inode      *InodeDetail     // ext4 only
}
