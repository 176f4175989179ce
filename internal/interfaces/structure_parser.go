package interfaces

import "github.com/blockscope/blockscope/internal/types"

// StructureParser is the capability shared by the per-filesystem metadata
// extractors. One implementation exists per supported filesystem; the
// detector's output selects which one a session uses.
type StructureParser interface {
	// Kind returns the filesystem family this parser decodes.
	Kind() types.FilesystemKind

	// Scan walks the source's metadata structures (MFT entries, inode
	// tables, directory entries) and emits one StructureRecord per
	// successfully decoded structure. A decode failure skips only that
	// record; Scan returns an error only when the filesystem geometry
	// itself cannot be established. Progress is reported against the
	// parser's own scan bound.
	Scan(source EvidenceSource, emit func(types.StructureRecord), counters *ScanCounters, progress ProgressSink) error
}

// ScanCounters aggregates per-record outcomes of a structure scan so that
// skipped records are observable instead of silently dropped.
type ScanCounters struct {
	RecordsAttempted int
	RecordsDecoded   int
	RecordsSkipped   int
}

// Attempt notes one candidate record and its outcome.
func (c *ScanCounters) Attempt(decoded bool) {
	c.RecordsAttempted++
	if decoded {
		c.RecordsDecoded++
	} else {
		c.RecordsSkipped++
	}
}
