// Package metaindex caches decoded structure timestamps and answers nearest
// known timestamp queries for arbitrary block offsets.
//
// The block association is an explicit approximation: a structure within a
// fixed block radius of an offset is used as a weak forensic proxy for that
// block's timestamps. True block-to-file attribution needs extent resolution,
// which is out of scope.
package metaindex

import (
	"fmt"
	"sort"

	"github.com/blockscope/blockscope/internal/interfaces"
	"github.com/blockscope/blockscope/internal/types"
)

// entry associates one block-aligned offset with the structure record whose
// on-disk location is closest to it.
type entry struct {
	blockOffset  uint64
	structOffset uint64
	record       *types.StructureRecord
}

// Index is the session-wide offset-to-timestamp cache. It is populated by a
// single Scan and read-only afterwards; queries take no locks because they
// only run after the scan pass has signaled completion.
type Index struct {
	kind      types.FilesystemKind
	blockSize uint32
	radius    int

	structures []types.StructureRecord
	entries    []entry // sorted by blockOffset
	counters   interfaces.ScanCounters
	complete   bool
}

// New creates an empty index for the detected filesystem kind.
func New(kind types.FilesystemKind, blockSize uint32) *Index {
	return &Index{
		kind:      kind,
		blockSize: blockSize,
		radius:    types.AssociationRadius(kind),
	}
}

// Scan runs the structure parser's pre-scan once, caching every decoded
// record by its absolute offset and associating it with all block-aligned
// offsets within the filesystem's association radius. Decode failures are
// counted by the parser and never abort the scan.
func (ix *Index) Scan(source interfaces.EvidenceSource, parser interfaces.StructureParser, progress interfaces.ProgressSink) error {
	if ix.complete {
		return fmt.Errorf("metadata index already scanned")
	}
	if parser == nil {
		// No parser for this filesystem: the index stays empty and every
		// lookup answers "unknown".
		ix.complete = true
		progress.Report(100, "no structure parser for "+string(ix.kind)+", timestamps unavailable")
		return nil
	}

	byBlock := make(map[uint64]entry)
	emit := func(record types.StructureRecord) {
		stored := new(types.StructureRecord)
		*stored = record
		ix.structures = append(ix.structures, record)

		base := record.Offset / uint64(ix.blockSize)
		for delta := -ix.radius; delta <= ix.radius; delta++ {
			blockID := int64(base) + int64(delta)
			if blockID < 0 {
				continue
			}
			blockOffset := uint64(blockID) * uint64(ix.blockSize)
			candidate := entry{blockOffset: blockOffset, structOffset: record.Offset, record: stored}
			existing, ok := byBlock[blockOffset]
			if !ok || distance(blockOffset, candidate.structOffset) < distance(blockOffset, existing.structOffset) {
				byBlock[blockOffset] = candidate
			}
		}
	}

	if err := parser.Scan(source, emit, &ix.counters, progress); err != nil {
		return fmt.Errorf("structure scan failed: %w", err)
	}

	ix.entries = make([]entry, 0, len(byBlock))
	for _, e := range byBlock {
		ix.entries = append(ix.entries, e)
	}
	sort.Slice(ix.entries, func(i, j int) bool {
		return ix.entries[i].blockOffset < ix.entries[j].blockOffset
	})

	ix.complete = true
	progress.Report(100, fmt.Sprintf("indexed %d structures (%d skipped)",
		ix.counters.RecordsDecoded, ix.counters.RecordsSkipped))
	return nil
}

// Lookup answers the nearest known timestamp for an arbitrary offset. The
// offset is rounded down to its block boundary and matched against the cached
// entries, which already cover every block within the association radius of a
// decoded structure. Nil means unknown.
func (ix *Index) Lookup(offset uint64) *types.StructureRecord {
	if !ix.complete || len(ix.entries) == 0 {
		return nil
	}

	blockOffset := offset - offset%uint64(ix.blockSize)

	i := sort.Search(len(ix.entries), func(n int) bool {
		return ix.entries[n].blockOffset >= blockOffset
	})
	if i >= len(ix.entries) || ix.entries[i].blockOffset != blockOffset {
		return nil
	}
	return ix.entries[i].record
}

// Counters returns the pre-scan record counters.
func (ix *Index) Counters() interfaces.ScanCounters {
	return ix.counters
}

// StructureCount returns how many structures were decoded and cached.
func (ix *Index) StructureCount() int {
	return len(ix.structures)
}

// Complete reports whether the one-time pre-scan has run.
func (ix *Index) Complete() bool {
	return ix.complete
}

func distance(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
