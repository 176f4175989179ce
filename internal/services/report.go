package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/blockscope/blockscope/internal/anomaly"
	"github.com/blockscope/blockscope/internal/types"
)

// BlockSummary is the bounded per-block slice of a report.
type BlockSummary struct {
	ID       uint64         `json:"block_id"`
	Offset   uint64         `json:"offset"`
	Size     uint32         `json:"size"`
	Features types.Features `json:"features"`
}

// DuplicateGroup lists blocks whose head samples hash identically. All-zero
// blocks are excluded since they collide trivially.
type DuplicateGroup struct {
	HeadDigest string   `json:"head_digest"`
	BlockIDs   []uint64 `json:"block_ids"`
}

// Report is the session's findings in a serialization-ready shape. Rendering
// to a document is the consumer's concern.
type Report struct {
	ReportID         string               `json:"report_id"`
	GeneratedAt      time.Time            `json:"generated_at"`
	Filesystem       types.FilesystemKind `json:"filesystem"`
	SourceSize       uint64               `json:"source_size"`
	TotalBlocks      int                  `json:"total_blocks"`
	CorrelationCount int                  `json:"correlation_count"`
	RecordsAttempted int                  `json:"records_attempted"`
	RecordsDecoded   int                  `json:"records_decoded"`
	RecordsSkipped   int                  `json:"records_skipped"`
	AnomalousBlocks  int                  `json:"anomalous_blocks"`
	AnomalyCounts    map[string]int       `json:"anomaly_counts,omitempty"`
	DuplicateGroups  []DuplicateGroup     `json:"duplicate_groups,omitempty"`
	Blocks           []BlockSummary       `json:"blocks"`
}

// BuildReport assembles a report from the completed passes. Requires the
// analysis pass; correlation figures are zero when that pass has not run.
func (s *Session) BuildReport() (*Report, error) {
	if !s.analyzed.Load() {
		return nil, ErrNotAnalyzed
	}

	counters := s.ScanCounters()
	report := &Report{
		ReportID:         uuid.NewString(),
		GeneratedAt:      time.Now().UTC(),
		Filesystem:       s.DetectFilesystem(),
		SourceSize:       s.source.Size(),
		TotalBlocks:      len(s.blocks),
		CorrelationCount: len(s.ListCorrelations()),
		RecordsAttempted: counters.RecordsAttempted,
		RecordsDecoded:   counters.RecordsDecoded,
		RecordsSkipped:   counters.RecordsSkipped,
		AnomalyCounts:    make(map[string]int),
	}

	digests := make(map[uint64][]uint64)
	for _, block := range s.blocks {
		flags := anomaly.Detect(block.Timestamps)
		if len(flags) > 0 {
			report.AnomalousBlocks++
			for _, flag := range flags {
				report.AnomalyCounts[string(flag)]++
			}
		}
		if !block.Features.IsZero {
			digests[block.HeadDigest] = append(digests[block.HeadDigest], block.ID)
		}
		if len(report.Blocks) < types.ReportBlockSample {
			report.Blocks = append(report.Blocks, BlockSummary{
				ID:       block.ID,
				Offset:   block.Offset,
				Size:     block.Size,
				Features: block.Features,
			})
		}
	}

	for digest, ids := range digests {
		if len(ids) < 2 {
			continue
		}
		report.DuplicateGroups = append(report.DuplicateGroups, DuplicateGroup{
			HeadDigest: fmt.Sprintf("%016x", digest),
			BlockIDs:   ids,
		})
	}
	sort.Slice(report.DuplicateGroups, func(i, j int) bool {
		return report.DuplicateGroups[i].BlockIDs[0] < report.DuplicateGroups[j].BlockIDs[0]
	})

	return report, nil
}

// Summary renders a one-paragraph human-readable digest of the report.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s evidence, %s: %s blocks analyzed, %d structures decoded (%d skipped), %d correlations, %d anomalous blocks",
		r.Filesystem,
		humanize.IBytes(r.SourceSize),
		humanize.Comma(int64(r.TotalBlocks)),
		r.RecordsDecoded,
		r.RecordsSkipped,
		r.CorrelationCount,
		r.AnomalousBlocks)
}
