// Package services orchestrates the analysis session: pass scheduling,
// progress delivery and the query surface consumed by the presentation layer.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/blockscope/blockscope/internal/anomaly"
	"github.com/blockscope/blockscope/internal/classifier"
	"github.com/blockscope/blockscope/internal/correlation"
	"github.com/blockscope/blockscope/internal/device"
	"github.com/blockscope/blockscope/internal/interfaces"
	"github.com/blockscope/blockscope/internal/metaindex"
	"github.com/blockscope/blockscope/internal/parsers/detector"
	"github.com/blockscope/blockscope/internal/parsers/ext4"
	"github.com/blockscope/blockscope/internal/parsers/fat32"
	"github.com/blockscope/blockscope/internal/parsers/ntfs"
	"github.com/blockscope/blockscope/internal/types"
)

var (
	// ErrPassInProgress rejects starting a pass while another one runs.
	// Passes are never queued.
	ErrPassInProgress = errors.New("another analysis pass is in progress")

	// ErrNotAnalyzed rejects queries and passes that need the block
	// analysis pass to have completed first.
	ErrNotAnalyzed = errors.New("blocks have not been analyzed yet")
)

// Session owns one evidence source for its lifetime. The pre-scan cache and
// the block/correlation collections are write-once by their owning pass and
// read-only for the rest of the session, so queries take no locks.
type Session struct {
	ID     uuid.UUID
	source interfaces.EvidenceSource
	cfg    *device.EngineConfig
	log    *zap.SugaredLogger

	pool        *ants.Pool
	passRunning atomic.Bool

	kind     types.FilesystemKind
	detected bool

	index        *metaindex.Index
	blocks       []*types.Block
	blockByID    map[uint64]*types.Block
	analyzed     atomic.Bool
	correlations []types.CorrelationResult
	correlated   atomic.Bool
}

// NewSession creates a session over an opened evidence source. The single
// background worker executing passes is owned by the session and released by
// Close.
func NewSession(source interfaces.EvidenceSource, cfg *device.EngineConfig, log *zap.SugaredLogger) (*Session, error) {
	if source == nil {
		return nil, errors.New("evidence source is required")
	}
	if cfg == nil {
		return nil, errors.New("engine config is required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create pass worker pool: %w", err)
	}

	return &Session{
		ID:        uuid.New(),
		source:    source,
		cfg:       cfg,
		log:       log,
		pool:      pool,
		blockByID: make(map[uint64]*types.Block),
	}, nil
}

// Close releases the pass worker. The evidence source stays owned by the
// caller that opened it.
func (s *Session) Close() {
	s.pool.Release()
}

// Go submits fn to the session's single background worker so long-running
// passes execute off the caller's goroutine.
func (s *Session) Go(fn func()) error {
	return s.pool.Submit(fn)
}

// beginPass claims the session's one-pass-at-a-time slot.
func (s *Session) beginPass(name string) error {
	if !s.passRunning.CompareAndSwap(false, true) {
		s.log.Warnf("rejected %s pass: another pass is in flight", name)
		return ErrPassInProgress
	}
	s.log.Infof("starting %s pass", name)
	return nil
}

func (s *Session) endPass() {
	s.passRunning.Store(false)
}

// DetectFilesystem classifies the source's filesystem. Detection is cheap,
// runs inline and never fails; the result is cached for the session.
func (s *Session) DetectFilesystem() types.FilesystemKind {
	if !s.detected {
		s.kind = detector.Detect(s.source)
		s.detected = true
		s.log.Infof("detected filesystem: %s", s.kind)
	}
	return s.kind
}

// parserFor returns the structure parser for the detected filesystem, or nil
// when timestamps are unavailable for the kind.
func parserFor(kind types.FilesystemKind) interfaces.StructureParser {
	switch kind {
	case types.FilesystemNTFS:
		return ntfs.NewParser()
	case types.FilesystemExt4:
		return ext4.NewParser()
	case types.FilesystemFAT32:
		return fat32.NewParser()
	default:
		return nil
	}
}

// ScanMetadata runs the one-time metadata pre-scan pass, populating the
// offset-to-timestamp index used by block analysis.
func (s *Session) ScanMetadata(ctx context.Context, progress interfaces.ProgressSink) error {
	if err := s.beginPass("metadata scan"); err != nil {
		return err
	}
	defer s.endPass()
	return s.scanMetadataLocked(progress)
}

func (s *Session) scanMetadataLocked(progress interfaces.ProgressSink) error {
	if s.index != nil && s.index.Complete() {
		return nil
	}

	kind := s.DetectFilesystem()
	index := metaindex.New(kind, s.cfg.BlockSize)
	if err := index.Scan(s.source, parserFor(kind), progress); err != nil {
		return fmt.Errorf("metadata pre-scan failed: %w", err)
	}

	counters := index.Counters()
	s.log.Infof("metadata pre-scan complete: %d attempted, %d decoded, %d skipped",
		counters.RecordsAttempted, counters.RecordsDecoded, counters.RecordsSkipped)

	s.index = index
	return nil
}

// AnalyzeBlocks runs the per-block classification pass, reading every block
// up to the session cap, deriving its features and attaching the nearest
// indexed timestamps. It returns the number of blocks analyzed. The metadata
// pre-scan runs first within the same pass if it has not run yet.
func (s *Session) AnalyzeBlocks(ctx context.Context, progress interfaces.ProgressSink) (int, error) {
	if err := s.beginPass("block analysis"); err != nil {
		return 0, err
	}
	defer s.endPass()

	if err := s.scanMetadataLocked(progress); err != nil {
		return 0, err
	}

	blockSize := uint64(s.cfg.BlockSize)
	totalBlocks := (s.source.Size() + blockSize - 1) / blockSize
	if capped := uint64(s.cfg.MaxAnalyzedBlocks); totalBlocks > capped {
		s.log.Infof("capping analysis at %d of %d blocks", capped, totalBlocks)
		totalBlocks = capped
	}

	s.log.Infof("analyzing %s in %d blocks of %s",
		humanize.IBytes(s.source.Size()), totalBlocks, humanize.IBytes(blockSize))

	blocks := make([]*types.Block, 0, totalBlocks)
	byID := make(map[uint64]*types.Block, totalBlocks)

	for id := uint64(0); id < totalBlocks; id++ {
		if id%types.ProgressGranularity == 0 {
			if ctx.Err() != nil {
				break
			}
			progress.Report(float64(id)/float64(totalBlocks)*100,
				fmt.Sprintf("analyzed %d/%d blocks", id, totalBlocks))
		}

		offset := id * blockSize
		data, err := s.source.ReadAt(offset, s.cfg.BlockSize)
		if err != nil {
			// Per-offset read failure skips the block, not the pass.
			s.log.Debugf("skipping unreadable block %d: %v", id, err)
			continue
		}
		if len(data) == 0 {
			break
		}

		block := s.buildBlock(id, offset, data)
		blocks = append(blocks, block)
		byID[id] = block
	}

	s.blocks = blocks
	s.blockByID = byID
	s.analyzed.Store(true)

	progress.Report(100, fmt.Sprintf("analysis complete: %d blocks", len(blocks)))
	s.log.Infof("block analysis complete: %d blocks", len(blocks))
	return len(blocks), nil
}

func (s *Session) buildBlock(id, offset uint64, data []byte) *types.Block {
	head := data
	if len(head) > types.SampleSize {
		head = head[:types.SampleSize]
	}
	tail := data
	if len(tail) > types.SampleSize {
		tail = tail[len(tail)-types.SampleSize:]
	}

	block := &types.Block{
		ID:         id,
		Offset:     offset,
		Size:       uint32(len(data)),
		HeadSample: append([]byte(nil), head...),
		TailSample: append([]byte(nil), tail...),
		HeadDigest: xxhash.Sum64(head),
		TailDigest: xxhash.Sum64(tail),
		Features:   classifier.Classify(head),
	}

	if record := s.index.Lookup(offset); record != nil {
		timestamps := record.Timestamps
		block.Timestamps = &timestamps
		block.Inode = record.Inode
	}
	return block
}

// CorrelateBlocks runs the correlation pass over the analyzed blocks and
// returns the number of pairs recorded. Each run discards and replaces all
// prior results.
func (s *Session) CorrelateBlocks(ctx context.Context, progress interfaces.ProgressSink) (int, error) {
	if !s.analyzed.Load() {
		return 0, ErrNotAnalyzed
	}
	if err := s.beginPass("correlation"); err != nil {
		return 0, err
	}
	defer s.endPass()

	engine := correlation.NewEngine(s.cfg.CorrelationWindow, s.cfg.CorrelationThreshold)
	s.correlations = engine.Correlate(ctx, s.blocks, progress)
	s.correlated.Store(true)

	s.log.Infof("correlation complete: %d pairs above threshold %.2f",
		len(s.correlations), s.cfg.CorrelationThreshold)
	return len(s.correlations), nil
}

// GetBlockInfo returns the analyzed block with the given id, or nil.
func (s *Session) GetBlockInfo(id uint64) *types.Block {
	if !s.analyzed.Load() {
		return nil
	}
	return s.blockByID[id]
}

// BlockCount returns how many blocks the analysis pass captured.
func (s *Session) BlockCount() int {
	if !s.analyzed.Load() {
		return 0
	}
	return len(s.blocks)
}

// ListCorrelations returns a copy of the current correlation results.
func (s *Session) ListCorrelations() []types.CorrelationResult {
	if !s.correlated.Load() {
		return nil
	}
	out := make([]types.CorrelationResult, len(s.correlations))
	copy(out, s.correlations)
	return out
}

// AssembleChains builds fragment chains from the current correlations.
func (s *Session) AssembleChains() ([]correlation.FragmentChain, error) {
	if !s.correlated.Load() {
		return nil, ErrNotAnalyzed
	}
	return correlation.AssembleChains(s.correlations), nil
}

// BlockAnomalies computes the advisory timestamp flags for one block on
// demand; nothing is persisted.
func (s *Session) BlockAnomalies(id uint64) []anomaly.Flag {
	block := s.GetBlockInfo(id)
	if block == nil {
		return nil
	}
	return anomaly.Detect(block.Timestamps)
}

// ScanCounters exposes the pre-scan record counters, all zero before the
// metadata pass has run.
func (s *Session) ScanCounters() interfaces.ScanCounters {
	if s.index == nil {
		return interfaces.ScanCounters{}
	}
	return s.index.Counters()
}
