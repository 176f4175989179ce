package types

// Policy constants for the analysis engine. The window, threshold and radius
// values are empirical; they are kept as named constants rather than
// re-derived, and the config layer may override them per session.
const (
	// DefaultBlockSize is the analysis granularity in bytes.
	DefaultBlockSize = 4096

	// SampleSize is how many bytes of a block's head and tail are retained
	// for classification and correlation.
	SampleSize = 512

	// CorrelationWindow is how many blocks ahead of block i are compared.
	CorrelationWindow = 49

	// CorrelationThreshold is the minimum score recorded as a result.
	CorrelationThreshold = 0.7

	// CorrelationCompareLength bounds the tail/head byte comparison.
	CorrelationCompareLength = 128

	// Correlation score weights.
	ByteSimilarityWeight    = 0.5
	PatternMatchWeight      = 0.3
	EntropySimilarityWeight = 0.2

	// MaxEntropy is the Shannon entropy ceiling for a byte alphabet.
	MaxEntropy = 8.0

	// Block-radius used to associate an indexed structure with nearby
	// block-aligned offsets. A weak forensic proxy, not attribution.
	NTFSAssociationRadius  = 10
	FAT32AssociationRadius = 10
	Ext4AssociationRadius  = 5

	// Scan bounds.
	MaxMFTEntries       = 10000
	MFTEntrySize        = 1024
	MaxInodeGroups      = 10
	MaxInodesPerGroup   = 1000
	MaxFAT32ScanBytes   = 50 * 1024 * 1024
	FAT32SectorSize     = 512
	FAT32DirentSize     = 32
	MaxAnalyzedBlocks   = 100000
	ReportBlockSample   = 100
	ProgressGranularity = 100
)

// AssociationRadius returns the block radius used when associating indexed
// structures with nearby blocks for the given filesystem.
func AssociationRadius(kind FilesystemKind) int {
	switch kind {
	case FilesystemExt4:
		return Ext4AssociationRadius
	case FilesystemFAT32:
		return FAT32AssociationRadius
	default:
		return NTFSAssociationRadius
	}
}
