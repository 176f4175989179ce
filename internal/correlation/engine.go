// Package correlation scores block pairs within a bounded look-ahead window
// to support fragmented-file reconstruction.
package correlation

import (
	"context"
	"fmt"

	"github.com/blockscope/blockscope/internal/interfaces"
	"github.com/blockscope/blockscope/internal/types"
)

// Engine compares each block against its following window of blocks and
// records pairs scoring above the threshold. Window and threshold are fixed
// policy; a zero value falls back to the defaults.
type Engine struct {
	window    int
	threshold float64
}

// NewEngine creates a correlation engine. Zero arguments select the policy
// defaults.
func NewEngine(window int, threshold float64) *Engine {
	if window <= 0 {
		window = types.CorrelationWindow
	}
	if threshold <= 0 {
		threshold = types.CorrelationThreshold
	}
	return &Engine{window: window, threshold: threshold}
}

// Correlate scores every block pair within the look-ahead window over blocks
// sorted by ascending id. Each run produces a fresh result set; the caller
// replaces any prior results rather than merging. Cancellation is checked
// between blocks only.
func (e *Engine) Correlate(ctx context.Context, blocks []*types.Block, progress interfaces.ProgressSink) []types.CorrelationResult {
	results := make([]types.CorrelationResult, 0)

	for i, block1 := range blocks {
		if i%50 == 0 {
			if ctx.Err() != nil {
				break
			}
			progress.Report(float64(i)/float64(len(blocks))*100,
				fmt.Sprintf("correlated %d/%d blocks", i, len(blocks)))
		}

		end := i + 1 + e.window
		if end > len(blocks) {
			end = len(blocks)
		}

		for _, block2 := range blocks[i+1 : end] {
			score := Score(block1, block2)
			if score > e.threshold {
				results = append(results, types.CorrelationResult{
					Block1ID:   block1.ID,
					Block2ID:   block2.ID,
					Score:      score,
					Confidence: score,
				})
			}
		}
	}

	progress.Report(100, fmt.Sprintf("correlation complete: %d pairs", len(results)))
	return results
}

// Score computes the pair score for candidate adjacency of block1 before
// block2:
//
//	0.5*byteSimilarity + 0.3*patternMatch + 0.2*entropySimilarity
//
// The byte term compares the last bytes of block1's tail sample against the
// first bytes of block2's head sample.
func Score(block1, block2 *types.Block) float64 {
	byteSim := byteSimilarity(block1.TailSample, block2.HeadSample)

	patternMatch := 0.0
	if block1.Features.Magic == block2.Features.Magic {
		patternMatch = 0.3
	}

	entropyDiff := block1.Features.Entropy - block2.Features.Entropy
	if entropyDiff < 0 {
		entropyDiff = -entropyDiff
	}
	entropySim := 1 - entropyDiff/types.MaxEntropy
	if entropySim < 0 {
		entropySim = 0
	}

	return byteSim*types.ByteSimilarityWeight +
		patternMatch*types.PatternMatchWeight +
		entropySim*types.EntropySimilarityWeight
}

// byteSimilarity is the fraction of positionally equal bytes between the end
// of one sample and the start of the next, over at most 128 bytes. The
// denominator is the shorter compared length, tolerating truncated samples.
func byteSimilarity(tail, head []byte) float64 {
	if len(tail) > types.CorrelationCompareLength {
		tail = tail[len(tail)-types.CorrelationCompareLength:]
	}
	if len(head) > types.CorrelationCompareLength {
		head = head[:types.CorrelationCompareLength]
	}

	n := len(tail)
	if len(head) < n {
		n = len(head)
	}
	if n == 0 {
		return 0
	}

	matching := 0
	for i := 0; i < n; i++ {
		if tail[i] == head[i] {
			matching++
		}
	}
	return float64(matching) / float64(n)
}
