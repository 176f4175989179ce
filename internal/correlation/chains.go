package correlation

import (
	"sort"

	"github.com/blockscope/blockscope/internal/types"
)

// FragmentChain is a candidate ordering of blocks believed to belong to one
// fragmented file, assembled from pairwise correlations.
type FragmentChain struct {
	BlockIDs  []uint64 `json:"block_ids"`
	MeanScore float64  `json:"mean_score"`
}

// AssembleChains builds fragment chains by greedy forward chaining: starting
// from each block that never appears as a successor, repeatedly follow the
// highest-scoring outgoing correlation, never revisiting a block. The output
// is deterministic for a fixed result set and sorted by leading block id.
func AssembleChains(results []types.CorrelationResult) []FragmentChain {
	successors := make(map[uint64][]types.CorrelationResult)
	isSuccessor := make(map[uint64]bool)
	for _, r := range results {
		successors[r.Block1ID] = append(successors[r.Block1ID], r)
		isSuccessor[r.Block2ID] = true
	}

	starts := make([]uint64, 0, len(successors))
	for id := range successors {
		if !isSuccessor[id] {
			starts = append(starts, id)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	chains := make([]FragmentChain, 0, len(starts))
	for _, start := range starts {
		visited := map[uint64]bool{start: true}
		chain := []uint64{start}
		scoreSum := 0.0

		current := start
		for {
			next, score, ok := bestSuccessor(successors[current], visited)
			if !ok {
				break
			}
			visited[next] = true
			chain = append(chain, next)
			scoreSum += score
			current = next
		}

		if len(chain) < 2 {
			continue
		}
		chains = append(chains, FragmentChain{
			BlockIDs:  chain,
			MeanScore: scoreSum / float64(len(chain)-1),
		})
	}
	return chains
}

func bestSuccessor(candidates []types.CorrelationResult, visited map[uint64]bool) (uint64, float64, bool) {
	bestID := uint64(0)
	bestScore := -1.0
	found := false
	for _, c := range candidates {
		if visited[c.Block2ID] {
			continue
		}
		// Ties break toward the lower block id for determinism.
		if c.Score > bestScore || (c.Score == bestScore && c.Block2ID < bestID) {
			bestID = c.Block2ID
			bestScore = c.Score
			found = true
		}
	}
	return bestID, bestScore, found
}
