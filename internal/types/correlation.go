package types

// CorrelationResult records that two blocks scored above the correlation
// threshold within the look-ahead window. Block1ID is always the lower id,
// established by construction since the engine only compares forward.
type CorrelationResult struct {
	Block1ID   uint64  `json:"block1_id"`
	Block2ID   uint64  `json:"block2_id"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}
