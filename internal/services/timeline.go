package services

import (
	"sort"
	"time"

	"github.com/blockscope/blockscope/internal/types"
)

// TimelineEventKind names which MACB instant an event came from.
type TimelineEventKind string

const (
	EventModified TimelineEventKind = "modified"
	EventChanged  TimelineEventKind = "changed"
	EventAccessed TimelineEventKind = "accessed"
	EventBorn     TimelineEventKind = "born"
)

// TimelineEvent is one recovered instant attributed to a block.
type TimelineEvent struct {
	Time    time.Time         `json:"time"`
	BlockID uint64            `json:"block_id"`
	Kind    TimelineEventKind `json:"kind"`
	Magic   types.FileKind    `json:"magic,omitempty"`
}

// BuildTimeline produces one event per present MACB instant per analyzed
// block that recovered timestamps, sorted ascending by instant with ties
// broken by block id. Blocks without recovered timestamps contribute
// nothing; no instant is ever fabricated.
func (s *Session) BuildTimeline() ([]TimelineEvent, error) {
	if !s.analyzed.Load() {
		return nil, ErrNotAnalyzed
	}

	events := make([]TimelineEvent, 0)
	for _, block := range s.blocks {
		record := block.Timestamps
		if record == nil {
			continue
		}
		for _, pair := range []struct {
			t    *time.Time
			kind TimelineEventKind
		}{
			{record.MTime, EventModified},
			{record.CTime, EventChanged},
			{record.ATime, EventAccessed},
			{record.BTime, EventBorn},
		} {
			if pair.t == nil {
				continue
			}
			events = append(events, TimelineEvent{
				Time:    *pair.t,
				BlockID: block.ID,
				Kind:    pair.kind,
				Magic:   block.Features.Magic,
			})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Time.Equal(events[j].Time) {
			return events[i].Time.Before(events[j].Time)
		}
		return events[i].BlockID < events[j].BlockID
	})
	return events, nil
}
