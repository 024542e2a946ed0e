package orchestrator

import (
	"context"

	"github.com/auratyme/schedgen/internal/schedule/domain/scheduleitem"
)

// Skeleton is the deterministic, non-negotiable part of a day: fixed
// events, solver-placed tasks, and the sleep block. A Refiner may rearrange
// everything around it but must never move, resize, or drop a Skeleton
// item.
type Skeleton struct {
	Items []scheduleitem.ScheduledItem
}

// RefinedFiller is a Refiner's proposed replacement for the gap-filler
// output: meals/routines/activities/breaks only.
type RefinedFiller struct {
	Items []scheduleitem.ScheduledItem
}

// Refiner is an optional external collaborator (typically an LLM pass)
// that may reorganize gap fillers around the deterministic Skeleton. No
// concrete implementation ships in this module — per §1 it is an external
// collaborator — this interface is only the seam and its validation logic
// in refineOrFallBack.
type Refiner interface {
	Refine(ctx context.Context, skeleton Skeleton) (RefinedFiller, error)
}

// refineOrFallBack calls the configured Refiner, if any, and validates that
// every skeleton block still appears in its output with the same type,
// name, start and end. Any deviation, or any error from the Refiner, discards the
// refined output entirely and returns the deterministic gap-filler items
// unchanged.
func refineOrFallBack(ctx context.Context, refiner Refiner, skeleton []skeletonItem, deterministic []scheduleitem.ScheduledItem) []scheduleitem.ScheduledItem {
	if refiner == nil {
		return deterministic
	}

	skeletonItems := make([]scheduleitem.ScheduledItem, 0, len(skeleton))
	for _, s := range skeleton {
		skeletonItems = append(skeletonItems, s.item)
	}

	refined, err := refiner.Refine(ctx, Skeleton{Items: skeletonItems})
	if err != nil {
		return deterministic
	}

	if !skeletonPreserved(skeletonItems, refined.Items) {
		return deterministic
	}

	return refined.Items
}

// skeletonPreserved reports whether every skeleton block still appears,
// unchanged in type/name/start/end, somewhere in candidate.
func skeletonPreserved(skeleton, candidate []scheduleitem.ScheduledItem) bool {
	for _, s := range skeleton {
		found := false
		for _, c := range candidate {
			if c.Type == s.Type && c.Name == s.Name && c.StartMinutes == s.StartMinutes && c.EndMinutes == s.EndMinutes {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
