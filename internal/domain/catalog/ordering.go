package catalog

import (
	"cmp"
	"slices"
)

// sortedLevels orders by (order, id). The ID tie-break makes lookups deterministic
// when two levels of a path share an order value.
func sortedLevels(levels []*Level) []*Level {
	out := make([]*Level, 0, len(levels))
	for _, l := range levels {
		if l != nil {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b *Level) int {
		if c := cmp.Compare(a.order, b.order); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return out
}

// SortedLevels returns the levels in sequence order.
func SortedLevels(levels []*Level) []*Level {
	return sortedLevels(levels)
}

// FirstLevel returns the level with the lowest order, or nil for an empty path.
func FirstLevel(levels []*Level) *Level {
	sorted := sortedLevels(levels)
	if len(sorted) == 0 {
		return nil
	}
	return sorted[0]
}

// IsFirstLevelOf reports whether levelID is the first level of path. Every rule that
// treats the first lesson as free goes through this function.
func IsFirstLevelOf(path *Path, levelID uint) bool {
	if path == nil || levelID == 0 {
		return false
	}
	first := FirstLevel(path.levels)
	return first != nil && first.id == levelID
}

// PreviousLevel returns the level whose order is exactly one less than the given
// level's order. A gap in the sequence yields nil.
func PreviousLevel(levels []*Level, current *Level) *Level {
	if current == nil {
		return nil
	}
	for _, l := range sortedLevels(levels) {
		if l.order == current.order-1 {
			return l
		}
	}
	return nil
}

// OrderingIssue describes a data-integrity problem in a path's level sequence.
type OrderingIssue struct {
	Kind     string // "duplicate_order" or "gap"
	Order    int
	LevelIDs []uint
}

const (
	IssueDuplicateOrder = "duplicate_order"
	IssueGap            = "gap"
)

// ValidateOrdering reports duplicate order values and holes in the sequence.
// It never fails; callers log the issues and continue with the deterministic tie-break.
func ValidateOrdering(levels []*Level) []OrderingIssue {
	sorted := sortedLevels(levels)
	var issues []OrderingIssue
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].order == sorted[i].order {
			j++
		}
		if j-i > 1 {
			ids := make([]uint, 0, j-i)
			for _, l := range sorted[i:j] {
				ids = append(ids, l.id)
			}
			issues = append(issues, OrderingIssue{Kind: IssueDuplicateOrder, Order: sorted[i].order, LevelIDs: ids})
		}
		if j < len(sorted) && sorted[j].order > sorted[i].order+1 {
			issues = append(issues, OrderingIssue{Kind: IssueGap, Order: sorted[i].order + 1})
		}
		i = j
	}
	return issues
}
