package access

import (
	"fmt"
	"strconv"
	"strings"
)

// Query identifies the resource being checked. LevelID and ExerciseID are independent
// and zero when absent, so an exercise may be queried without its level.
type Query struct {
	UserID     uint
	PathID     uint
	LevelID    uint
	ExerciseID uint
}

func (q Query) Validate() error {
	if q.UserID == 0 {
		return fmt.Errorf("user ID is required")
	}
	if q.PathID == 0 {
		return fmt.Errorf("path ID is required")
	}
	return nil
}

// IsLevelQuery reports whether a specific level was requested
func (q Query) IsLevelQuery() bool {
	return q.LevelID != 0
}

// CacheKey renders userId:pathId:levelId:exerciseId with empty segments for absent IDs.
func CacheKey(q Query) string {
	return strings.Join([]string{
		optionalID(q.UserID),
		optionalID(q.PathID),
		optionalID(q.LevelID),
		optionalID(q.ExerciseID),
	}, ":")
}

// UserIDFromCacheKey extracts the leading user segment of a cache key.
func UserIDFromCacheKey(key string) (uint, bool) {
	head, _, found := strings.Cut(key, ":")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseUint(head, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func optionalID(id uint) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}
