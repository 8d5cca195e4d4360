// Package progress tracks per-user level completion, which drives sequential unlocking.
package progress

import (
	"context"
	"fmt"
	"time"
)

// UserLevelProgress records whether a user completed a level
type UserLevelProgress struct {
	id          uint
	userID      uint
	levelID     uint
	completed   bool
	completedAt *time.Time
	updatedAt   time.Time
}

func NewUserLevelProgress(userID, levelID uint) (*UserLevelProgress, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if levelID == 0 {
		return nil, fmt.Errorf("level ID is required")
	}
	return &UserLevelProgress{userID: userID, levelID: levelID, updatedAt: time.Now().UTC()}, nil
}

func ReconstructUserLevelProgress(id, userID, levelID uint, completed bool, completedAt *time.Time, updatedAt time.Time) (*UserLevelProgress, error) {
	if id == 0 {
		return nil, fmt.Errorf("progress ID cannot be zero")
	}
	return &UserLevelProgress{
		id:          id,
		userID:      userID,
		levelID:     levelID,
		completed:   completed,
		completedAt: completedAt,
		updatedAt:   updatedAt,
	}, nil
}

func (p *UserLevelProgress) ID() uint                { return p.id }
func (p *UserLevelProgress) UserID() uint            { return p.userID }
func (p *UserLevelProgress) LevelID() uint           { return p.levelID }
func (p *UserLevelProgress) Completed() bool         { return p.completed }
func (p *UserLevelProgress) CompletedAt() *time.Time { return p.completedAt }
func (p *UserLevelProgress) UpdatedAt() time.Time    { return p.updatedAt }

// MarkCompleted flips the completion flag; the first completion time is kept.
func (p *UserLevelProgress) MarkCompleted(at time.Time) {
	if p.completed {
		return
	}
	at = at.UTC()
	p.completed = true
	p.completedAt = &at
	p.updatedAt = at
}

// Repository defines persistence for level progress
type Repository interface {
	// IsCompleted reports whether a completed record exists for (user, level).
	IsCompleted(ctx context.Context, userID, levelID uint) (bool, error)

	// MarkCompleted upserts a completed record for (user, level). It reports whether the
	// record changed from not completed to completed.
	MarkCompleted(ctx context.Context, userID, levelID uint, at time.Time) (bool, error)

	GetByUserAndLevel(ctx context.Context, userID, levelID uint) (*UserLevelProgress, error)
}
