package models

import (
	"time"

	"genesiscode/internal/shared/constants"
)

type UserLevelProgressModel struct {
	ID          uint `gorm:"primarykey"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_progress_user_level,priority:1"`
	LevelID     uint `gorm:"not null;uniqueIndex:idx_progress_user_level,priority:2"`
	Completed   bool `gorm:"not null"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (UserLevelProgressModel) TableName() string {
	return constants.TableUserLevelProgress
}

// All lists every model, in dependency order, for auto-migration.
func All() []any {
	return []any{
		&UserModel{},
		&CategoryModel{},
		&PathModel{},
		&LevelModel{},
		&CourseAccessModel{},
		&PlanModel{},
		&SubscriptionModel{},
		&CategoryAccessModel{},
		&CategoryUnlockedLevelModel{},
		&UserLevelProgressModel{},
	}
}
