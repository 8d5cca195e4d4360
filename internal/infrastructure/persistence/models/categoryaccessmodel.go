package models

import (
	"time"

	"genesiscode/internal/shared/constants"
)

type CategoryAccessModel struct {
	ID               uint       `gorm:"primarykey"`
	UserID           uint       `gorm:"not null;uniqueIndex:idx_category_access_user_category,priority:1"`
	CategoryID       uint       `gorm:"not null;uniqueIndex:idx_category_access_user_category,priority:2"`
	AccessType       string     `gorm:"not null;size:20"`
	Status           string     `gorm:"not null;size:20;default:active;index:idx_category_access_status_expires,priority:1"`
	ExpiresAt        *time.Time `gorm:"index:idx_category_access_status_expires,priority:2"`
	PaymentReference string     `gorm:"size:128"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	UnlockedLevels []CategoryUnlockedLevelModel `gorm:"foreignKey:CategoryAccessID"`
}

func (CategoryAccessModel) TableName() string {
	return constants.TableCategoryAccesses
}

// CategoryUnlockedLevelModel is one entry of a record's unlocked set. The unique index
// makes a (path, level) pair appear at most once per record.
type CategoryUnlockedLevelModel struct {
	ID               uint      `gorm:"primarykey"`
	CategoryAccessID uint      `gorm:"not null;uniqueIndex:idx_unlocked_level_unique,priority:1"`
	PathID           uint      `gorm:"not null;uniqueIndex:idx_unlocked_level_unique,priority:2"`
	LevelID          uint      `gorm:"not null;uniqueIndex:idx_unlocked_level_unique,priority:3"`
	UnlockedAt       time.Time `gorm:"not null"`
}

func (CategoryUnlockedLevelModel) TableName() string {
	return constants.TableCategoryUnlockedLevels
}
