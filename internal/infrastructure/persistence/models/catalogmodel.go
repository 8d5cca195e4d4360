package models

import (
	"time"

	"gorm.io/gorm"

	"genesiscode/internal/shared/constants"
)

type CategoryModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"not null;size:100"`
	Slug      string `gorm:"uniqueIndex;not null;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (CategoryModel) TableName() string {
	return constants.TableCategories
}

type PathModel struct {
	ID          uint   `gorm:"primarykey"`
	CategoryID  uint   `gorm:"not null;index"`
	Title       string `gorm:"not null;size:200"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	Levels []LevelModel `gorm:"foreignKey:PathID"`
}

func (PathModel) TableName() string {
	return constants.TablePaths
}

// LevelModel stores one level. "order" is reserved in SQL, hence level_order.
type LevelModel struct {
	ID         uint   `gorm:"primarykey"`
	PathID     uint   `gorm:"not null;index:idx_level_path_order,priority:1"`
	LevelOrder int    `gorm:"column:level_order;not null;index:idx_level_path_order,priority:2"`
	Title      string `gorm:"not null;size:200"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (LevelModel) TableName() string {
	return constants.TableLevels
}
