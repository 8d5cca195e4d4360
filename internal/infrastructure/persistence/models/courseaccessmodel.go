package models

import (
	"time"

	"gorm.io/datatypes"

	"genesiscode/internal/shared/constants"
)

// CourseAccessModel stores explicit grants. Absent level and exercise IDs are stored
// as 0 so the scope unique index also covers path-wide grants.
type CourseAccessModel struct {
	ID          uint       `gorm:"primarykey"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_course_access_scope,priority:1;index:idx_course_access_lookup,priority:1"`
	PathID      uint       `gorm:"not null;uniqueIndex:idx_course_access_scope,priority:2;index:idx_course_access_lookup,priority:2"`
	LevelID     uint       `gorm:"not null;default:0;uniqueIndex:idx_course_access_scope,priority:3"`
	ExerciseID  uint       `gorm:"not null;default:0;uniqueIndex:idx_course_access_scope,priority:4"`
	AccessType  string     `gorm:"not null;size:20"`
	Source      string     `gorm:"not null;size:20"`
	CanView     bool       `gorm:"not null"`
	CanInteract bool       `gorm:"not null"`
	CanDownload bool       `gorm:"not null"`
	IsActive    bool       `gorm:"not null;index:idx_course_access_active_expires,priority:1"`
	ExpiresAt   *time.Time `gorm:"index:idx_course_access_active_expires,priority:2"`
	Metadata    datatypes.JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CourseAccessModel) TableName() string {
	return constants.TableCourseAccesses
}
