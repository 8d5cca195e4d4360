package models

import (
	"time"

	"gorm.io/datatypes"

	"genesiscode/internal/shared/constants"
)

// UserModel is the persistence model for users. Role is the legacy single-role
// column; Roles holds the newer roles collection as a JSON array.
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	Email     string `gorm:"uniqueIndex;not null;size:255"`
	Name      string `gorm:"not null;size:100"`
	Role      string `gorm:"size:20"`
	Roles     datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
