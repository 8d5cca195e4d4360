// Package categoryaccess models a user's entitlement to a category and the levels
// that have been unlocked beyond each path's free first level.
package categoryaccess

import (
	"fmt"
	"time"
)

type AccessType string

const (
	AccessTypeFree      AccessType = "free"
	AccessTypePurchased AccessType = "purchased"
	AccessTypeAdmin     AccessType = "admin"
)

func (t AccessType) IsValid() bool {
	return t == AccessTypeFree || t == AccessTypePurchased || t == AccessTypeAdmin
}

func (t AccessType) String() string {
	return string(t)
}

func (t AccessType) rank() int {
	switch t {
	case AccessTypeAdmin:
		return 2
	case AccessTypePurchased:
		return 1
	default:
		return 0
	}
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// UnlockedLevel is one (path, level) pair opened by the unlock mutator.
type UnlockedLevel struct {
	PathID     uint
	LevelID    uint
	UnlockedAt time.Time
}

// CategoryAccess is the category entitlement aggregate. unlockedLevels only grows;
// it is written through Repository.UnlockLevel, never by mutating the aggregate.
type CategoryAccess struct {
	id               uint
	userID           uint
	categoryID       uint
	accessType       AccessType
	status           Status
	expiresAt        *time.Time
	paymentReference string
	unlockedLevels   []UnlockedLevel
	createdAt        time.Time
	updatedAt        time.Time
}

func NewCategoryAccess(userID, categoryID uint, accessType AccessType, expiresAt *time.Time, paymentReference string) (*CategoryAccess, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if categoryID == 0 {
		return nil, fmt.Errorf("category ID is required")
	}
	if !accessType.IsValid() {
		return nil, fmt.Errorf("invalid category access type: %s", accessType)
	}
	if accessType == AccessTypePurchased && paymentReference == "" {
		return nil, fmt.Errorf("purchased category access requires a payment reference")
	}
	now := time.Now().UTC()
	return &CategoryAccess{
		userID:           userID,
		categoryID:       categoryID,
		accessType:       accessType,
		status:           StatusActive,
		expiresAt:        expiresAt,
		paymentReference: paymentReference,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructCategoryAccess(id, userID, categoryID uint, accessType AccessType, status Status,
	expiresAt *time.Time, paymentReference string, unlocked []UnlockedLevel, createdAt, updatedAt time.Time) (*CategoryAccess, error) {
	if id == 0 {
		return nil, fmt.Errorf("category access ID cannot be zero")
	}
	if !accessType.IsValid() {
		return nil, fmt.Errorf("invalid category access type: %s", accessType)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid category access status: %s", status)
	}
	return &CategoryAccess{
		id:               id,
		userID:           userID,
		categoryID:       categoryID,
		accessType:       accessType,
		status:           status,
		expiresAt:        expiresAt,
		paymentReference: paymentReference,
		unlockedLevels:   unlocked,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (c *CategoryAccess) ID() uint                 { return c.id }
func (c *CategoryAccess) UserID() uint             { return c.userID }
func (c *CategoryAccess) CategoryID() uint         { return c.categoryID }
func (c *CategoryAccess) AccessType() AccessType   { return c.accessType }
func (c *CategoryAccess) Status() Status           { return c.status }
func (c *CategoryAccess) ExpiresAt() *time.Time    { return c.expiresAt }
func (c *CategoryAccess) PaymentReference() string { return c.paymentReference }
func (c *CategoryAccess) CreatedAt() time.Time     { return c.createdAt }
func (c *CategoryAccess) UpdatedAt() time.Time     { return c.updatedAt }

// UnlockedLevels returns a copy of the unlocked set
func (c *CategoryAccess) UnlockedLevels() []UnlockedLevel {
	return append([]UnlockedLevel(nil), c.unlockedLevels...)
}

// SetID sets the ID (only for persistence layer use)
func (c *CategoryAccess) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("category access ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("category access ID cannot be zero")
	}
	c.id = id
	return nil
}

// IsActiveAt reports whether the entitlement is switched on and not expired
func (c *CategoryAccess) IsActiveAt(now time.Time) bool {
	if c.status != StatusActive {
		return false
	}
	return c.expiresAt == nil || c.expiresAt.After(now)
}

// HasUnlocked reports whether (pathID, levelID) is in the unlocked set
func (c *CategoryAccess) HasUnlocked(pathID, levelID uint) bool {
	for _, u := range c.unlockedLevels {
		if u.PathID == pathID && u.LevelID == levelID {
			return true
		}
	}
	return false
}

// Activate switches the record on for a new grant or purchase. An active record is
// never downgraded (a free grant does not replace a purchase).
func (c *CategoryAccess) Activate(accessType AccessType, expiresAt *time.Time, paymentReference string) error {
	if !accessType.IsValid() {
		return fmt.Errorf("invalid category access type: %s", accessType)
	}
	now := time.Now().UTC()
	if c.IsActiveAt(now) && c.accessType.rank() > accessType.rank() {
		return nil
	}
	c.accessType = accessType
	c.status = StatusActive
	c.expiresAt = expiresAt
	if paymentReference != "" {
		c.paymentReference = paymentReference
	}
	c.updatedAt = now
	return nil
}

// Deactivate switches the record off; unlocked levels are kept for a later reactivation.
func (c *CategoryAccess) Deactivate() {
	if c.status == StatusInactive {
		return
	}
	c.status = StatusInactive
	c.updatedAt = time.Now().UTC()
}
