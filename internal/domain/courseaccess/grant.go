package courseaccess

import (
	"fmt"
	"time"
)

// Grant is the explicit access aggregate (the course access record).
type Grant struct {
	id           uint
	scope        Scope
	accessType   AccessType
	source       Source
	capabilities Capabilities
	isActive     bool
	expiresAt    *time.Time
	metadata     map[string]any
	createdAt    time.Time
	updatedAt    time.Time
}

// NewGrant creates an active grant for the given scope
func NewGrant(scope Scope, accessType AccessType, source Source, caps Capabilities, expiresAt *time.Time) (*Grant, error) {
	if scope.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if scope.PathID == 0 {
		return nil, fmt.Errorf("path ID is required")
	}
	if !accessType.IsValid() {
		return nil, fmt.Errorf("invalid access type: %s", accessType)
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("invalid grant source: %s", source)
	}

	now := time.Now().UTC()
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, fmt.Errorf("expiration must be in the future")
	}
	return &Grant{
		scope:        scope,
		accessType:   accessType,
		source:       source,
		capabilities: caps,
		isActive:     true,
		expiresAt:    expiresAt,
		metadata:     make(map[string]any),
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructGrant reconstructs a grant from persistence
func ReconstructGrant(id uint, scope Scope, accessType AccessType, source Source, caps Capabilities,
	isActive bool, expiresAt *time.Time, metadata map[string]any, createdAt, updatedAt time.Time) (*Grant, error) {
	if id == 0 {
		return nil, fmt.Errorf("grant ID cannot be zero")
	}
	if !accessType.IsValid() {
		return nil, fmt.Errorf("invalid access type: %s", accessType)
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("invalid grant source: %s", source)
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &Grant{
		id:           id,
		scope:        scope,
		accessType:   accessType,
		source:       source,
		capabilities: caps,
		isActive:     isActive,
		expiresAt:    expiresAt,
		metadata:     metadata,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

// ID returns the grant ID
func (g *Grant) ID() uint {
	return g.id
}

// Scope returns the (user, path, level, exercise) tuple
func (g *Grant) Scope() Scope {
	return g.scope
}

func (g *Grant) UserID() uint               { return g.scope.UserID }
func (g *Grant) AccessType() AccessType     { return g.accessType }
func (g *Grant) Source() Source             { return g.source }
func (g *Grant) Capabilities() Capabilities { return g.capabilities }
func (g *Grant) IsActive() bool             { return g.isActive }
func (g *Grant) ExpiresAt() *time.Time      { return g.expiresAt }
func (g *Grant) Metadata() map[string]any   { return g.metadata }
func (g *Grant) CreatedAt() time.Time       { return g.createdAt }
func (g *Grant) UpdatedAt() time.Time       { return g.updatedAt }

// SetID sets the grant ID (only for persistence layer use)
func (g *Grant) SetID(id uint) error {
	if g.id != 0 {
		return fmt.Errorf("grant ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("grant ID cannot be zero")
	}
	g.id = id
	return nil
}

// IsEffectiveAt reports whether the grant is active and not past its expiration
func (g *Grant) IsEffectiveAt(now time.Time) bool {
	if !g.isActive {
		return false
	}
	return g.expiresAt == nil || g.expiresAt.After(now)
}

// Specificity ranks grants so that exercise beats level beats path.
func (g *Grant) Specificity() int {
	switch {
	case g.scope.ExerciseID != 0:
		return 2
	case g.scope.LevelID != 0:
		return 1
	default:
		return 0
	}
}

// Matches reports whether the grant's scope applies to the queried resource.
// A path-wide grant matches any level; a level grant never matches a path query.
func (g *Grant) Matches(pathID, levelID, exerciseID uint) bool {
	if g.scope.PathID != pathID {
		return false
	}
	if g.scope.LevelID != 0 && g.scope.LevelID != levelID {
		return false
	}
	if g.scope.ExerciseID != 0 && g.scope.ExerciseID != exerciseID {
		return false
	}
	return true
}

// Apply overwrites an existing grant in place; used by the upsert path.
func (g *Grant) Apply(accessType AccessType, source Source, caps Capabilities, expiresAt *time.Time) error {
	if !accessType.IsValid() {
		return fmt.Errorf("invalid access type: %s", accessType)
	}
	if !source.IsValid() {
		return fmt.Errorf("invalid grant source: %s", source)
	}
	g.accessType = accessType
	g.source = source
	g.capabilities = caps
	g.expiresAt = expiresAt
	g.isActive = true
	g.updatedAt = time.Now().UTC()
	return nil
}

// Deactivate switches the grant off; idempotent.
func (g *Grant) Deactivate() {
	if !g.isActive {
		return
	}
	g.isActive = false
	g.updatedAt = time.Now().UTC()
}

// SetMetadata sets a metadata value
func (g *Grant) SetMetadata(key string, value any) {
	if g.metadata == nil {
		g.metadata = make(map[string]any)
	}
	g.metadata[key] = value
	g.updatedAt = time.Now().UTC()
}
