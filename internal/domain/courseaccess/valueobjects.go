// Package courseaccess models explicit per-user grants on a path, level or exercise.
// A grant overrides the general rules; a zero level or exercise ID widens its scope.
package courseaccess

// AccessType is the kind of access an explicit grant confers
type AccessType string

const (
	AccessTypeFree         AccessType = "free"
	AccessTypePreview      AccessType = "preview"
	AccessTypeSubscription AccessType = "subscription"
	AccessTypeUnlocked     AccessType = "unlocked"
)

// IsValid checks if the access type is valid
func (t AccessType) IsValid() bool {
	switch t {
	case AccessTypeFree, AccessTypePreview, AccessTypeSubscription, AccessTypeUnlocked:
		return true
	default:
		return false
	}
}

func (t AccessType) String() string {
	return string(t)
}

// DefaultCapabilities are applied when a grant command omits explicit flags.
func (t AccessType) DefaultCapabilities() Capabilities {
	switch t {
	case AccessTypePreview:
		return Capabilities{CanView: true}
	case AccessTypeUnlocked:
		return Capabilities{CanView: true, CanInteract: true, CanDownload: true}
	default:
		return Capabilities{CanView: true, CanInteract: true}
	}
}

// Source records which workflow created the grant
type Source string

const (
	SourceDefault      Source = "default"
	SourceSubscription Source = "subscription"
	SourcePurchase     Source = "purchase"
	SourceAdmin        Source = "admin"
)

// IsValid checks if the source is valid
func (s Source) IsValid() bool {
	switch s {
	case SourceDefault, SourceSubscription, SourcePurchase, SourceAdmin:
		return true
	default:
		return false
	}
}

func (s Source) String() string {
	return string(s)
}

// Capabilities are returned verbatim by the engine when a grant matches.
type Capabilities struct {
	CanView     bool
	CanInteract bool
	CanDownload bool
}

// Scope identifies the resource a grant applies to.
type Scope struct {
	UserID     uint
	PathID     uint
	LevelID    uint
	ExerciseID uint
}
