// Package access holds the vocabulary of access decisions: the decision shape,
// grant sources, denial reasons, the step outcome used by the evaluation pipeline,
// and the decision cache contract.
package access

// Reason explains a denial.
type Reason string

const (
	ReasonUserNotFound              Reason = "user_not_found"
	ReasonNoAccess                  Reason = "no_access"
	ReasonPlanScopeMismatch         Reason = "plan_scope_mismatch"
	ReasonInvalidSubscriptionPlan   Reason = "invalid_subscription_plan"
	ReasonNotFirstLesson            Reason = "not_first_lesson"
	ReasonNoCategoryAccess          Reason = "no_category_access"
	ReasonLevelNotUnlocked          Reason = "level_not_unlocked"
	ReasonPreviousLevelNotCompleted Reason = "previous_level_not_completed"
	ReasonError                     Reason = "error"
)

func (r Reason) String() string {
	return string(r)
}

// IsPurchasable reports whether buying a plan or category would resolve the denial.
func (r Reason) IsPurchasable() bool {
	switch r {
	case ReasonNoAccess, ReasonPlanScopeMismatch, ReasonNotFirstLesson, ReasonNoCategoryAccess, ReasonInvalidSubscriptionPlan:
		return true
	default:
		return false
	}
}

// Source names the rule that granted access.
type Source string

const (
	SourceAdminBypass          Source = "admin_bypass"
	SourceExplicit             Source = "explicit"
	SourceSubscriptionPrefix   Source = "subscription_"
	SourceCategoryAdmin        Source = "category_admin"
	SourceCategoryUnlock       Source = "category_unlock"
	SourceFreeFirstLesson      Source = "free_first_lesson"
	SourceSequentialUnlock     Source = "sequential_unlock"
	SourcePathPreview          Source = "path_preview"
	sourceSubscriptionFallback Source = "subscription"
)

// SubscriptionSource builds subscription_<scope>.
func SubscriptionSource(scope string) Source {
	if scope == "" {
		return sourceSubscriptionFallback
	}
	return SourceSubscriptionPrefix + Source(scope)
}

// Access types reported on granted decisions.
const (
	AccessTypeAdmin            = "admin"
	AccessTypeSubscription     = "subscription"
	AccessTypeFree             = "free"
	AccessTypePreview          = "preview"
	AccessTypeUnlocked         = "unlocked"
	AccessTypeSequentialUnlock = "sequential_unlock"
)

// Decision is the result of an access evaluation.
type Decision struct {
	HasAccess   bool   `json:"has_access"`
	AccessType  string `json:"access_type,omitempty"`
	CanView     bool   `json:"can_view"`
	CanInteract bool   `json:"can_interact"`
	CanDownload bool   `json:"can_download"`
	Source      Source `json:"source,omitempty"`
	Reason      Reason `json:"reason,omitempty"`
}

// Grant builds an allow decision.
func Grant(accessType string, source Source, view, interact, download bool) Decision {
	return Decision{
		HasAccess:   true,
		AccessType:  accessType,
		CanView:     view,
		CanInteract: interact,
		CanDownload: download,
		Source:      source,
	}
}

// Deny builds a deny decision.
func Deny(reason Reason) Decision {
	return Decision{HasAccess: false, Reason: reason}
}

// FullAccess is what admins get.
func FullAccess(source Source) Decision {
	return Grant(AccessTypeAdmin, source, true, true, true)
}
