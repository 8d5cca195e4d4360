package valueobjects

type SubscriptionStatus string

const (
	StatusPending    SubscriptionStatus = "pending"
	StatusIncomplete SubscriptionStatus = "incomplete"
	StatusActive     SubscriptionStatus = "active"
	StatusCanceled   SubscriptionStatus = "canceled"
	StatusPastDue    SubscriptionStatus = "past_due"
	StatusExpired    SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	return ValidStatuses[s]
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPending:    true,
	StatusIncomplete: true,
	StatusActive:     true,
	StatusCanceled:   true,
	StatusPastDue:    true,
	StatusExpired:    true,
}
