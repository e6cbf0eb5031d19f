package enums

import "fmt"

// SubscriptionAction is a lifecycle command applied to a subscription.
type SubscriptionAction string

const (
	SubscriptionActionPause  SubscriptionAction = "pause"
	SubscriptionActionResume SubscriptionAction = "resume"
	SubscriptionActionCancel SubscriptionAction = "cancel"
	SubscriptionActionSkip   SubscriptionAction = "skip"
)

var validSubscriptionActions = []SubscriptionAction{
	SubscriptionActionPause,
	SubscriptionActionResume,
	SubscriptionActionCancel,
	SubscriptionActionSkip,
}

// String implements fmt.Stringer.
func (a SubscriptionAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known action.
func (a SubscriptionAction) IsValid() bool {
	for _, candidate := range validSubscriptionActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseSubscriptionAction converts raw input into a SubscriptionAction.
func ParseSubscriptionAction(value string) (SubscriptionAction, error) {
	for _, candidate := range validSubscriptionActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription action %q", value)
}
