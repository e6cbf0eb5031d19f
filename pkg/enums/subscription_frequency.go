package enums

import "fmt"

// SubscriptionFrequency is the recurring delivery cadence for a subscription line.
type SubscriptionFrequency string

const (
	SubscriptionFrequencyWeekly   SubscriptionFrequency = "weekly"
	SubscriptionFrequencyBiWeekly SubscriptionFrequency = "bi-weekly"
	SubscriptionFrequencyMonthly  SubscriptionFrequency = "monthly"
)

var validSubscriptionFrequencies = []SubscriptionFrequency{
	SubscriptionFrequencyWeekly,
	SubscriptionFrequencyBiWeekly,
	SubscriptionFrequencyMonthly,
}

var frequencyIntervalDays = map[SubscriptionFrequency]int{
	SubscriptionFrequencyWeekly:   7,
	SubscriptionFrequencyBiWeekly: 14,
	SubscriptionFrequencyMonthly:  30,
}

// String implements fmt.Stringer.
func (f SubscriptionFrequency) String() string {
	return string(f)
}

// IsValid reports whether the value is a known frequency.
func (f SubscriptionFrequency) IsValid() bool {
	for _, candidate := range validSubscriptionFrequencies {
		if candidate == f {
			return true
		}
	}
	return false
}

// IntervalDays returns the delivery interval for the frequency, zero when unknown.
func (f SubscriptionFrequency) IntervalDays() int {
	return frequencyIntervalDays[f]
}

// ParseSubscriptionFrequency converts raw input into a SubscriptionFrequency.
func ParseSubscriptionFrequency(value string) (SubscriptionFrequency, error) {
	for _, candidate := range validSubscriptionFrequencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription frequency %q", value)
}
