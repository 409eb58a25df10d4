package enums

import "fmt"

// BookingState selects the query bucket for booking list endpoints. It is
// broader than BookingStatus: besides the status filters it carries the
// time-based buckets evaluated against "now".
type BookingState string

const (
	BookingStateAll      BookingState = "ALL"
	BookingStateCurrent  BookingState = "CURRENT"
	BookingStatePast     BookingState = "PAST"
	BookingStateFuture   BookingState = "FUTURE"
	BookingStateWaiting  BookingState = "WAITING"
	BookingStateRejected BookingState = "REJECTED"
)

var validBookingStates = []BookingState{
	BookingStateAll,
	BookingStateCurrent,
	BookingStatePast,
	BookingStateFuture,
	BookingStateWaiting,
	BookingStateRejected,
}

// String implements fmt.Stringer.
func (s BookingState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BookingState.
func (s BookingState) IsValid() bool {
	for _, candidate := range validBookingStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBookingState converts raw input into a BookingState. The input is
// matched verbatim (no case folding) to keep parity with the HTTP contract.
func ParseBookingState(value string) (BookingState, error) {
	for _, candidate := range validBookingStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking state %q", value)
}
