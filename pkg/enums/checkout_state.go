package enums

import "fmt"

// CheckoutState is a step of the order creation state machine.
type CheckoutState string

const (
	CheckoutStateValidating        CheckoutState = "validating"
	CheckoutStateResolvingCustomer CheckoutState = "resolving_customer"
	CheckoutStateBuildingOrder     CheckoutState = "building_order"
	CheckoutStateCapturingPayment  CheckoutState = "capturing_payment"
	CheckoutStateNotifying         CheckoutState = "notifying"
	CheckoutStateDone              CheckoutState = "done"
	CheckoutStateFailed            CheckoutState = "failed"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateValidating,
	CheckoutStateResolvingCustomer,
	CheckoutStateBuildingOrder,
	CheckoutStateCapturingPayment,
	CheckoutStateNotifying,
	CheckoutStateDone,
	CheckoutStateFailed,
}

// checkoutTransitions lists the forward edges. Failed is reachable from every non-terminal state.
var checkoutTransitions = map[CheckoutState]CheckoutState{
	CheckoutStateValidating:        CheckoutStateResolvingCustomer,
	CheckoutStateResolvingCustomer: CheckoutStateBuildingOrder,
	CheckoutStateBuildingOrder:     CheckoutStateCapturingPayment,
	CheckoutStateCapturingPayment:  CheckoutStateNotifying,
	CheckoutStateNotifying:         CheckoutStateDone,
}

func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (c CheckoutState) IsTerminal() bool {
	return c == CheckoutStateDone || c == CheckoutStateFailed
}

// CanTransition reports whether next directly follows c.
func (c CheckoutState) CanTransition(next CheckoutState) bool {
	if c.IsTerminal() {
		return false
	}
	if next == CheckoutStateFailed {
		return true
	}
	return checkoutTransitions[c] == next
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
