package enums

import "testing"

func TestParseFulfillmentTypeIsExact(t *testing.T) {
	if got, err := ParseFulfillmentType("PICKUP"); err != nil || got != FulfillmentTypePickup {
		t.Fatalf("expected PICKUP, got %q err=%v", got, err)
	}
	for _, raw := range []string{"pickup", "DELIVERY", ""} {
		if _, err := ParseFulfillmentType(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestCheckoutStateTransitions(t *testing.T) {
	path := []CheckoutState{
		CheckoutStateValidating,
		CheckoutStateResolvingCustomer,
		CheckoutStateBuildingOrder,
		CheckoutStateCapturingPayment,
		CheckoutStateNotifying,
		CheckoutStateDone,
	}
	for i := 0; i < len(path)-1; i++ {
		if !path[i].CanTransition(path[i+1]) {
			t.Fatalf("expected %s -> %s", path[i], path[i+1])
		}
		if !path[i].CanTransition(CheckoutStateFailed) {
			t.Fatalf("expected %s -> failed", path[i])
		}
	}
	if CheckoutStateValidating.CanTransition(CheckoutStateCapturingPayment) {
		t.Fatalf("skipping states must not be allowed")
	}
	if CheckoutStateDone.CanTransition(CheckoutStateFailed) {
		t.Fatalf("done is terminal")
	}
	if CheckoutStateFailed.CanTransition(CheckoutStateValidating) {
		t.Fatalf("failed is terminal")
	}
}

func TestRoleFor(t *testing.T) {
	if RoleFor(true) != UserRoleAdmin || RoleFor(false) != UserRoleCustomer {
		t.Fatalf("unexpected role mapping")
	}
	if _, err := ParseUserRole("vendor"); err == nil {
		t.Fatalf("expected unknown role to fail")
	}
}
