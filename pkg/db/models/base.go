package models

import (
	"github.com/google/uuid"
)

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&ServiceRequest{},
		&ServiceRequestAssignment{},
		&EquipmentRentalRequest{},
		&CheckoutAttempt{},
	}
}

// ensureID assigns a v4 id when the caller did not set one. The column default is only
// present on postgres, so ids are generated client side to keep sqlite working.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
