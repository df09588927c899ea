package checkout

import (
	"fmt"
	"strings"

	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
)

// LineItemInput describes one requested line before it reaches the gateway.
type LineItemInput struct {
	CatalogObjectID string
	Quantity        int
}

// LineItemViolationDetail exposes the data returned to callers when a line is rejected.
type LineItemViolationDetail struct {
	Index           int    `json:"index"`
	CatalogObjectID string `json:"catalog_object_id,omitempty"`
	Quantity        int    `json:"quantity"`
	Reason          string `json:"reason"`
}

const (
	reasonMissingCatalogID = "catalog_object_id is required"
	reasonQuantity         = "quantity must be at least 1"
)

// ValidateLineItems ensures every line names a catalog object and a quantity of at least one.
func ValidateLineItems(items []LineItemInput) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "line items are required")
	}
	var violations []LineItemViolationDetail
	for i, item := range items {
		id := strings.TrimSpace(item.CatalogObjectID)
		switch {
		case id == "":
			violations = append(violations, LineItemViolationDetail{Index: i, Quantity: item.Quantity, Reason: reasonMissingCatalogID})
		case item.Quantity < 1:
			violations = append(violations, LineItemViolationDetail{Index: i, CatalogObjectID: id, Quantity: item.Quantity, Reason: reasonQuantity})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid line items: %d rejected", len(violations))).WithDetails(map[string]any{
		"rule":       "line_items",
		"violations": violations,
	})
}
