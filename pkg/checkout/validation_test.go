package checkout

import (
	"testing"

	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
)

func TestValidateLineItems_NoViolations(t *testing.T) {
	items := []LineItemInput{
		{CatalogObjectID: "V1", Quantity: 1},
		{CatalogObjectID: "V2", Quantity: 12},
	}
	if err := ValidateLineItems(items); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateLineItems_Empty(t *testing.T) {
	err := ValidateLineItems(nil)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateLineItems_Violations(t *testing.T) {
	items := []LineItemInput{
		{CatalogObjectID: "V1", Quantity: 2},
		{CatalogObjectID: "  ", Quantity: 1},
		{CatalogObjectID: "V3", Quantity: 0},
	}
	err := ValidateLineItems(items)
	if err == nil {
		t.Fatal("expected error for invalid lines")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected pkgerrors.Error, got %T", err)
	}
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected code %s, got %s", pkgerrors.CodeValidation, typed.Code())
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	violations, ok := details["violations"].([]LineItemViolationDetail)
	if !ok {
		t.Fatalf("expected violations slice, got %T", details["violations"])
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	if violations[0].Index != 1 || violations[0].Reason != reasonMissingCatalogID {
		t.Fatalf("unexpected first violation %+v", violations[0])
	}
	if violations[1].CatalogObjectID != "V3" || violations[1].Reason != reasonQuantity {
		t.Fatalf("unexpected second violation %+v", violations[1])
	}
}
