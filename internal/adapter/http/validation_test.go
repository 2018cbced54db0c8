package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestTxTypeValidation(t *testing.T) {
	type P struct {
		Type string `validate:"txtype"`
	}
	cv := NewValidator()

	for _, s := range []string{"savings", "share_purchase", "loan_repayment_interest", "dividend_payout"} {
		if err := cv.Validate(P{Type: s}); err != nil {
			t.Fatalf("expected txtype OK for %q, got %v", s, err)
		}
	}
	for _, s := range []string{"", "Savings", "deposit"} {
		err := cv.Validate(P{Type: s})
		if err == nil {
			t.Fatalf("expected txtype error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "Type", "known transaction type") {
			t.Fatalf("expected txtype message for %q, got %+v", s, fe)
		}
	}
}

func TestFieldNamesFollowJSONTags(t *testing.T) {
	type P struct {
		StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
		Kind      string `json:"kind,omitempty" validate:"oneof=ngo donor"`
	}
	err := NewValidator().Validate(P{StartDate: "10/05/2024", Kind: "bank"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "start_date", "2006-01-02") {
		t.Fatalf("missing datetime message: %+v", fe)
	}
	if !containsFieldMsg(fe, "kind", "ngo donor") {
		t.Fatalf("missing oneof message: %+v", fe)
	}
}

func TestDec2Validation(t *testing.T) {
	type P struct {
		Rate float64 `validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{1.29, 2.00, 0.9, 1.2} {
		if err := cv.Validate(P{Rate: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.234, 2.9999} {
		err := cv.Validate(P{Rate: v})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "Rate", "at most 2 decimal places") {
			t.Fatalf("expected 'at most 2 decimal places' for %v, got %+v", v, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name string  `validate:"required"`
		Min  int     `validate:"gte=10"`
		Max  int     `validate:"lte=5"`
		ROI  float64 `validate:"dec2,gte=0.90,lte=1.29"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{
		Name: "",    // required
		Min:  9,     // gte=10
		Max:  6,     // lte=5
		ROI:  1.333, // dec2 + lte fail, but dec2 will trigger first
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	// required
	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	// gte
	if !containsFieldMsg(fe, "Min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for Min: %+v", fe)
	}
	// lte
	if !containsFieldMsg(fe, "Max", "less than or equal to 5") {
		t.Fatalf("missing lte message for Max: %+v", fe)
	}
	// dec2 mapping should show for ROI
	if !containsFieldMsg(fe, "ROI", "at most 2 decimal places") {
		t.Fatalf("missing dec2 message for ROI: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
