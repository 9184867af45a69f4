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

func TestIDCardValidation(t *testing.T) {
	type P struct {
		IDCard string `validate:"idcard"`
	}
	cv := NewValidator()

	for _, s := range []string{
		"110101199003077858",
		"44030119851201123X",
		"44030119851201123x",
	} {
		if err := cv.Validate(P{IDCard: s}); err != nil {
			t.Fatalf("expected valid id card %q, got err: %v", s, err)
		}
	}

	for _, s := range []string{
		"",
		"110101199003077",     // too short
		"1101011990130778581", // too long
		"110101199013077858",  // month 13
		"010101199003077858",  // leading zero region
		"11010119900307785a",  // bad checksum char
	} {
		err := cv.Validate(P{IDCard: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "IDCard", "id card") {
			t.Fatalf("expected idcard message for %q, got: %+v", s, ToFieldErrors(err))
		}
	}
}

func TestMobileValidation(t *testing.T) {
	type P struct {
		Phone string `validate:"mobile"`
	}
	cv := NewValidator()

	for _, s := range []string{"13812345678", "19900001111"} {
		if err := cv.Validate(P{Phone: s}); err != nil {
			t.Fatalf("expected valid mobile %q, got err: %v", s, err)
		}
	}
	for _, s := range []string{"", "12812345678", "2381234567", "138123456789", "1381234567a"} {
		if cv.Validate(P{Phone: s}) == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}

func TestToFieldErrors_TagMessages(t *testing.T) {
	type P struct {
		Name string `validate:"required,max=5"`
		Size int    `validate:"gte=1,lte=100"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Name: "", Size: 500})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "Name", "required") {
		t.Fatalf("missing required message: %+v", fe)
	}
	if !containsFieldMsg(fe, "Size", "less than or equal to 100") {
		t.Fatalf("missing lte message: %+v", fe)
	}
}
