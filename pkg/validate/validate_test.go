package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/foodrun/pkg/validate"
)

type credentialsInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type runDraftInput struct {
	Restaurant string `json:"restaurant" validate:"required,max=100"`
	DropPoint  string `json:"drop_point" validate:"required,max=100"`
	Eta        string `json:"eta"        validate:"required"`
	Capacity   int    `json:"capacity"   validate:"required,gte=1,lte=20"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(credentialsInput{
		Email:    "user@ncsu.edu",
		Password: "secret123",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(credentialsInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
	if _, ok := errs["password"]; !ok {
		t.Error("expected password to be required")
	}
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(credentialsInput{Email: "not-an-email", Password: "secret123"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(credentialsInput{Email: "valid@example.com", Password: "secret123"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	draft := runDraftInput{Restaurant: "Taco Place", DropPoint: "Bldg A", Eta: "12:00", Capacity: 50}
	if errs := validate.Struct(draft); !validate.HasErrors(errs) {
		t.Error("expected capacity > 20 to fail")
	}
	draft.Capacity = 4
	if errs := validate.Struct(draft); validate.HasErrors(errs) {
		t.Errorf("expected capacity 4 to pass, got: %v", errs)
	}
}

func TestDigitsRule(t *testing.T) {
	type in struct {
		Pin string `json:"pin" validate:"required,digits=4"`
	}
	if errs := validate.Struct(in{Pin: "12a4"}); !validate.HasErrors(errs) {
		t.Error("expected non-digit pin to fail")
	}
	if errs := validate.Struct(in{Pin: "123"}); !validate.HasErrors(errs) {
		t.Error("expected short pin to fail")
	}
	if errs := validate.Struct(in{Pin: "1234"}); validate.HasErrors(errs) {
		t.Errorf("expected 4-digit pin to pass: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=active,paid,arrived,completed,cancelled"`
	}
	if errs := validate.Struct(in{Status: "bogus"}); !validate.HasErrors(errs) {
		t.Error("expected invalid status to fail")
	}
	if errs := validate.Struct(in{Status: "active"}); validate.HasErrors(errs) {
		t.Errorf("expected active to pass: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Note string `json:"note" validate:"nullable,max=10"`
	}
	if errs := validate.Struct(in{Note: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	if errs := validate.Struct(in{Note: "this note is far too long"}); !validate.HasErrors(errs) {
		t.Error("expected over-long note to fail")
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Amount float64 `json:"amount" validate:"required,between=0,500"`
	}
	if errs := validate.Struct(in{Amount: 750}); !validate.HasErrors(errs) {
		t.Error("expected amount > 500 to fail")
	}
	if errs := validate.Struct(in{Amount: 18.5}); validate.HasErrors(errs) {
		t.Errorf("expected amount 18.5 to pass: %v", errs)
	}
}
