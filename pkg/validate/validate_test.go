package validate_test

import (
	"testing"

	"github.com/vanyajewels/storefront/pkg/validate"
)

type signupInput struct {
	Name     string `json:"name"     validate:"required,alpha_space,min=2,max=50"`
	Phone    string `json:"phone"    validate:"required,regex=^[6-9][0-9]{9}$"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Gender   string `json:"gender"   validate:"nullable,in=men,women,unisex"`
	Age      int    `json:"age"      validate:"nullable,gte=15,lte=120"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(signupInput{
		Name:     "Asha Verma",
		Phone:    "9876543210",
		Email:    "asha@example.com",
		Password: "secret123",
		Gender:   "women",
		Age:      28,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(signupInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	for _, field := range []string{"name", "phone", "email", "password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
	if _, ok := errs["gender"]; ok {
		t.Error("nullable gender should not error when empty")
	}
}

func TestRegexRule(t *testing.T) {
	type in struct {
		Phone string `json:"phone" validate:"required,regex=^[6-9][0-9]{9}$"`
	}
	if errs := validate.Struct(in{Phone: "1234567890"}); !validate.HasErrors(errs) {
		t.Error("expected phone starting with 1 to fail")
	}
	if errs := validate.Struct(in{Phone: "9876543210"}); validate.HasErrors(errs) {
		t.Errorf("expected valid phone to pass, got: %v", errs)
	}
}

func TestAlphaSpaceRule(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,alpha_space"`
	}
	if errs := validate.Struct(in{Name: "Asha1"}); !validate.HasErrors(errs) {
		t.Error("expected digits in name to fail")
	}
	if errs := validate.Struct(in{Name: "Asha Verma"}); validate.HasErrors(errs) {
		t.Errorf("expected letters and spaces to pass, got: %v", errs)
	}
}

func TestDigitsRule(t *testing.T) {
	type in struct {
		Pincode string `json:"pincode" validate:"required,digits=6"`
	}
	if errs := validate.Struct(in{Pincode: "41100"}); !validate.HasErrors(errs) {
		t.Error("expected 5 digits to fail digits=6")
	}
	if errs := validate.Struct(in{Pincode: "41100a"}); !validate.HasErrors(errs) {
		t.Error("expected non-digit to fail")
	}
	if errs := validate.Struct(in{Pincode: "411001"}); validate.HasErrors(errs) {
		t.Errorf("expected 6 digits to pass, got: %v", errs)
	}
}

func TestInRuleKeepsCommaParams(t *testing.T) {
	type in struct {
		Method string `json:"method" validate:"required,in=COD,Razorpay,Stripe,min=2"`
	}
	if errs := validate.Struct(in{Method: "Razorpay"}); validate.HasErrors(errs) {
		t.Errorf("expected listed value to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Method: "Barter"}); !validate.HasErrors(errs) {
		t.Error("expected unlisted value to fail")
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gte=1"`
	}
	if errs := validate.Struct(in{Quantity: 0}); !validate.HasErrors(errs) {
		t.Error("expected zero quantity to fail")
	}
	if errs := validate.Struct(in{Quantity: 2}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 2 to pass, got: %v", errs)
	}
}

func TestMinOnStrings(t *testing.T) {
	type in struct {
		Password string `json:"password" validate:"required,min=6"`
	}
	if errs := validate.Struct(in{Password: "abc"}); !validate.HasErrors(errs) {
		t.Error("expected short password to fail")
	}
	if errs := validate.Struct(in{Password: "secret123"}); validate.HasErrors(errs) {
		t.Errorf("expected long password to pass, got: %v", errs)
	}
}

func TestPointerFields(t *testing.T) {
	type in struct {
		Age *int `json:"age" validate:"required,gte=15"`
	}
	if errs := validate.Struct(in{}); !validate.HasErrors(errs) {
		t.Error("expected nil required pointer to fail")
	}
	age := 20
	if errs := validate.Struct(in{Age: &age}); validate.HasErrors(errs) {
		t.Errorf("expected set pointer to pass, got: %v", errs)
	}
}

func TestFirstFailingRuleWins(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,alpha_space,min=5"`
	}
	errs := validate.Struct(in{Name: "A1"})
	if errs["name"] != "The name may only contain letters and spaces." {
		t.Errorf("expected alpha_space message first, got: %q", errs["name"])
	}
}
