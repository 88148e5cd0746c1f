package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type checkoutForm struct {
	Email    string  `json:"email"    validate:"required,email"`
	Method   string  `json:"method"   validate:"required,in=cod,upi,card"`
	Quantity int     `json:"quantity" validate:"required,gte=1,lte=50"`
	Proof    *string `json:"proof"    validate:"nullable,url"`
	Note     string  `json:"note"     validate:"nullable,max=10"`
}

func TestStructValid(t *testing.T) {
	proof := "https://pay.example.com/ref/123"
	errs := Struct(checkoutForm{
		Email:    "asha@example.com",
		Method:   "upi",
		Quantity: 2,
		Proof:    &proof,
	})
	assert.False(t, HasErrors(errs))
}

func TestStructRequired(t *testing.T) {
	errs := Struct(checkoutForm{Method: "cod", Quantity: 1})
	assert.Equal(t, "The email field is required.", errs["email"])
}

func TestStructInRule(t *testing.T) {
	errs := Struct(checkoutForm{Email: "a@b.co", Method: "paypal", Quantity: 1})
	assert.Equal(t, "The selected method is invalid.", errs["method"])
}

func TestStructNumericBounds(t *testing.T) {
	errs := Struct(checkoutForm{Email: "a@b.co", Method: "cod", Quantity: 90})
	assert.Contains(t, errs["quantity"], "less than or equal to 50")
}

func TestNullableSkipsWhenEmpty(t *testing.T) {
	errs := Struct(checkoutForm{Email: "a@b.co", Method: "cod", Quantity: 1})
	_, hasProof := errs["proof"]
	assert.False(t, hasProof)
}

func TestNullableStillValidatesWhenSet(t *testing.T) {
	bad := "not-a-url"
	errs := Struct(checkoutForm{Email: "a@b.co", Method: "cod", Quantity: 1, Proof: &bad})
	assert.Equal(t, "The proof must be a valid URL.", errs["proof"])
}

func TestSplitRulesKeepsInParams(t *testing.T) {
	rules := splitRules("required,in=cod,upi,card,max=100")
	assert.Equal(t, []string{"required", "in=cod,upi,card", "max=100"}, rules)
}
