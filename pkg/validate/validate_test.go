package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type loginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required,min=8"`
}

type productInput struct {
	Name       string `json:"name"        validate:"required,min=2,max=100"`
	Price      int64  `json:"price"       validate:"required,gte=0"`
	Stock      int    `json:"stock"       validate:"gte=0"`
	CategoryID uint   `json:"category_id" validate:"required,integer"`
	Image      string `json:"image"       validate:"nullable,max=255"`
}

type checkoutInput struct {
	OrderName string `json:"order_name" validate:"required,max=100"`
	Payment   string `json:"payment"    validate:"required,in=cash,tunai,qris,debit"`
}

type registerInput struct {
	Email                string `json:"email"                 validate:"required,email"`
	Username             string `json:"username"              validate:"required,alpha_dash,min=3"`
	Password             string `json:"password"              validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

func TestRequired(t *testing.T) {
	errs := Struct(&loginInput{})
	assert.True(t, HasErrors(errs))
	assert.Contains(t, errs, "identifier")
	assert.Contains(t, errs, "password")

	errs = Struct(&loginInput{Identifier: "kasir1", Password: "supersecret"})
	assert.False(t, HasErrors(errs))
}

func TestMinCharacters(t *testing.T) {
	errs := Struct(&loginInput{Identifier: "kasir1", Password: "short"})
	assert.Contains(t, errs, "password")
}

func TestNumericBounds(t *testing.T) {
	errs := Struct(&productInput{Name: "Espresso", Price: 25000, Stock: 100, CategoryID: 1})
	assert.False(t, HasErrors(errs))

	errs = Struct(&productInput{Name: "Espresso", Price: 25000, Stock: -1, CategoryID: 1})
	assert.Contains(t, errs, "stock")
}

func TestNullableSkipsEmpty(t *testing.T) {
	errs := Struct(&productInput{Name: "Espresso", Price: 25000, CategoryID: 1, Image: ""})
	assert.NotContains(t, errs, "image")
}

func TestInRule(t *testing.T) {
	for _, ok := range []string{"cash", "tunai", "qris", "debit"} {
		errs := Struct(&checkoutInput{OrderName: "Table 4", Payment: ok})
		assert.False(t, HasErrors(errs), ok)
	}

	errs := Struct(&checkoutInput{OrderName: "Table 4", Payment: "credit"})
	assert.Contains(t, errs, "payment")
}

func TestEmailAndAlphaDash(t *testing.T) {
	in := registerInput{
		Email:                "not-an-email",
		Username:             "has space",
		Password:             "supersecret",
		PasswordConfirmation: "supersecret",
	}
	errs := Struct(&in)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "username")
}

func TestConfirmed(t *testing.T) {
	in := registerInput{
		Email:                "kasir@example.com",
		Username:             "kasir1",
		Password:             "supersecret",
		PasswordConfirmation: "different",
	}
	errs := Struct(&in)
	assert.Contains(t, errs, "password")

	in.PasswordConfirmation = "supersecret"
	assert.False(t, HasErrors(Struct(&in)))
}

func TestFirstFailingRuleWins(t *testing.T) {
	errs := Struct(&registerInput{})
	assert.Equal(t, "The email field is required.", errs["email"])
}

func TestNonStructInput(t *testing.T) {
	assert.False(t, HasErrors(Struct(42)))
	assert.False(t, HasErrors(Struct("hello")))
}
