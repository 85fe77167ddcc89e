package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCheckout struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
}

type testItem struct {
	ID       string          `json:"id" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity int             `json:"quantity" validate:"gte=1"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(testCheckout{Name: "Alice", Email: "alice@example.com"})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired_UsesJSONName(t *testing.T) {
	err := Validate(testCheckout{Email: "alice@example.com"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "name")
	assert.Equal(t, "is required", fields["name"])
}

func TestValidate_InvalidEmail(t *testing.T) {
	err := Validate(testCheckout{Name: "Alice", Email: "not-an-email"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["email"])
}

func TestValidate_DecimalNegative(t *testing.T) {
	err := Validate(testItem{ID: "s1", Price: decimal.RequireFromString("-0.01"), Quantity: 1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "price")
}

func TestValidate_DecimalZeroAllowed(t *testing.T) {
	err := Validate(testItem{ID: "s1", Price: decimal.Zero, Quantity: 1})
	assert.NoError(t, err)
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(testItem{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "id")
	assert.Contains(t, fields, "quantity")
	assert.Contains(t, err.Error(), "field 'id'")
}

func TestDecodeAndValidate(t *testing.T) {
	body := bytes.NewBufferString(`{"name":"Bob","email":"bob@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/", body)

	var dst testCheckout
	require.NoError(t, DecodeAndValidate(req, &dst))
	assert.Equal(t, "Bob", dst.Name)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{bad`))

	var dst testCheckout
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
