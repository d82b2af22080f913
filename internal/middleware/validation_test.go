package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"omitempty,gte=0"`
}

func TestProperty_QuantityRangeValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("negative quantities are rejected and the rest accepted", prop.ForAll(
		func(quantity int) bool {
			body := fmt.Sprintf(`{"quantity": %d}`, quantity)
			req := httptest.NewRequest(http.MethodPut, "/cart/products/15", strings.NewReader(body))

			var q quantityRequest
			err := DecodeOptionalAndValidate(req, &q)

			if quantity >= 0 {
				return err == nil && q.Quantity != nil && *q.Quantity == quantity
			}
			return err != nil && len(FormatValidationErrors(err)) == 1
		},
		gen.IntRange(-100, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeOptionalAcceptsEmptyBody(t *testing.T) {
	for _, body := range []string{"", "{}"} {
		req := httptest.NewRequest(http.MethodPut, "/cart/products/15", strings.NewReader(body))

		var q quantityRequest
		require.NoError(t, DecodeOptionalAndValidate(req, &q), "body %q", body)
		assert.Nil(t, q.Quantity)
	}
}

func TestDecodeOptionalRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/cart/products/15", bytes.NewReader([]byte(`{"quantity":`)))

	var q quantityRequest
	err := DecodeOptionalAndValidate(req, &q)

	require.Error(t, err)
	assert.Empty(t, FormatValidationErrors(err))
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	for _, body := range []string{`{"quantity":2}garbage`, `{"quantity":2}{"quantity":3}`, `{"quantity":2}]`} {
		var q quantityRequest
		req := httptest.NewRequest(http.MethodPut, "/cart/products/15", strings.NewReader(body))
		assert.ErrorIs(t, DecodeOptionalAndValidate(req, &q), ErrTrailingData, "body %q", body)

		req = httptest.NewRequest(http.MethodPut, "/cart/products/15", strings.NewReader(body))
		assert.ErrorIs(t, DecodeAndValidate(req, &q), ErrTrailingData, "body %q", body)
	}
}

func TestDecodeAllowsTrailingWhitespace(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/cart/products/15", strings.NewReader("{\"quantity\":2}\n  "))

	var q quantityRequest
	require.NoError(t, DecodeOptionalAndValidate(req, &q))
	require.NotNil(t, q.Quantity)
	assert.Equal(t, 2, *q.Quantity)
}

func TestDecodeAndValidateRequiresBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/cart/products/15", strings.NewReader(""))

	var q quantityRequest
	assert.Error(t, DecodeAndValidate(req, &q))
}

func TestValidationErrorsNameTheField(t *testing.T) {
	negative := -4
	err := ValidateRequest(&quantityRequest{Quantity: &negative})

	errs := FormatValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "Quantity", errs[0].Field)
	assert.Equal(t, "Value must be greater than or equal to 0", errs[0].Message)
}
