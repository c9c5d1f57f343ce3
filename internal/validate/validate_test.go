package validate_test

import (
	"testing"

	"github.com/nikolayk812/cartpromo/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Code     string `json:"code" validate:"required,min=3"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

func TestCheck(t *testing.T) {
	require.NoError(t, validate.Check(payload{Code: "SAVE10", Quantity: 1}))

	err := validate.Check(payload{Code: "AB", Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code must be at least 3 characters")

	err = validate.Check(payload{Code: "SAVE10"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quantity must be 1 or greater")
}

func TestParseID(t *testing.T) {
	id, err := validate.ParseID("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, raw := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := validate.ParseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseUUID(t *testing.T) {
	_, err := validate.ParseUUID("c4d1a3b2-7a4e-4f7e-9a55-0d2f1c6b8e90")
	require.NoError(t, err)

	_, err = validate.ParseUUID("not-a-uuid")
	assert.EqualError(t, err, "id[not-a-uuid] is not in its proper form")
}
