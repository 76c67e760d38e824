package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGigInputDistinguishesAbsentNullAndValue(t *testing.T) {
	var in GigInput
	body := `{"title":"Wedding","latitude":null,"pricePerHour":"150","notes":""}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.True(t, in.Title.Present())
	assert.Equal(t, "Wedding", in.Title.Value)

	assert.True(t, in.Latitude.Set)
	assert.True(t, in.Latitude.Null)
	assert.False(t, in.Latitude.Present())

	assert.False(t, in.Longitude.Set, "absent key must stay unset")

	price, err := in.PricePerHour.Value.Float64()
	require.NoError(t, err)
	assert.Equal(t, 150.0, price)

	assert.True(t, in.Notes.Present())
	assert.Equal(t, "", in.Notes.Value)
}

func TestNumberRejectsNonNumeric(t *testing.T) {
	cases := []struct {
		raw   string
		valid bool
	}{
		{`12.5`, true},
		{`"12.5"`, true},
		{`" 40 "`, true},
		{`"abc"`, false},
		{`"NaN"`, false},
		{`""`, false},
	}
	for _, c := range cases {
		var n Number
		require.NoError(t, json.Unmarshal([]byte(c.raw), &n), c.raw)
		_, err := n.Float64()
		assert.Equal(t, c.valid, err == nil, c.raw)
	}

	var n Number
	assert.Error(t, json.Unmarshal([]byte(`true`), &n))
}

func TestGigInputMarshalOmitsAbsentFields(t *testing.T) {
	in := GigInput{
		Title:    Some("Wedding"),
		Latitude: Null[Number](),
	}
	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Wedding","latitude":null}`, string(out))
}

func TestValidationErrorFromValidator(t *testing.T) {
	err := Validate.Struct(RegisterInput{Email: "not-an-email"})
	ve, ok := ValidationErrorFrom(err).(*ValidationError)
	require.True(t, ok)

	assert.ElementsMatch(t, []string{"name", "password"}, ve.Missing)
	assert.Contains(t, ve.Invalid, "email")
	assert.Equal(t, []string{"name", "password", "email"}, ve.Fields()[:3])
}

func TestValidationErrorOrNil(t *testing.T) {
	ve := &ValidationError{}
	assert.NoError(t, ve.OrNil())

	ve.AddMissing("title")
	assert.Error(t, ve.OrNil())
	assert.Contains(t, ve.Error(), "title")
}
