package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

func TestFieldsUnmarshalJSON(t *testing.T) {
	var f Fields

	err := json.Unmarshal([]byte(`{"CustomerID": 15634602, "Surname": "Hargrave", "Balance": 0.5, "DebitCard": true, "Notes": null}`), &f)
	require.NoError(t, err)

	id, err := f.CustomerID()
	require.NoError(t, err)
	require.Equal(t, int64(15634602), id)

	s, ok := f["Surname"].Str()
	require.True(t, ok)
	require.Equal(t, "Hargrave", s)

	n, ok := f["Balance"].Float()
	require.True(t, ok)
	require.InDelta(t, 0.5, n, 1e-9)

	b, ok := f["DebitCard"].BoolValue()
	require.True(t, ok)
	require.True(t, b)

	require.True(t, f["Notes"].IsNull())
}

func TestFieldsUnmarshalJSONRejectsNested(t *testing.T) {
	var f Fields

	err := json.Unmarshal([]byte(`{"CustomerID": 1, "Address": {"City": "Singapore"}}`), &f)
	require.ErrorIs(t, err, ErrValidation)

	err = json.Unmarshal([]byte(`{"Tags": [1, 2]}`), &f)
	require.ErrorIs(t, err, ErrValidation)
}

func TestCustomerIDMustBeIntegral(t *testing.T) {
	_, err := Fields{"CustomerID": Number(1.5)}.CustomerID()
	require.ErrorIs(t, err, ErrValidation)

	_, err = Fields{"CustomerID": String("42")}.CustomerID()
	require.ErrorIs(t, err, ErrValidation)

	_, err = Fields{}.CustomerID()
	require.ErrorIs(t, err, ErrValidation)
}

func TestWithoutCopies(t *testing.T) {
	f := Fields{"CustomerID": Int(1), "_id": String("abc"), "Age": Int(30)}

	out := f.Without(CustomerIDField, InternalIDField)

	require.Equal(t, Fields{"Age": Int(30)}, out)
	require.Len(t, f, 3)
}

func TestCustomerMarshalJSONIncludesID(t *testing.T) {
	c := Customer{ID: "65f1c2", Fields: Fields{"CustomerID": Int(7)}}

	b, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"CustomerID": 7, "_id": "65f1c2"}`, string(b))

	b, err = json.Marshal(Customer{Fields: Fields{"CustomerID": Int(7)}})
	require.NoError(t, err)
	require.JSONEq(t, `{"CustomerID": 7}`, string(b))
}

func TestValueBSONStoresIntegralNumbersAsInt64(t *testing.T) {
	typ, _, err := Int(15634602).MarshalBSONValue()
	require.NoError(t, err)
	require.Equal(t, bsontype.Int64, typ)

	typ, _, err = Number(101348.88).MarshalBSONValue()
	require.NoError(t, err)
	require.Equal(t, bsontype.Double, typ)
}

func TestFieldsBSON(t *testing.T) {
	in := Fields{
		"CustomerID": Int(15634602),
		"Balance":    Number(83807.86),
		"Gender":     String("Female"),
		"DebitCard":  Bool(false),
		"Churn":      Null(),
	}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	var out Fields
	require.NoError(t, bson.Unmarshal(raw, &out))
	require.Equal(t, in, out)
}

func TestNewFeatureRecord(t *testing.T) {
	f := Fields{}
	for _, name := range RequiredFeatures {
		f[name] = Int(1)
	}

	f["Surname"] = String("extra")

	fr, err := NewFeatureRecord(f)
	require.NoError(t, err)
	require.Len(t, fr, len(RequiredFeatures))
	require.NotContains(t, fr, "Surname")

	delete(f, "NPS")
	delete(f, "Age")

	_, err = NewFeatureRecord(f)
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorContains(t, err, "Age, NPS")
}
