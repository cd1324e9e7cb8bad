// internal/utils/sanitize_test.go
package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeReplacesNonFiniteFloats(t *testing.T) {
	assert.Equal(t, 0.0, Sanitize(math.NaN()))
	assert.Equal(t, 0.0, Sanitize(math.Inf(1)))
	assert.Equal(t, 0.0, Sanitize(math.Inf(-1)))
	assert.Equal(t, 42.5, Sanitize(42.5))
}

func TestSanitizeReachesNestedValues(t *testing.T) {
	in := Fields{
		"price": math.NaN(),
		"nested": Fields{
			"fee": math.Inf(1),
			"tags": []interface{}{
				"ok",
				math.Inf(-1),
			},
		},
	}

	out, ok := Sanitize(in).(Fields)
	require.True(t, ok)

	assert.Equal(t, 0.0, out["price"])
	nested := out["nested"].(Fields)
	assert.Equal(t, 0.0, nested["fee"])
	assert.Equal(t, 0.0, nested["tags"].([]interface{})[1])
	assert.Equal(t, "ok", nested["tags"].([]interface{})[0])
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	in := Fields{
		"price": math.NaN(),
		"list":  []float64{1, math.Inf(1)},
	}

	Sanitize(in)

	assert.True(t, math.IsNaN(in["price"].(float64)))
	assert.True(t, math.IsInf(in["list"].([]float64)[1], 1))
}

func TestSanitizeIsIdempotent(t *testing.T) {
	in := Fields{
		"price": math.NaN(),
		"name":  "shirt",
		"qty":   3,
	}

	once := Sanitize(in)
	twice := Sanitize(once)
	assert.Equal(t, once, twice)
}

func TestSanitizePassesNilThrough(t *testing.T) {
	assert.Nil(t, Sanitize(nil))

	var m map[string]float64
	assert.Nil(t, Sanitize(m))

	out := Sanitize(Fields{"note": nil}).(Fields)
	assert.Nil(t, out["note"])
}

func TestSanitizeCopiesStructsWithUnexportedFields(t *testing.T) {
	type record struct {
		Price float64
		When  time.Time
	}

	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in := record{Price: math.NaN(), When: when}

	out := Sanitize(in).(record)
	assert.Equal(t, 0.0, out.Price)
	assert.True(t, out.When.Equal(when))
	assert.True(t, math.IsNaN(in.Price), "input struct must not change")
}

func TestToDocumentRoundTrip(t *testing.T) {
	type record struct {
		ID    string  `json:"id"`
		Price float64 `json:"price"`
	}

	doc, err := ToDocument(record{ID: "r1", Price: math.Inf(1)})
	require.NoError(t, err)
	assert.Equal(t, "r1", doc["id"])
	assert.Equal(t, 0.0, doc["price"])

	var back record
	require.NoError(t, FromDocument(doc, &back))
	assert.Equal(t, "r1", back.ID)
	assert.Equal(t, 0.0, back.Price)
}
