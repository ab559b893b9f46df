package docstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterAndDoesNotMutateReceiver(t *testing.T) {
	base := ByField("a", 1)
	next := base.And("b", 2)

	assert.Len(t, base.Fields, 1)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, next.Fields)
}

func TestFilterWithElem(t *testing.T) {
	f := ByID("x").WithElem("vocabularies", "pronunciation", "kæt")

	require.NotNil(t, f.Elem)
	assert.Equal(t, "x", f.ID)
	assert.Equal(t, ElemMatch{Array: "vocabularies", Field: "pronunciation", Value: "kæt"}, *f.Elem)
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID(NewID()))
	assert.NoError(t, ValidateID("507f1f77bcf86cd799439011"))
	assert.ErrorIs(t, ValidateID(""), ErrMalformedID)
	assert.ErrorIs(t, ValidateID("507f1f77bcf86cd79943901"), ErrMalformedID)
	assert.ErrorIs(t, ValidateID("zzzzzzzzzzzzzzzzzzzzzzzz"), ErrMalformedID)
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("find", "lessons", nil))
	assert.ErrorIs(t, Wrap("find", "lessons", ErrNoDocuments), ErrNoDocuments)

	cause := errors.New("disk on fire")
	err := Wrap("find", "lessons", cause)

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "find", se.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "docstore find on lessons: disk on fire", err.Error())

	assert.Same(t, err, Wrap("update", "users", err))
}

func TestEncodeDecode(t *testing.T) {
	type item struct {
		Name  string `json:"name"`
		Count int    `json:"count,omitempty"`
	}

	doc, err := Encode(item{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, Document{"name": "a"}, doc)

	var out item
	require.NoError(t, Decode(Document{"name": "b", "count": 2}, &out))
	assert.Equal(t, item{Name: "b", Count: 2}, out)
}
