package jsonwrap

import (
	"encoding/json"
	"errors"
	"testing"

	"wealth_backend/internal/shared/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_RecoversInnermostDocument(t *testing.T) {
	t.Parallel()

	inner := `{"2025-03-14":{"close":101.5},"2025-03-13":{"close":100}}`
	innerStr, err := EncodeString(inner)
	require.NoError(t, err)
	data := `{"AAPL":` + innerStr + `}`
	dataStr, _ := EncodeString(data)
	object := `{"data":` + dataStr + `}`
	objectStr, _ := EncodeString(object)
	body := []byte(`{"object":` + objectStr + `}`)

	mid, err := Path(body, "object", "data")
	require.NoError(t, err)
	assert.JSONEq(t, data, string(mid))

	key, val, count, err := FirstKey(mid)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", key)
	assert.Equal(t, 1, count)

	got, err := Unquote(val)
	require.NoError(t, err)
	assert.JSONEq(t, inner, string(got))
}

func TestStringField_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `hello`},
		{"not object", `[1,2]`},
		{"missing field", `{"other":"x"}`},
		{"null field", `{"object":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := StringField([]byte(tt.doc), "object")
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrParse))
		})
	}
}

func TestStringField_AcceptsEmbeddedObject(t *testing.T) {
	t.Parallel()

	got, err := StringField([]byte(`{"object": {"data": 1}}`), "object")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":1}`, string(got))
}

func TestFirstKey_DocumentOrder(t *testing.T) {
	t.Parallel()

	// map順では "Apple Inc" が先になるが、文書順では "Zeta" が先
	key, val, count, err := FirstKey([]byte(`{"Zeta": "1", "Apple Inc": "2", "Mid": {"a": [1, 2]}}`))
	require.NoError(t, err)
	assert.Equal(t, "Zeta", key)
	assert.Equal(t, json.RawMessage(`"1"`), val)
	assert.Equal(t, 3, count)
}

func TestFirstKey_Errors(t *testing.T) {
	t.Parallel()

	_, _, _, err := FirstKey([]byte(`{}`))
	assert.ErrorIs(t, err, ErrNoKeys)
	assert.ErrorIs(t, err, apperr.ErrParse)

	_, _, _, err = FirstKey([]byte(`["a"]`))
	assert.ErrorIs(t, err, apperr.ErrParse)

	_, _, _, err = FirstKey([]byte(`{"a": `))
	assert.ErrorIs(t, err, apperr.ErrParse)
}
