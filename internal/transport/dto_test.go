package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, 2, 10, 13)
	assert.Equal(t, 2, p.LastPage)
	require.NotNil(t, p.From)
	require.NotNil(t, p.To)
	assert.Equal(t, 11, *p.From)
	assert.Equal(t, 13, *p.To)
}

func TestNewPage_Empty(t *testing.T) {
	p := NewPage[int](nil, 5, 10, 0)
	assert.Equal(t, 1, p.LastPage)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.Nil(t, p.From)
	assert.Nil(t, p.To)
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantSet bool
		want    *string
	}{
		{name: "absent", body: `{"name":"x"}`},
		{name: "null", body: `{"description":null}`, wantSet: true},
		{name: "empty string", body: `{"description":""}`, wantSet: true, want: ptr("")},
		{name: "value", body: `{"description":"steel"}`, wantSet: true, want: ptr("steel")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req PatchProductRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.wantSet, req.Description.Set)
			assert.Equal(t, tt.want, req.Description.Value)
		})
	}
}

func TestOptional_WrongTypeNamesField(t *testing.T) {
	var req PatchCategoryRequest
	err := json.Unmarshal([]byte(`{"description":12}`), &req)

	var ute *json.UnmarshalTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "description", ute.Field)
}

func ptr[T any](v T) *T { return &v }
