package resource

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upper struct{}

func (upper) ToArray(_ context.Context, s string) Map { return Map{"v": s + "!"} }

func TestOneAndMany(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Map{"v": "a!"}, One[string](ctx, upper{}, "a"))
	assert.Equal(t, []Map{{"v": "a!"}, {"v": "b!"}}, Many[string](ctx, upper{}, []string{"a", "b"}))
}

func TestManyEmptyRendersArray(t *testing.T) {
	b, err := json.Marshal(Many[string](context.Background(), upper{}, nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}
