package event

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFireCallsListenersInOrder(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var got []string
	Listen("product.created", func(_ context.Context, p interface{}) { got = append(got, "a:"+p.(string)) })
	Listen("product.created", func(_ context.Context, p interface{}) { got = append(got, "b:"+p.(string)) })
	Listen("other", func(context.Context, interface{}) { got = append(got, "other") })

	Fire(context.Background(), "product.created", "x")
	assert.Equal(t, []string{"a:x", "b:x"}, got)
}

func TestFireSurvivesPanickingListener(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	called := false
	Listen("e", func(context.Context, interface{}) { panic("boom") })
	Listen("e", func(context.Context, interface{}) { called = true })

	assert.NotPanics(t, func() { Fire(context.Background(), "e", nil) })
	assert.True(t, called)
}

func TestFireAsync(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var wg sync.WaitGroup
	wg.Add(2)
	Listen("e", func(context.Context, interface{}) { wg.Done() })
	Listen("e", func(context.Context, interface{}) { wg.Done() })

	ctx, cancel := context.WithCancel(context.Background())
	FireAsync(ctx, "e", nil)
	cancel()
	wg.Wait()
}
