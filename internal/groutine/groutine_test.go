package groutine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoPropagatesName(t *testing.T) {
	got := make(chan string, 1)
	Go(nil, "worker-42", func(ctx context.Context) {
		got <- GetName(ctx)
	})

	select {
	case name := <-got:
		assert.Equal(t, "worker-42", name)
	case <-time.After(time.Second):
		t.Fatal("goroutine never ran")
	}
}

func TestGoInheritsParentContext(t *testing.T) {
	type key string
	parent := context.WithValue(context.Background(), key("k"), "v")

	got := make(chan context.Context, 1)
	Go(parent, "child", func(ctx context.Context) {
		got <- ctx
	})

	select {
	case ctx := <-got:
		require.Equal(t, "v", ctx.Value(key("k")))
	case <-time.After(time.Second):
		t.Fatal("goroutine never ran")
	}
}

func TestGetNameOutsideGo(t *testing.T) {
	assert.Empty(t, GetName(nil))
	assert.Empty(t, GetName(context.Background()))
}
