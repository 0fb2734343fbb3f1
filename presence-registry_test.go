package gorelay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	t.Run("should replace any prior association", func(t *testing.T) {
		reg := NewRegistry[string]()

		reg.Register("conn-a", "alice", "general")
		reg.Register("conn-a", "alice", "lounge")

		sess, ok := reg.Lookup("conn-a")
		require.True(t, ok)
		assert.Equal(t, Session{Username: "alice", Room: "lounge"}, sess)
		assert.Equal(t, 1, reg.Len())
	})
}

func TestRegistry_Unregister(t *testing.T) {
	t.Run("should remove and return the prior association", func(t *testing.T) {
		reg := NewRegistry[string]()
		reg.Register("conn-a", "alice", "general")

		sess, ok := reg.Unregister("conn-a")
		require.True(t, ok)
		assert.Equal(t, Session{Username: "alice", Room: "general"}, sess)

		_, ok = reg.Lookup("conn-a")
		assert.False(t, ok)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		reg := NewRegistry[string]()
		reg.Register("conn-a", "alice", "general")

		_, ok := reg.Unregister("conn-a")
		require.True(t, ok)
		_, ok = reg.Unregister("conn-a")
		assert.False(t, ok)
	})

	t.Run("absence is not an error", func(t *testing.T) {
		reg := NewRegistry[string]()
		_, ok := reg.Unregister("never-seen")
		assert.False(t, ok)
	})
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := NewRegistry[string]()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := fmt.Sprintf("conn-%d", w)
			for n := 0; n < 500; n++ {
				reg.Register(id, "user", "general")
				reg.Lookup(id)
				reg.Unregister(id)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 0, reg.Len())
}
