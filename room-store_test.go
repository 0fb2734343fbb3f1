package gorelay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Members(t *testing.T) {
	t.Run("should preserve insertion order and forbid duplicates", func(t *testing.T) {
		s := NewStore()
		s.EnsureRoom("general")

		s.AddMember("general", "alice")
		s.AddMember("general", "bob")
		s.AddMember("general", "alice")

		assert.Equal(t, []string{"alice", "bob"}, s.Members("general"))
	})

	t.Run("remove is a no-op when absent", func(t *testing.T) {
		s := NewStore()
		s.EnsureRoom("general")
		s.AddMember("general", "alice")

		s.RemoveMember("general", "carol")
		s.RemoveMember("general", "alice")
		s.RemoveMember("general", "alice")

		assert.Empty(t, s.Members("general"))
	})

	t.Run("unknown room reads return nil", func(t *testing.T) {
		s := NewStore()
		assert.Nil(t, s.Members("nowhere"))
		assert.Nil(t, s.RecentMessages("nowhere", 50))
		assert.False(t, s.HasRoom("nowhere"))
	})
}

func TestStore_EnsureRoom(t *testing.T) {
	t.Run("should not reset existing state", func(t *testing.T) {
		s := NewStore()
		s.EnsureRoom("general")
		s.AddMember("general", "alice")

		s.EnsureRoom("general")

		assert.Equal(t, []string{"alice"}, s.Members("general"))
	})
}

func TestStore_AppendMessage(t *testing.T) {
	t.Run("history holds the most recent min(N, 100) messages in arrival order", func(t *testing.T) {
		s := NewStore()
		s.EnsureRoom("general")

		for n := 1; n <= 250; n++ {
			ok := s.AppendMessage("general", Message{ID: fmt.Sprintf("m-%d", n)})
			require.True(t, ok)

			window := s.RecentMessages("general", MaxHistory)
			want := n
			if want > MaxHistory {
				want = MaxHistory
			}
			require.Len(t, window, want)
			require.Equal(t, fmt.Sprintf("m-%d", n), window[len(window)-1].ID)
			require.Equal(t, fmt.Sprintf("m-%d", n-want+1), window[0].ID)
		}
	})

	t.Run("should report false and discard for an unknown room", func(t *testing.T) {
		s := NewStore()
		assert.False(t, s.AppendMessage("nowhere", Message{ID: "m-1"}))
		assert.False(t, s.HasRoom("nowhere"))
	})
}

func TestStore_RecentMessages(t *testing.T) {
	t.Run("should return the last limit messages chronologically", func(t *testing.T) {
		s := NewStore()
		s.EnsureRoom("general")
		for n := 0; n < 80; n++ {
			s.AppendMessage("general", Message{ID: fmt.Sprintf("m-%d", n)})
		}

		window := s.RecentMessages("general", 50)
		require.Len(t, window, 50)
		assert.Equal(t, "m-30", window[0].ID)
		assert.Equal(t, "m-79", window[49].ID)
	})

	t.Run("should return fewer when history is shorter", func(t *testing.T) {
		s := NewStore()
		s.EnsureRoom("general")
		s.AppendMessage("general", Message{ID: "m-0"})

		window := s.RecentMessages("general", 50)
		require.Len(t, window, 1)
	})

	t.Run("returned slice is detached from the history", func(t *testing.T) {
		s := NewStore()
		s.EnsureRoom("general")
		s.AppendMessage("general", Message{ID: "m-0", Text: "original"})

		window := s.RecentMessages("general", 50)
		window[0].Text = "mutated"

		assert.Equal(t, "original", s.RecentMessages("general", 50)[0].Text)
	})
}

func TestStore_Concurrent(t *testing.T) {
	t.Run("concurrent mutation across rooms and within a room is safe", func(t *testing.T) {
		s := NewStore()
		rooms := []string{"r1", "r2", "r3"}
		for _, r := range rooms {
			s.EnsureRoom(r)
		}

		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				room := rooms[w%len(rooms)]
				for n := 0; n < 200; n++ {
					user := fmt.Sprintf("user-%d", w)
					s.AddMember(room, user)
					s.AppendMessage(room, Message{ID: fmt.Sprintf("w%d-m%d", w, n)})
					s.Members(room)
					s.RecentMessages(room, 50)
					s.RemoveMember(room, user)
				}
			}(w)
		}
		wg.Wait()

		for _, r := range rooms {
			assert.LessOrEqual(t, len(s.RecentMessages(r, MaxHistory)), MaxHistory)
		}
	})
}
