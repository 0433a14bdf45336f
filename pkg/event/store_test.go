package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {

	t.Run("should return empty list for an empty directory", func(t *testing.T) {
		store := NewFileStore(t.TempDir())

		events, err := store.Load()

		require.NoError(t, err)
		assert.Empty(t, events)
		assert.True(t, store.LastUpdate().IsZero())
	})

	t.Run("should load what was saved", func(t *testing.T) {
		store := NewFileStore(t.TempDir())
		saved := []Event{
			makeEvent("e1", time.Date(2026, time.February, 2, 10, 0, 0, 0, time.UTC), "2026-spring"),
		}

		require.NoError(t, store.Save(saved))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "e1", loaded[0].ID)
		assert.True(t, loaded[0].Date.Equal(saved[0].Date.Time))
	})

	t.Run("should round-trip the last update timestamp", func(t *testing.T) {
		store := NewFileStore(t.TempDir())
		updatedAt := time.Date(2026, time.March, 10, 8, 30, 0, 0, time.UTC)

		require.NoError(t, store.SetLastUpdate(updatedAt))

		assert.True(t, store.LastUpdate().Equal(updatedAt))
	})
}

func TestFlexTime(t *testing.T) {

	t.Run("should accept the remote's loose date formats", func(t *testing.T) {
		for raw, want := range map[string]time.Time{
			`"2026-02-02"`:           time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC),
			`"2026-02-02T10:30:00Z"`: time.Date(2026, time.February, 2, 10, 30, 0, 0, time.UTC),
			`"2026-02-02 10:30"`:     time.Date(2026, time.February, 2, 10, 30, 0, 0, time.UTC),
		} {
			var parsed FlexTime
			require.NoError(t, json.Unmarshal([]byte(raw), &parsed), raw)
			assert.True(t, parsed.Equal(want), raw)
		}
	})

	t.Run("should reject garbage dates", func(t *testing.T) {
		var parsed FlexTime
		assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &parsed))
	})

	t.Run("should tolerate null and empty values", func(t *testing.T) {
		var parsed FlexTime
		require.NoError(t, json.Unmarshal([]byte(`null`), &parsed))
		require.NoError(t, json.Unmarshal([]byte(`""`), &parsed))
		assert.True(t, parsed.IsZero())
	})
}
