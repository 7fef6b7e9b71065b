package modfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	t.Run("keeps order and lowercases", func(t *testing.T) {
		c, err := NewCatalog(
			Entry{Trigger: "Zeta", Pairs: []string{"One", " two "}},
			Entry{Trigger: "alpha"},
			Entry{Trigger: "MID", Pairs: []string{}},
		)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Len())

		var triggers []string
		var allPairs [][]string
		for trigger, pairs := range c.Entries() {
			triggers = append(triggers, trigger)
			allPairs = append(allPairs, pairs)
		}
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, triggers)
		assert.Equal(t, [][]string{{"one", "two"}, {}, {}}, allPairs)
	})

	t.Run("empty trigger", func(t *testing.T) {
		_, err := NewCatalog(Entry{Trigger: "ok"}, Entry{Trigger: "  "})
		require.ErrorIs(t, err, ErrEmptyTrigger)
		assert.Contains(t, err.Error(), "entry #1")
	})

	t.Run("duplicate trigger after lowercasing", func(t *testing.T) {
		_, err := NewCatalog(Entry{Trigger: "buy"}, Entry{Trigger: "BUY"})
		require.ErrorIs(t, err, ErrDuplicateTrigger)
	})

	t.Run("empty catalog", func(t *testing.T) {
		c, err := NewCatalog()
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	})
}

func TestCatalog_EntriesRestartable(t *testing.T) {
	c, err := NewCatalog(Entry{Trigger: "a"}, Entry{Trigger: "b"}, Entry{Trigger: "c"})
	require.NoError(t, err)

	collect := func() []string {
		var res []string
		for trigger := range c.Entries() {
			res = append(res, trigger)
		}
		return res
	}
	assert.Equal(t, []string{"a", "b", "c"}, collect())
	assert.Equal(t, []string{"a", "b", "c"}, collect())

	// early break doesn't affect the next iteration
	for trigger := range c.Entries() {
		if trigger == "a" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, collect())

	var nilCatalog *Catalog
	assert.Empty(t, func() []string {
		var res []string
		for trigger := range nilCatalog.Entries() {
			res = append(res, trigger)
		}
		return res
	}())
	assert.Equal(t, 0, nilCatalog.Len())
}
