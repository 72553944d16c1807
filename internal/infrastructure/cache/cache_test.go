package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestKeyed(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewKeyed[string, int](time.Hour, clock.Now)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	c.Set("b", 2)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	t.Run("expires after ttl", func(t *testing.T) {
		clock.Advance(59 * time.Minute)
		_, ok := c.Get("b")
		assert.True(t, ok)

		clock.Advance(time.Minute)
		_, ok = c.Get("b")
		assert.False(t, ok)
	})

	t.Run("purge removes stale entries", func(t *testing.T) {
		c.Set("c", 3)
		assert.Equal(t, 2, c.Purge())
		assert.Equal(t, 1, c.Len())
	})

	t.Run("explicit expire", func(t *testing.T) {
		c.Expire("c")
		_, ok := c.Get("c")
		assert.False(t, ok)
	})
}

func TestSingle(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewSingle[string, string](time.Hour, clock.Now)

	c.Set("BRL", "brl-rates")
	v, ok := c.Get("BRL")
	assert.True(t, ok)
	assert.Equal(t, "brl-rates", v)

	c.Set("USD", "usd-rates")
	_, ok = c.Get("BRL")
	assert.False(t, ok, "setting another key must discard the previous entry")

	v, ok = c.Get("USD")
	assert.True(t, ok)
	assert.Equal(t, "usd-rates", v)

	clock.Advance(time.Hour)
	_, ok = c.Get("USD")
	assert.False(t, ok)

	c.Set("EUR", "eur-rates")
	c.Expire()
	_, ok = c.Get("EUR")
	assert.False(t, ok)
}
