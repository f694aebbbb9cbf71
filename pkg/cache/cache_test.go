package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := NewCache()
	defer c.Close()

	c.Set("k", "v", time.Minute)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache()
	defer c.Close()

	c.Set("short", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("short")
	assert.False(t, ok)
}

func TestCache_Add(t *testing.T) {
	c := NewCache()
	defer c.Close()

	assert.True(t, c.Add("view:1:alice", true, time.Minute))
	assert.False(t, c.Add("view:1:alice", true, time.Minute))

	c.Set("stale", true, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	assert.True(t, c.Add("stale", true, time.Minute))
}
