package catalog

import (
	"sync"
	"time"

	"github.com/iudanet/cfhelper/internal/models"
)

// Cache is the in-process catalog cache. One instance is owned by a Service
// for the lifetime of the process.
type Cache struct {
	mu        sync.RWMutex
	problems  []models.Problem
	fetchedAt time.Time
	present   bool
}

// Get returns the cached problems and their fetch time
func (c *Cache) Get() ([]models.Problem, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.problems, c.fetchedAt, c.present
}

// Fresh reports whether a cached catalog exists and is younger than ttl
func (c *Cache) Fresh(now time.Time, ttl time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.present && now.Sub(c.fetchedAt) < ttl
}

// Set replaces the cached catalog wholesale
func (c *Cache) Set(problems []models.Problem, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.problems = problems
	c.fetchedAt = fetchedAt
	c.present = true
}

// Clear drops the cached catalog
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.problems = nil
	c.fetchedAt = time.Time{}
	c.present = false
}
