package users

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/user"
)

// cache indexes users by id and by lower-cased username.
type cache struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]user.User
	byName map[string]user.User
}

func newCache() *cache {
	return &cache{
		byID:   make(map[uuid.UUID]user.User),
		byName: make(map[string]user.User),
	}
}

func nameKey(name string) string { return strings.ToLower(name) }

func (c *cache) put(u user.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(u.ID)
	c.byID[u.ID] = u
	c.byName[nameKey(u.Username)] = u
}

func (c *cache) byUUID(id uuid.UUID) (user.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, ok := c.byID[id]
	return u, ok
}

func (c *cache) byUsername(name string) (user.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, ok := c.byName[nameKey(name)]
	return u, ok
}

func (c *cache) remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(id)
}

func (c *cache) removeLocked(id uuid.UUID) {
	old, ok := c.byID[id]
	if !ok {
		return
	}

	delete(c.byID, id)
	if held, ok := c.byName[nameKey(old.Username)]; ok && held.ID == id {
		delete(c.byName, nameKey(old.Username))
	}
}
