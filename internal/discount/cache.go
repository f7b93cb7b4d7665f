package discount

import "sync"

// EngineCache memoizes constructed engines per campaign id. It is owned by
// the caller, never by this package: hosts decide its lifetime and bust
// entries when campaign configuration changes. Correctness never depends on
// it since engines are pure.
type EngineCache struct {
	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewEngineCache constructs an empty cache.
func NewEngineCache() *EngineCache {
	return &EngineCache{engines: make(map[string]*Engine)}
}

// Get returns the cached engine for the campaign id, if any.
func (c *EngineCache) Get(campaignID string) (*Engine, bool) {
	if c == nil || campaignID == "" {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.engines[campaignID]
	return e, ok
}

// Put stores an engine under the campaign id.
func (c *EngineCache) Put(campaignID string, e *Engine) {
	if c == nil || campaignID == "" || e == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engines[campaignID] = e
}

// Invalidate drops the cached engine for one campaign.
func (c *EngineCache) Invalidate(campaignID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.engines, campaignID)
}

// Reset drops every cached engine.
func (c *EngineCache) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engines = make(map[string]*Engine)
}
