package memory

import (
	"context"
	"sync"
)

// PolicyStore keeps policy values in memory. Missing keys fall back to the engine defaults.
type PolicyStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewPolicyStore(initial map[string]string) *PolicyStore {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &PolicyStore{values: values}
}

func (p *PolicyStore) GetPolicy(_ context.Context, key string) (string, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	return v, ok, nil
}

func (p *PolicyStore) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}

func (p *PolicyStore) Delete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
}
