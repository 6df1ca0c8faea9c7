package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ---- fakes ----

type fakeSource struct {
	rates []string
	err   error
	calls int
}

func (f *fakeSource) Name() string { return "fake" }
func (f *fakeSource) Load(ctx context.Context) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(f.rates))
	copy(out, f.rates)
	return out, nil
}

// fakeCache stores JSON like the Redis adapter does.
type fakeCache struct {
	mu     sync.Mutex
	store  map[string][]byte
	getErr error
	dels   []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeWriter struct {
	mu        sync.Mutex
	rows      map[int64]string
	truncFrom int64
	failID    int64
}

func (w *fakeWriter) UpsertRate(ctx context.Context, id int64, rate string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failID >= 0 && id == w.failID {
		return errors.New("boom")
	}
	if w.rows == nil {
		w.rows = map[int64]string{}
	}
	w.rows[id] = rate
	return nil
}
func (w *fakeWriter) Truncate(ctx context.Context, from int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.truncFrom = from
	for id := range w.rows {
		if id >= from {
			delete(w.rows, id)
		}
	}
	return nil
}

type fakeMetrics struct {
	mu      sync.Mutex
	lookups []string
	loads   []string
}

func (m *fakeMetrics) ObserveLookup(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, outcome)
}
func (m *fakeMetrics) ObserveTableLoad(source, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, source+":"+result)
}
